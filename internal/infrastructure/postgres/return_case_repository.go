package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	"github.com/jhoicas/celutaller-api/internal/domain/repository"
	workflow "github.com/jhoicas/celutaller-api/internal/domain/returns"
)

var _ repository.ReturnCaseRepository = (*ReturnCaseRepo)(nil)

// ReturnCaseRepo implementación de ReturnCaseRepository (usable con pool o tx).
type ReturnCaseRepo struct {
	q Querier
}

// NewReturnCaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnCaseRepository(q Querier) *ReturnCaseRepo {
	return &ReturnCaseRepo{q: q}
}

const returnCaseColumns = `
	d.id, d.codigo, d.inventario_item_id, d.producto_nombre, d.proveedor_id, d.cliente_id,
	d.motivo, d.diagnostico, d.sla_proveedor, d.estado, d.resultado_final, d.ajuste_stock,
	d.ajuste_notas, d.cerrada_por, d.cerrada_en, d.created_at, d.updated_at,
	p.nombre, c.nombre`

const returnCaseFrom = `
	FROM devoluciones d
	LEFT JOIN proveedores p ON p.id = d.proveedor_id
	LEFT JOIN clients c ON c.id = d.cliente_id`

func scanReturnCase(row pgx.Row) (*entity.ReturnCase, error) {
	var rc entity.ReturnCase
	err := row.Scan(
		&rc.ID, &rc.Code, &rc.InventoryItemID, &rc.ProductName, &rc.SupplierID, &rc.ClientID,
		&rc.Reason, &rc.Diagnosis, &rc.SupplierSLA, &rc.Status, &rc.FinalResolution, &rc.StockAdjusted,
		&rc.AdjustmentNotes, &rc.ClosedBy, &rc.ClosedAt, &rc.CreatedAt, &rc.UpdatedAt,
		&rc.SupplierName, &rc.ClientName,
	)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// NextCode toma el siguiente valor de devolucion_codigo_seq.
func (r *ReturnCaseRepo) NextCode(ctx context.Context, now time.Time) (string, error) {
	var seq int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('devolucion_codigo_seq')`).Scan(&seq); err != nil {
		return "", storageErr("next return code", err)
	}
	return workflow.FormatCode(now, seq), nil
}

// Create persiste la devolución y asigna rc.ID.
func (r *ReturnCaseRepo) Create(ctx context.Context, rc *entity.ReturnCase) error {
	query := `
		INSERT INTO devoluciones
			(codigo, inventario_item_id, producto_nombre, proveedor_id, cliente_id, motivo,
			 diagnostico, sla_proveedor, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		rc.Code, rc.InventoryItemID, rc.ProductName, rc.SupplierID, rc.ClientID, rc.Reason,
		rc.Diagnosis, rc.SupplierSLA, string(rc.Status), rc.CreatedAt, rc.UpdatedAt,
	).Scan(&rc.ID)
	if err != nil {
		return storageErr("insert return", err)
	}
	return nil
}

// GetByID obtiene una devolución con nombres de proveedor y cliente.
func (r *ReturnCaseRepo) GetByID(ctx context.Context, id int64) (*entity.ReturnCase, error) {
	return r.get(ctx, id, "")
}

// GetByIDForUpdate bloquea la fila de la devolución hasta el fin de la transacción.
func (r *ReturnCaseRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.ReturnCase, error) {
	return r.get(ctx, id, " FOR UPDATE OF d")
}

func (r *ReturnCaseRepo) get(ctx context.Context, id int64, lock string) (*entity.ReturnCase, error) {
	query := "SELECT" + returnCaseColumns + returnCaseFrom + " WHERE d.id = $1" + lock
	rc, err := scanReturnCase(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get return", err)
	}
	return rc, nil
}

// List devuelve devoluciones filtradas, más recientes primero.
func (r *ReturnCaseRepo) List(ctx context.Context, f repository.ReturnCaseFilter) ([]*entity.ReturnCase, error) {
	var w where
	if f.Status != nil {
		w.add("d.estado = ?", string(*f.Status))
	}
	if f.Search != "" {
		w.add("(LOWER(d.codigo) LIKE ? OR LOWER(COALESCE(p.nombre, '')) LIKE ? OR LOWER(COALESCE(c.nombre, '')) LIKE ?)",
			"%"+strings.ToLower(f.Search)+"%")
	}
	if f.SLAFrom != nil {
		w.add("d.sla_proveedor >= ?", *f.SLAFrom)
	}
	if f.SLATo != nil {
		w.add("d.sla_proveedor <= ?", *f.SLATo)
	}
	if f.CreatedFrom != nil {
		w.add("d.created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		w.add("d.created_at <= ?", *f.CreatedTo)
	}

	query := "SELECT" + returnCaseColumns + returnCaseFrom + w.sql() + " ORDER BY d.created_at DESC, d.id DESC"
	args := w.args
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list returns", err)
	}
	defer rows.Close()
	var list []*entity.ReturnCase
	for rows.Next() {
		rc, err := scanReturnCase(rows)
		if err != nil {
			return nil, storageErr("scan return", err)
		}
		list = append(list, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list returns", err)
	}
	return list, nil
}

// Update aplica los campos no nil del patch.
func (r *ReturnCaseRepo) Update(ctx context.Context, id int64, p repository.ReturnCasePatch, now time.Time) (bool, error) {
	query := `
		UPDATE devoluciones SET
			motivo = COALESCE($2, motivo),
			diagnostico = COALESCE($3, diagnostico),
			proveedor_id = COALESCE($4, proveedor_id),
			cliente_id = COALESCE($5, cliente_id),
			sla_proveedor = COALESCE($6, sla_proveedor),
			updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, p.Reason, p.Diagnosis, p.SupplierID, p.ClientID, p.SupplierSLA, now)
	if err != nil {
		return false, storageErr("update return", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateStatus cambia el estado; sla nil conserva el SLA almacenado.
func (r *ReturnCaseRepo) UpdateStatus(ctx context.Context, id int64, status entity.ReturnStatus, sla *time.Time, now time.Time) error {
	query := `
		UPDATE devoluciones
		SET estado = $2, sla_proveedor = COALESCE($3, sla_proveedor), updated_at = $4
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, id, string(status), sla, now); err != nil {
		return storageErr("update return status", err)
	}
	return nil
}

// Close marca la devolución como cerrada con ajuste de stock confirmado.
func (r *ReturnCaseRepo) Close(ctx context.Context, id int64, c repository.ReturnCaseClosure) error {
	query := `
		UPDATE devoluciones
		SET estado = $2, resultado_final = $3, ajuste_stock = TRUE, ajuste_notas = $4,
			cerrada_por = $5, cerrada_en = $6, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, string(entity.ReturnStatusClosed), c.FinalResolution, c.AdjustmentNotes, c.ClosedBy, c.ClosedAt)
	if err != nil {
		return storageErr("close return", err)
	}
	return nil
}

// AddMovement inserta un movimiento de custodia.
func (r *ReturnCaseRepo) AddMovement(ctx context.Context, m *entity.CustodyMovement) error {
	query := `
		INSERT INTO devolucion_movimientos (devolucion_id, tipo, entregado_por, recibido_por, fecha, notas)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, m.ReturnID, m.Type, m.DeliveredBy, m.ReceivedBy, m.Date, m.Notes).Scan(&m.ID)
	if err != nil {
		return storageErr("insert return movement", err)
	}
	return nil
}

// ListMovements movimientos por fecha ascendente.
func (r *ReturnCaseRepo) ListMovements(ctx context.Context, returnID int64) ([]*entity.CustodyMovement, error) {
	query := `
		SELECT id, devolucion_id, tipo, entregado_por, recibido_por, fecha, notas
		FROM devolucion_movimientos WHERE devolucion_id = $1 ORDER BY fecha ASC, id ASC`
	rows, err := r.q.Query(ctx, query, returnID)
	if err != nil {
		return nil, storageErr("list return movements", err)
	}
	defer rows.Close()
	list := []*entity.CustodyMovement{}
	for rows.Next() {
		var m entity.CustodyMovement
		if err := rows.Scan(&m.ID, &m.ReturnID, &m.Type, &m.DeliveredBy, &m.ReceivedBy, &m.Date, &m.Notes); err != nil {
			return nil, storageErr("scan return movement", err)
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list return movements", err)
	}
	return list, nil
}

// HasMovementOfType indica si existe al menos un movimiento del tipo dado.
func (r *ReturnCaseRepo) HasMovementOfType(ctx context.Context, returnID int64, movementType string) (bool, error) {
	var ok bool
	query := `SELECT EXISTS (SELECT 1 FROM devolucion_movimientos WHERE devolucion_id = $1 AND tipo = $2)`
	if err := r.q.QueryRow(ctx, query, returnID, movementType).Scan(&ok); err != nil {
		return false, storageErr("check return movement", err)
	}
	return ok, nil
}

// AddHistory inserta una entrada de historial.
func (r *ReturnCaseRepo) AddHistory(ctx context.Context, h *entity.HistoryEntry) error {
	query := `
		INSERT INTO devolucion_historial (devolucion_id, estado, comentario, actor, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	var metadata any
	if len(h.Metadata) > 0 {
		metadata = string(h.Metadata)
	}
	err := r.q.QueryRow(ctx, query, h.ReturnID, string(h.Status), h.Comment, h.Actor, metadata, h.CreatedAt).Scan(&h.ID)
	if err != nil {
		return storageErr("insert return history", err)
	}
	return nil
}

// ListHistory historial más reciente primero.
func (r *ReturnCaseRepo) ListHistory(ctx context.Context, returnID int64) ([]*entity.HistoryEntry, error) {
	query := `
		SELECT id, devolucion_id, estado, comentario, actor, metadata, created_at
		FROM devolucion_historial WHERE devolucion_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, returnID)
	if err != nil {
		return nil, storageErr("list return history", err)
	}
	defer rows.Close()
	list := []*entity.HistoryEntry{}
	for rows.Next() {
		var h entity.HistoryEntry
		var metadata []byte
		if err := rows.Scan(&h.ID, &h.ReturnID, &h.Status, &h.Comment, &h.Actor, &metadata, &h.CreatedAt); err != nil {
			return nil, storageErr("scan return history", err)
		}
		if len(metadata) > 0 {
			h.Metadata = metadata
		}
		list = append(list, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list return history", err)
	}
	return list, nil
}

// AddAttachment inserta un adjunto.
func (r *ReturnCaseRepo) AddAttachment(ctx context.Context, a *entity.Attachment) error {
	query := `
		INSERT INTO devolucion_adjuntos (devolucion_id, tipo, url, nombre, subido_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, a.ReturnID, a.Type, a.URL, a.Name, a.UploadedBy, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		return storageErr("insert return attachment", err)
	}
	return nil
}

// ListAttachments adjuntos más recientes primero.
func (r *ReturnCaseRepo) ListAttachments(ctx context.Context, returnID int64) ([]*entity.Attachment, error) {
	query := `
		SELECT id, devolucion_id, tipo, url, nombre, subido_por, created_at
		FROM devolucion_adjuntos WHERE devolucion_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, returnID)
	if err != nil {
		return nil, storageErr("list return attachments", err)
	}
	defer rows.Close()
	list := []*entity.Attachment{}
	for rows.Next() {
		var a entity.Attachment
		if err := rows.Scan(&a.ID, &a.ReturnID, &a.Type, &a.URL, &a.Name, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, storageErr("scan return attachment", err)
		}
		list = append(list, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list return attachments", err)
	}
	return list, nil
}
