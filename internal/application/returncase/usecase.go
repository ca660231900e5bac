// Package returncase orquesta el flujo de devoluciones a proveedor: es el único
// llamador de las reglas de internal/domain/returns y dueño de los límites
// transaccionales y de las proyecciones de lectura.
package returncase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jhoicas/celutaller-api/internal/application/dto"
	"github.com/jhoicas/celutaller-api/internal/domain"
	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	"github.com/jhoicas/celutaller-api/internal/domain/repository"
	workflow "github.com/jhoicas/celutaller-api/internal/domain/returns"
	"github.com/jhoicas/celutaller-api/pkg/logger"
)

// listLimit tope de filas del listado (el reporte no tiene tope).
const listLimit = 200

// UseCase casos de uso de devoluciones.
type UseCase struct {
	repo     repository.ReturnCaseRepository
	tx       TxRunner
	pdf      PDFGenerator
	xlsx     SpreadsheetWriter
	shopName string
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. repo se usa para lecturas y escrituras
// de una sola sentencia; tx para las escrituras de varias sentencias.
func NewUseCase(
	repo repository.ReturnCaseRepository,
	tx TxRunner,
	pdf PDFGenerator,
	xlsx SpreadsheetWriter,
	shopName string,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		repo:     repo,
		tx:       tx,
		pdf:      pdf,
		xlsx:     xlsx,
		shopName: shopName,
		log:      log.Component("returns"),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create abre una devolución en estado reportada con su primer movimiento de
// custodia y la entrada inicial de historial, todo en una transacción.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateReturnRequest) (*dto.ReturnDetailResponse, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	rc := &entity.ReturnCase{
		InventoryItemID: in.InventoryItemID,
		ProductName:     trimmed(in.ProductName),
		SupplierID:      in.SupplierID,
		ClientID:        in.ClientID,
		Reason:          strings.TrimSpace(in.Reason),
		Diagnosis:       trimmed(in.Diagnosis),
		SupplierSLA:     in.SupplierSLA,
		Status:          entity.ReturnStatusReported,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.tx.RunReturns(ctx, func(repo repository.ReturnCaseRepository) error {
		code, err := repo.NextCode(ctx, now)
		if err != nil {
			return err
		}
		rc.Code = code
		if err := repo.Create(ctx, rc); err != nil {
			return err
		}
		if err := repo.AddMovement(ctx, newMovement(rc.ID, in.FirstMovement, now)); err != nil {
			return err
		}
		comment := "Ingreso reportado"
		if n := trimmed(in.FirstMovement.Notes); n != nil {
			comment = *n
		}
		return repo.AddHistory(ctx, &entity.HistoryEntry{
			ReturnID:  rc.ID,
			Status:    entity.ReturnStatusReported,
			Comment:   comment,
			Actor:     entity.ActorSystem,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("return_id", rc.ID).Str("codigo", rc.Code).Msg("devolución registrada")
	return uc.GetDetail(ctx, rc.ID)
}

// List lista devoluciones (más recientes primero, máximo 200) filtrando por
// estado exacto, bucket de alerta SLA y texto libre.
func (uc *UseCase) List(ctx context.Context, q dto.ReturnListQuery) ([]dto.ReturnSummaryResponse, error) {
	now := uc.now()
	filter := repository.ReturnCaseFilter{
		Search: strings.TrimSpace(q.Search),
		Limit:  listLimit,
	}
	if q.Status != "" {
		status, err := parseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	alert := workflow.SLAAlertNone
	if q.Alert != "" {
		a, ok := workflow.ParseSLAAlert(q.Alert)
		if !ok {
			return nil, domain.NewValidationError("alerta", "debe ser uno de: 72h 24h overdue")
		}
		alert = a
		filter.SLAFrom, filter.SLATo = a.Window(now)
	}

	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReturnSummaryResponse, 0, len(list))
	for _, rc := range list {
		a := workflow.AlertFor(now, rc.SupplierSLA)
		if alert != workflow.SLAAlertNone && a != alert {
			continue
		}
		out = append(out, toSummary(rc, a))
	}
	return out, nil
}

// GetDetail devuelve la devolución con movimientos, historial y adjuntos.
func (uc *UseCase) GetDetail(ctx context.Context, id int64) (*dto.ReturnDetailResponse, error) {
	detail, err := loadDetail(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}
	return toDetailResponse(detail, uc.now()), nil
}

// AddMovement registra un movimiento de custodia; no cambia el estado.
func (uc *UseCase) AddMovement(ctx context.Context, id int64, in dto.MovementRequest) ([]dto.MovementResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if _, err := uc.mustExist(ctx, id); err != nil {
		return nil, err
	}
	if err := uc.repo.AddMovement(ctx, newMovement(id, in, uc.now())); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListMovements(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

// AddHistoryComment agrega un comentario manual con el estado actual y actor "sistema".
func (uc *UseCase) AddHistoryComment(ctx context.Context, id int64, in dto.HistoryCommentRequest) ([]dto.HistoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	rc, err := uc.mustExist(ctx, id)
	if err != nil {
		return nil, err
	}
	err = uc.repo.AddHistory(ctx, &entity.HistoryEntry{
		ReturnID:  id,
		Status:    rc.Status,
		Comment:   in.Comment,
		Actor:     entity.ActorSystem,
		CreatedAt: uc.now(),
	})
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return toHistoryResponses(list), nil
}

// AddAttachment agrega un adjunto de evidencia; la URL debe ser válida.
func (uc *UseCase) AddAttachment(ctx context.Context, id int64, in dto.AttachmentRequest) ([]dto.AttachmentResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if _, err := uc.mustExist(ctx, id); err != nil {
		return nil, err
	}
	err := uc.repo.AddAttachment(ctx, &entity.Attachment{
		ReturnID:   id,
		Type:       in.Type,
		URL:        in.URL,
		Name:       trimmed(in.Name),
		UploadedBy: in.UploadedBy,
		CreatedAt:  uc.now(),
	})
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListAttachments(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAttachmentResponses(list), nil
}

// Update modifica campos descriptivos sin tocar el estado.
func (uc *UseCase) Update(ctx context.Context, id int64, in dto.UpdateReturnRequest) (*dto.ReturnDetailResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	patch := repository.ReturnCasePatch{
		Reason:      in.Reason,
		Diagnosis:   in.Diagnosis,
		SupplierID:  in.SupplierID,
		ClientID:    in.ClientID,
		SupplierSLA: in.SupplierSLA,
	}
	if patch.IsEmpty() {
		return nil, domain.ErrNothingToUpdate
	}
	found, err := uc.repo.Update(ctx, id, patch, uc.now())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return uc.GetDetail(ctx, id)
}

// Transition cambia el estado según el grafo del flujo. La actualización del
// estado y la entrada de historial se confirman juntas o no se confirman.
func (uc *UseCase) Transition(ctx context.Context, id int64, in dto.TransitionRequest) (*dto.ReturnDetailResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	target, err := parseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	var from entity.ReturnStatus
	err = uc.tx.RunReturns(ctx, func(repo repository.ReturnCaseRepository) error {
		rc, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rc == nil {
			return domain.ErrNotFound
		}
		if err := workflow.ValidateTransition(rc, target, in.SupplierSLA); err != nil {
			return err
		}
		from = rc.Status
		now := uc.now()
		if err := repo.UpdateStatus(ctx, id, target, in.SupplierSLA, now); err != nil {
			return err
		}
		return repo.AddHistory(ctx, &entity.HistoryEntry{
			ReturnID:  id,
			Status:    target,
			Comment:   workflow.TransitionComment(target, strings.TrimSpace(in.Comment)),
			Actor:     entity.ActorSystem,
			Metadata:  transitionMetadata(from, target),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("return_id", id).Str("from", string(from)).Str("to", string(target)).Msg("estado de devolución actualizado")
	return uc.GetDetail(ctx, id)
}

// Close cierra la devolución. Exige confirmación del ajuste de stock y un
// movimiento de entrega final.
func (uc *UseCase) Close(ctx context.Context, id int64, in dto.CloseReturnRequest) (*dto.ReturnDetailResponse, error) {
	if in.StockAdjusted != nil && !*in.StockAdjusted {
		return nil, domain.ErrStockAdjustmentRequired
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var from entity.ReturnStatus
	err := uc.tx.RunReturns(ctx, func(repo repository.ReturnCaseRepository) error {
		rc, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rc == nil {
			return domain.ErrNotFound
		}
		hasFinal, err := repo.HasMovementOfType(ctx, id, entity.CustodyTypeFinalDelivery)
		if err != nil {
			return err
		}
		if err := workflow.ValidateClose(rc, hasFinal, *in.StockAdjusted); err != nil {
			return err
		}
		from = rc.Status
		now := uc.now()
		err = repo.Close(ctx, id, repository.ReturnCaseClosure{
			FinalResolution: strings.TrimSpace(in.FinalResolution),
			AdjustmentNotes: trimmed(in.AdjustmentNotes),
			ClosedBy:        in.ClosedBy,
			ClosedAt:        now,
		})
		if err != nil {
			return err
		}
		return repo.AddHistory(ctx, &entity.HistoryEntry{
			ReturnID:  id,
			Status:    entity.ReturnStatusClosed,
			Comment:   workflow.CloseComment(in.ClosedBy),
			Actor:     entity.ActorSystem,
			Metadata:  transitionMetadata(from, entity.ReturnStatusClosed),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Int64("return_id", id).Str("cerrada_por", in.ClosedBy).Msg("devolución cerrada")
	return uc.GetDetail(ctx, id)
}

func (uc *UseCase) mustExist(ctx context.Context, id int64) (*entity.ReturnCase, error) {
	rc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, domain.ErrNotFound
	}
	return rc, nil
}

func loadDetail(ctx context.Context, repo repository.ReturnCaseRepository, id int64) (*entity.ReturnCaseDetail, error) {
	rc, err := repo.GetByID(ctx, id)
	if err != nil || rc == nil {
		return nil, err
	}
	movements, err := repo.ListMovements(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := repo.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	attachments, err := repo.ListAttachments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.ReturnCaseDetail{Case: rc, Movements: movements, History: history, Attachments: attachments}, nil
}

func validateCreate(in dto.CreateReturnRequest) error {
	if err := dto.Validate(in); err != nil {
		return err
	}
	hasItem := in.InventoryItemID != nil
	hasName := trimmed(in.ProductName) != nil
	switch {
	case !hasItem && !hasName:
		return domain.NewValidationError("productoNombre", "debe indicar el repuesto vinculado o un nombre de producto")
	case hasItem && hasName:
		return domain.NewValidationError("productoNombre", "indique el repuesto vinculado o un nombre de producto, no ambos")
	}
	return nil
}

func parseStatus(s string) (entity.ReturnStatus, error) {
	status := entity.ReturnStatus(s)
	if !workflow.IsValidStatus(status) {
		return "", domain.NewValidationError("estado", "estado desconocido")
	}
	return status, nil
}

func newMovement(returnID int64, in dto.MovementRequest, now time.Time) *entity.CustodyMovement {
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	return &entity.CustodyMovement{
		ReturnID:    returnID,
		Type:        strings.TrimSpace(in.Type),
		DeliveredBy: in.DeliveredBy,
		ReceivedBy:  in.ReceivedBy,
		Date:        date,
		Notes:       trimmed(in.Notes),
	}
}

func transitionMetadata(from, to entity.ReturnStatus) json.RawMessage {
	b, _ := json.Marshal(map[string]string{"estadoAnterior": string(from), "estadoNuevo": string(to)})
	return b
}

// trimmed devuelve nil para punteros nil o cadenas vacías tras TrimSpace.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
