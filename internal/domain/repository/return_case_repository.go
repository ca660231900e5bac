package repository

import (
	"context"
	"time"

	"github.com/jhoicas/celutaller-api/internal/domain/entity"
)

// ReturnCaseFilter criterios de consulta de devoluciones. Campos nil/vacíos no filtran.
type ReturnCaseFilter struct {
	Status      *entity.ReturnStatus
	Search      string     // subcadena en código, proveedor o cliente (sin distinguir mayúsculas)
	SLAFrom     *time.Time // sla_proveedor >= SLAFrom
	SLATo       *time.Time // sla_proveedor <= SLATo
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int // 0 = sin límite
}

// ReturnCasePatch campos descriptivos editables; nil = sin cambio.
type ReturnCasePatch struct {
	Reason      *string
	Diagnosis   *string
	SupplierID  *int64
	ClientID    *int64
	SupplierSLA *time.Time
}

// IsEmpty indica si el patch no modifica ningún campo.
func (p ReturnCasePatch) IsEmpty() bool {
	return p.Reason == nil && p.Diagnosis == nil && p.SupplierID == nil && p.ClientID == nil && p.SupplierSLA == nil
}

// ReturnCaseClosure datos persistidos al cerrar una devolución.
type ReturnCaseClosure struct {
	FinalResolution string
	AdjustmentNotes *string
	ClosedBy        string
	ClosedAt        time.Time
}

// ReturnCaseRepository puerto de persistencia del agregado devolución
// (caso + movimientos + historial + adjuntos).
type ReturnCaseRepository interface {
	// NextCode asigna el siguiente código DEV-YYMMDD-NNNN desde la secuencia.
	NextCode(ctx context.Context, now time.Time) (string, error)
	Create(ctx context.Context, rc *entity.ReturnCase) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.ReturnCase, error)
	// GetByIDForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.ReturnCase, error)
	List(ctx context.Context, filter ReturnCaseFilter) ([]*entity.ReturnCase, error)
	// Update aplica el patch; found=false si la devolución no existe.
	Update(ctx context.Context, id int64, patch ReturnCasePatch, now time.Time) (found bool, err error)
	UpdateStatus(ctx context.Context, id int64, status entity.ReturnStatus, sla *time.Time, now time.Time) error
	Close(ctx context.Context, id int64, closure ReturnCaseClosure) error

	AddMovement(ctx context.Context, m *entity.CustodyMovement) error
	ListMovements(ctx context.Context, returnID int64) ([]*entity.CustodyMovement, error)
	HasMovementOfType(ctx context.Context, returnID int64, movementType string) (bool, error)

	AddHistory(ctx context.Context, h *entity.HistoryEntry) error
	ListHistory(ctx context.Context, returnID int64) ([]*entity.HistoryEntry, error)

	AddAttachment(ctx context.Context, a *entity.Attachment) error
	ListAttachments(ctx context.Context, returnID int64) ([]*entity.Attachment, error)
}
