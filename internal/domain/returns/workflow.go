// Package returns contiene las reglas del flujo de devoluciones a proveedor:
// grafo de estados, precondiciones de transición y cierre, y alertas de SLA.
// No depende de la persistencia.
package returns

import (
	"fmt"
	"time"

	"github.com/jhoicas/celutaller-api/internal/domain"
	"github.com/jhoicas/celutaller-api/internal/domain/entity"
)

// transitions estado actual → estados destino permitidos.
var transitions = map[entity.ReturnStatus][]entity.ReturnStatus{
	entity.ReturnStatusReported: {
		entity.ReturnStatusTechnicalReview,
		entity.ReturnStatusRejected,
	},
	entity.ReturnStatusTechnicalReview: {
		entity.ReturnStatusSentToSupplier,
		entity.ReturnStatusReplaced,
		entity.ReturnStatusRefunded,
		entity.ReturnStatusRepairedDelivered,
		entity.ReturnStatusRejected,
	},
	entity.ReturnStatusSentToSupplier: {
		entity.ReturnStatusAwaitingReturn,
		entity.ReturnStatusReplaced,
		entity.ReturnStatusRefunded,
		entity.ReturnStatusRepairedDelivered,
		entity.ReturnStatusRejected,
	},
	entity.ReturnStatusAwaitingReturn: {
		entity.ReturnStatusReplaced,
		entity.ReturnStatusRefunded,
		entity.ReturnStatusRepairedDelivered,
		entity.ReturnStatusRejected,
	},
	entity.ReturnStatusReplaced:          {entity.ReturnStatusClosed},
	entity.ReturnStatusRefunded:          {entity.ReturnStatusClosed},
	entity.ReturnStatusRepairedDelivered: {entity.ReturnStatusClosed},
	entity.ReturnStatusRejected:          {entity.ReturnStatusClosed},
	entity.ReturnStatusClosed:            {},
}

// Statuses devuelve todos los estados en el orden del flujo.
func Statuses() []entity.ReturnStatus {
	return []entity.ReturnStatus{
		entity.ReturnStatusReported,
		entity.ReturnStatusTechnicalReview,
		entity.ReturnStatusSentToSupplier,
		entity.ReturnStatusAwaitingReturn,
		entity.ReturnStatusReplaced,
		entity.ReturnStatusRefunded,
		entity.ReturnStatusRepairedDelivered,
		entity.ReturnStatusRejected,
		entity.ReturnStatusClosed,
	}
}

// IsValidStatus indica si s es un estado conocido.
func IsValidStatus(s entity.ReturnStatus) bool {
	_, ok := transitions[s]
	return ok
}

// AllowedTransitions devuelve una copia de los destinos permitidos desde from.
func AllowedTransitions(from entity.ReturnStatus) []entity.ReturnStatus {
	next := transitions[from]
	out := make([]entity.ReturnStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition indica si el grafo permite from → to.
func CanTransition(from, to entity.ReturnStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition valida el paso de rc al estado target.
// newSLA es el SLA enviado junto con la petición (puede ser nil).
func ValidateTransition(rc *entity.ReturnCase, target entity.ReturnStatus, newSLA *time.Time) error {
	if !CanTransition(rc.Status, target) {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, rc.Status, target)
	}
	if target == entity.ReturnStatusSentToSupplier && newSLA == nil && rc.SupplierSLA == nil {
		return domain.ErrMissingSLA
	}
	return nil
}

// ValidateClose verifica las precondiciones de cierre. La confirmación del
// ajuste de stock se exige siempre, antes que el resto de las reglas; luego
// se rechaza una devolución ya cerrada o sin entrega final registrada.
func ValidateClose(rc *entity.ReturnCase, hasFinalMovement, stockAdjustmentConfirmed bool) error {
	if !stockAdjustmentConfirmed {
		return domain.ErrStockAdjustmentRequired
	}
	if rc.Status == entity.ReturnStatusClosed {
		return domain.ErrAlreadyClosed
	}
	if !hasFinalMovement {
		return domain.ErrMissingFinalMovement
	}
	return nil
}

// TransitionComment comentario por defecto del historial al cambiar de estado.
func TransitionComment(target entity.ReturnStatus, comment string) string {
	if comment != "" {
		return comment
	}
	return fmt.Sprintf("Estado actualizado a %s", target)
}

// CloseComment comentario del historial al cerrar.
func CloseComment(closedBy string) string {
	return "Cerrada por " + closedBy
}

// FormatCode arma el código legible DEV-YYMMDD-NNNN. Secuencias de más de
// cuatro dígitos no se truncan.
func FormatCode(now time.Time, seq int64) string {
	return fmt.Sprintf("DEV-%s-%04d", now.Format("060102"), seq)
}
