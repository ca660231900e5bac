package returns_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/celutaller-api/internal/domain"
	"github.com/jhoicas/celutaller-api/internal/domain/entity"
	"github.com/jhoicas/celutaller-api/internal/domain/returns"
)

func TestCanTransition_TablaCompleta(t *testing.T) {
	allowed := map[entity.ReturnStatus][]entity.ReturnStatus{
		entity.ReturnStatusReported:          {entity.ReturnStatusTechnicalReview, entity.ReturnStatusRejected},
		entity.ReturnStatusTechnicalReview:   {entity.ReturnStatusSentToSupplier, entity.ReturnStatusReplaced, entity.ReturnStatusRefunded, entity.ReturnStatusRepairedDelivered, entity.ReturnStatusRejected},
		entity.ReturnStatusSentToSupplier:    {entity.ReturnStatusAwaitingReturn, entity.ReturnStatusReplaced, entity.ReturnStatusRefunded, entity.ReturnStatusRepairedDelivered, entity.ReturnStatusRejected},
		entity.ReturnStatusAwaitingReturn:    {entity.ReturnStatusReplaced, entity.ReturnStatusRefunded, entity.ReturnStatusRepairedDelivered, entity.ReturnStatusRejected},
		entity.ReturnStatusReplaced:          {entity.ReturnStatusClosed},
		entity.ReturnStatusRefunded:          {entity.ReturnStatusClosed},
		entity.ReturnStatusRepairedDelivered: {entity.ReturnStatusClosed},
		entity.ReturnStatusRejected:          {entity.ReturnStatusClosed},
		entity.ReturnStatusClosed:            {},
	}

	for _, from := range returns.Statuses() {
		for _, to := range returns.Statuses() {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, returns.CanTransition(from, to), "%s → %s", from, to)
		}
	}
}

func TestValidateTransition_NoPermitida(t *testing.T) {
	for _, from := range returns.Statuses() {
		for _, to := range returns.Statuses() {
			if returns.CanTransition(from, to) {
				continue
			}
			rc := &entity.ReturnCase{Status: from}
			err := returns.ValidateTransition(rc, to, nil)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s → %s", from, to)
			assert.Equal(t, from, rc.Status, "la validación no debe modificar el estado")
		}
	}
}

func TestValidateTransition_ReportadaACerradaDirecto(t *testing.T) {
	rc := &entity.ReturnCase{Status: entity.ReturnStatusReported}
	err := returns.ValidateTransition(rc, entity.ReturnStatusClosed, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestValidateTransition_EntregaProveedorRequiereSLA(t *testing.T) {
	rc := &entity.ReturnCase{Status: entity.ReturnStatusTechnicalReview}
	err := returns.ValidateTransition(rc, entity.ReturnStatusSentToSupplier, nil)
	assert.ErrorIs(t, err, domain.ErrMissingSLA)

	sla := time.Now().Add(48 * time.Hour)
	require.NoError(t, returns.ValidateTransition(rc, entity.ReturnStatusSentToSupplier, &sla))

	rc.SupplierSLA = &sla
	assert.NoError(t, returns.ValidateTransition(rc, entity.ReturnStatusSentToSupplier, nil),
		"el SLA ya almacenado es suficiente")
}

func TestValidateClose_Precondiciones(t *testing.T) {
	open := &entity.ReturnCase{Status: entity.ReturnStatusReplaced}
	closed := &entity.ReturnCase{Status: entity.ReturnStatusClosed}

	assert.ErrorIs(t, returns.ValidateClose(closed, true, true), domain.ErrAlreadyClosed)
	assert.ErrorIs(t, returns.ValidateClose(open, false, true), domain.ErrMissingFinalMovement)
	assert.ErrorIs(t, returns.ValidateClose(open, true, false), domain.ErrStockAdjustmentRequired)
	assert.ErrorIs(t, returns.ValidateClose(closed, false, false), domain.ErrStockAdjustmentRequired,
		"sin confirmación de ajuste siempre falla por ajuste de stock")
	assert.NoError(t, returns.ValidateClose(open, true, true))
}

func TestAllowedTransitions_DevuelveCopia(t *testing.T) {
	next := returns.AllowedTransitions(entity.ReturnStatusReported)
	require.Len(t, next, 2)
	next[0] = entity.ReturnStatusClosed
	assert.False(t, returns.CanTransition(entity.ReturnStatusReported, entity.ReturnStatusClosed))
}

func TestTransitionComment(t *testing.T) {
	assert.Equal(t, "Estado actualizado a rechazada", returns.TransitionComment(entity.ReturnStatusRejected, ""))
	assert.Equal(t, "sin garantía", returns.TransitionComment(entity.ReturnStatusRejected, "sin garantía"))
	assert.Equal(t, "Cerrada por ana", returns.CloseComment("ana"))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, returns.IsValidStatus(entity.ReturnStatusAwaitingReturn))
	assert.False(t, returns.IsValidStatus("perdida"))
}

func TestFormatCode(t *testing.T) {
	day := time.Date(2025, 1, 7, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "DEV-250107-0042", returns.FormatCode(day, 42))
	assert.Equal(t, "DEV-250107-12345", returns.FormatCode(day, 12345))
}
