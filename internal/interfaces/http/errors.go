package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/celutaller-api/internal/application/dto"
	"github.com/jhoicas/celutaller-api/internal/domain"
)

// errorMapping asocia un error de dominio con su status y código HTTP.
type errorMapping struct {
	err    error
	status int
	code   string
}

// Orden relevante: los errores más específicos primero.
var errorMappings = []errorMapping{
	{domain.ErrInvalidTransition, fiber.StatusBadRequest, "INVALID_TRANSITION"},
	{domain.ErrMissingSLA, fiber.StatusBadRequest, "MISSING_SLA"},
	{domain.ErrAlreadyClosed, fiber.StatusBadRequest, "ALREADY_CLOSED"},
	{domain.ErrMissingFinalMovement, fiber.StatusBadRequest, "MISSING_FINAL_MOVEMENT"},
	{domain.ErrStockAdjustmentRequired, fiber.StatusBadRequest, "STOCK_ADJUSTMENT_REQUIRED"},
	{domain.ErrNothingToUpdate, fiber.StatusBadRequest, "NOTHING_TO_UPDATE"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
}

// writeError traduce un error de la capa de aplicación a la respuesta HTTP.
// Errores no mapeados (incluido domain.ErrStorage) responden 500 sin exponer la causa.
func writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: verr.Error(),
			Details: verr.Fields,
		})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	requestLogger(c).Error().Err(err).Str("path", c.Path()).Msg("error interno")
	code := "INTERNAL"
	if errors.Is(err, domain.ErrStorage) {
		code = "STORAGE_ERROR"
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: code, Message: "error interno del servidor"})
}

// idParam lee el parámetro :id como entero positivo.
func idParam(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "id inválido")
	}
	return int64(id), nil
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
