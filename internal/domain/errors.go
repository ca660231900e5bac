package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrStorage      = errors.New("error de persistencia")

	// Flujo de devoluciones.
	ErrInvalidTransition       = errors.New("transición no permitida")
	ErrMissingSLA              = errors.New("debes definir un SLA cuando se entrega al proveedor")
	ErrAlreadyClosed           = errors.New("la devolución ya está cerrada")
	ErrMissingFinalMovement    = errors.New("registra la entrega final antes de cerrar")
	ErrStockAdjustmentRequired = errors.New("debes confirmar el ajuste de inventario para cerrar")
	ErrNothingToUpdate         = errors.New("sin cambios para actualizar")
)

// FieldError describe un campo rechazado por la validación de entrada.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa los campos inválidos de una petición. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	return ErrInvalidInput.Error() + ": " + e.Fields[0].Field + " " + e.Fields[0].Message
}

// Unwrap permite comparar con ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError de un solo campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
