package dto

import "github.com/jhoicas/celutaller-api/internal/domain"

// ErrorResponse cuerpo de error HTTP. Details solo en errores de validación.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// LoginRequest canjea la API key de administrador por un token de sesión.
type LoginRequest struct {
	APIKey string `json:"apiKey" validate:"required"`
}

// LoginResponse token de sesión emitido por /api/auth/login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // segundos
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
