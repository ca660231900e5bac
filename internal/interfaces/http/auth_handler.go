package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/celutaller-api/internal/application/dto"
	"github.com/jhoicas/celutaller-api/pkg/jwt"
)

// TokenConfig parámetros de emisión de tokens de sesión.
type TokenConfig struct {
	Secret     string
	Issuer     string
	Expiration int // minutos
}

// AuthHandler canjea la API key por un token de sesión.
type AuthHandler struct {
	auth   AdminAuth
	tokens TokenConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(auth AdminAuth, tokens TokenConfig) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

// Login godoc
// @Summary      Iniciar sesión con la API key de administrador
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "apiKey"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if h.auth.APIKey == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "ADMIN_KEY_NOT_CONFIGURED", Message: "ADMIN_API_KEY no está configurada en el servidor"})
	}
	if h.tokens.Secret == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "JWT_NOT_CONFIGURED", Message: "JWT_SECRET no está configurado en el servidor"})
	}
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, err)
	}
	if !matchesKey(in.APIKey, h.auth.APIKey) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "API key inválida"})
	}
	token, err := jwt.Generate(h.tokens.Secret, jwt.RoleAdmin, jwt.RoleAdmin, h.tokens.Issuer, h.tokens.Expiration)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo emitir el token"})
	}
	return c.JSON(dto.LoginResponse{Token: token, ExpiresIn: h.tokens.Expiration * 60})
}
