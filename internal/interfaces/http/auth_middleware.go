package http

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/celutaller-api/internal/application/dto"
	"github.com/jhoicas/celutaller-api/pkg/jwt"
)

// Locals keys para el actor autenticado y su rol en Fiber.
const (
	LocalActor = "actor"
	LocalRole  = "role"
)

// AdminAuth credenciales aceptadas por RequireAdmin.
type AdminAuth struct {
	APIKey    string // ADMIN_API_KEY; vacío = servidor mal configurado
	JWTSecret string // vacío = solo se acepta la API key
}

// RequireAdmin acepta la API key de administrador en x-api-key o como Bearer,
// o un token de sesión emitido por /api/auth/login con rol admin.
//
//   - 500 ADMIN_KEY_NOT_CONFIGURED → falta ADMIN_API_KEY en el servidor.
//   - 401 UNAUTHORIZED → credencial ausente o inválida.
func RequireAdmin(auth AdminAuth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if auth.APIKey == "" {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Code:    "ADMIN_KEY_NOT_CONFIGURED",
				Message: "ADMIN_API_KEY no está configurada en el servidor",
			})
		}
		token := credential(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credencial requerida"})
		}
		if matchesKey(token, auth.APIKey) {
			c.Locals(LocalActor, jwt.RoleAdmin)
			c.Locals(LocalRole, jwt.RoleAdmin)
			return c.Next()
		}
		if auth.JWTSecret != "" {
			claims, err := jwt.Parse(auth.JWTSecret, token)
			if err == nil && claims.Role == jwt.RoleAdmin {
				c.Locals(LocalActor, claims.Actor)
				c.Locals(LocalRole, claims.Role)
				return c.Next()
			}
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credencial inválida o expirada"})
	}
}

// credential toma x-api-key o, si no viene, el token de "Authorization: Bearer <token>".
func credential(c *fiber.Ctx) string {
	if key := strings.TrimSpace(c.Get("x-api-key")); key != "" {
		return key
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func matchesKey(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// GetActor devuelve el actor autenticado (después de RequireAdmin).
func GetActor(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalActor).(string)
	return s
}

// GetRole devuelve el rol autenticado (después de RequireAdmin).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
