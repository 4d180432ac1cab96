package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/seller-catalog-api/internal/application/dto"
	"github.com/jhoicas/seller-catalog-api/pkg/jwt"
)

// LocalUserID clave en c.Locals del usuario autenticado.
const LocalUserID = "user_id"

// AuthMiddleware exige "Authorization: Bearer <jwt>" y deja el usuario en c.Locals(LocalUserID).
// Productos y compras siempre se filtran por ese usuario.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return denied(c, "MISSING_TOKEN", "Authorization header requerido")
		}
		token, ok := bearerToken(header)
		if !ok {
			return denied(c, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		if token == "" {
			return denied(c, "MISSING_TOKEN", "token vacío")
		}
		userID, err := jwt.Parse(jwtSecret, token)
		if err != nil {
			return denied(c, "INVALID_TOKEN", "token inválido o expirado")
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func denied(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// GetUserID devuelve el usuario autenticado ("" fuera de AuthMiddleware).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}
