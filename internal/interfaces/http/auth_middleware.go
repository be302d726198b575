package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/rentability-pro/internal/application/auth"
	"github.com/jhoicas/rentability-pro/pkg/jwt"
)

// Locals keys de la identidad en Fiber.
const (
	LocalUserID   = "user_id"
	LocalIdentity = "identity"
)

// AuthMiddleware valida el Bearer Token del proveedor de identidad y deja la identidad en c.Locals.
func AuthMiddleware(uc *auth.AuthUseCase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uc.Authenticate(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalIdentity, id)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetIdentity devuelve la identidad completa; nil si la ruta no pasó por AuthMiddleware.
func GetIdentity(c *fiber.Ctx) *jwt.Identity {
	id, _ := c.Locals(LocalIdentity).(*jwt.Identity)
	return id
}

// AccessLog registra cada request con zerolog.
func AccessLog(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Se responde aquí para registrar el status final.
			_ = respondError(c, err)
			err = nil
		}
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("http")
		return err
	}
}
