package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Invalidator invalida las respuestas cacheadas (ver cache.RedisCache).
type Invalidator interface {
	Bump(ctx context.Context) error
}

// InvalidateOnWrite invalida la caché tras cada escritura exitosa (POST, PUT, PATCH, DELETE).
// Un fallo al invalidar no afecta la respuesta; solo se registra.
func InvalidateOnWrite(inv Invalidator, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil || inv == nil {
			return err
		}
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return nil
		}
		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			return nil
		}
		if bumpErr := inv.Bump(c.UserContext()); bumpErr != nil {
			log.Warn().Err(bumpErr).Str("path", c.Path()).Msg("no se pudo invalidar la caché")
		}
		return nil
	}
}
