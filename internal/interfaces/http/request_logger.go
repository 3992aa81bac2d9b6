package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/field-assets-api/pkg/logger"
)

// LocalRequestID clave que usa el middleware requestid de Fiber.
const LocalRequestID = "requestid"

// RequestLogger registra método, ruta, estado y latencia de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("organization_id", GetOrganizationID(c)).
			Msg("request")
		return err
	}
}

func requestID(c *fiber.Ctx) string { return localString(c, LocalRequestID) }
