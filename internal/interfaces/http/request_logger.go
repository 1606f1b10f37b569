package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sigra-api/pkg/logger"
)

// RequestLogger registra una línea por request con status, latencia, request id y RUT.
// Debe ir después de requestid.New() para tener el id disponible.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// Deja que el ErrorHandler escriba la respuesta antes de leer el status.
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev = ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Interface("request_id", c.Locals("requestid"))
		if w := GetWorker(c); w != nil {
			ev = ev.Int64("rut", w.RUT)
		}
		ev.Msg("request")
		return nil
	}
}
