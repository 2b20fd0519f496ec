package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tiny-bank/tiny_bank/internal/apperror"
)

// Audit writes one structured log line per request. Handler errors are
// logged by kind only; the error handler owns the detailed log.
func Audit(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Duration("duration", time.Since(start)),
			slog.String("ip", c.IP()),
		}
		if requestID := RequestIDFrom(c); requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				attrs = append(attrs, slog.Int("status", fiberErr.Code))
			} else {
				kind := apperror.KindOf(err)
				attrs = append(attrs, slog.Int("status", kind.Status()), slog.String("error_kind", kind.String()))
			}
			logger.Info("request completed", attrs...)
			return err
		}

		attrs = append(attrs, slog.Int("status", c.Response().StatusCode()))
		logger.Info("request completed", attrs...)
		return nil
	}
}
