package apperror

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns a Fiber ErrorHandler that writes {"error": ...} bodies.
// Storage, external and internal failures are logged in full and answered
// with a generic message; the other kinds carry their own safe message.
func Handler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := resolve(logger, c, err)
		return c.Status(status).JSON(errorResponse{Error: message})
	}
}

func resolve(logger *slog.Logger, c *fiber.Ctx, err error) (int, string) {
	var appErr *Error
	if errors.As(err, &appErr) {
		attrs := []any{
			slog.String("kind", appErr.Kind.String()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
		}
		if appErr.Reason != "" {
			attrs = append(attrs, slog.String("reason", appErr.Reason))
		}
		switch appErr.Kind {
		case KindStorage, KindExternal, KindInternal:
			if appErr.Err != nil {
				attrs = append(attrs, slog.Any("error", appErr.Err))
			}
			logger.Error("request failed", attrs...)
		case KindAuth:
			logger.Warn("request unauthorized", attrs...)
		}
		return appErr.Kind.Status(), appErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	logger.Error("unhandled error", slog.String("path", c.Path()), slog.Any("error", err))
	return fiber.StatusInternalServerError, msgInternal
}
