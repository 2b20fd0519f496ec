package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	healthTimeout = 2 * time.Second
	statusOK      = "ok"
	statusSkipped = "disabled"
	statusDown    = "unavailable"
)

// RegisterHealthRoutes adds a readiness endpoint that pings the backing stores.
// Stores that are not configured report "disabled" and do not fail the check.
// Ping errors are logged; callers only see "unavailable".
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		dbStatus := statusSkipped
		redisStatus := statusSkipped

		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if d.DB != nil {
			dbStatus = statusOK
			if err := d.DB.Ping(ctx); err != nil {
				d.Logger.Error("health check failed", slog.String("store", "postgres"), slog.Any("error", err))
				dbStatus = statusDown
			}
		}
		if d.Cache != nil {
			redisStatus = statusOK
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				d.Logger.Error("health check failed", slog.String("store", "redis"), slog.Any("error", err))
				redisStatus = statusDown
			}
		}
		status := http.StatusOK
		if !healthy(dbStatus) || !healthy(redisStatus) {
			status = http.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":    fiber.Map{"postgres": dbStatus, "redis": redisStatus},
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}

func healthy(status string) bool {
	return status == statusOK || status == statusSkipped
}
