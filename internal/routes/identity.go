package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiny-bank/tiny_bank/internal/identity"
	"github.com/tiny-bank/tiny_bank/internal/middleware"
)

// RegisterIdentityRoutes wires onboarding and the authenticated info view.
// idempotent may be nil when no cache is configured.
func RegisterIdentityRoutes(r fiber.Router, h *identity.Handler, guard *middleware.SessionGuard, idempotent fiber.Handler) {
	if idempotent != nil {
		r.Post("/register", idempotent, h.Register)
	} else {
		r.Post("/register", h.Register)
	}
	r.Get("/auth/info", guard.Protect(h.Info))
}
