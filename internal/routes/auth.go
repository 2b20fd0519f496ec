package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tiny-bank/tiny_bank/internal/auth"
)

// RegisterAuthRoutes wires authentication endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler) {
	r.Post("/login", h.Login)
}
