package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/tiny-bank/tiny_bank/internal/identity"
)

// Handler exposes the login endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login validates credentials and returns a session token.
func (h *Handler) Login(c *fiber.Ctx) error {
	creds, err := identity.ParseCredentials(c)
	if err != nil {
		return err
	}
	token, err := h.svc.Login(c.UserContext(), creds)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(loginResponse{Token: token})
}
