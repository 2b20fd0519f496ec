package identity

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tiny-bank/tiny_bank/internal/apperror"
)

// Handler exposes identity endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CredentialsRequest is the JSON body of /register and /login.
type CredentialsRequest struct {
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc"`
}

type registerResponse struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"userId"`
}

// ParseCredentials decodes a CredentialsRequest body.
func ParseCredentials(c *fiber.Ctx) (Credentials, error) {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return Credentials{}, apperror.Validationf("Invalid request body.")
	}
	return Credentials{AccountNumber: req.AccountNumber, IFSC: req.IFSC}, nil
}

// Register handles account onboarding.
func (h *Handler) Register(c *fiber.Ctx) error {
	creds, err := ParseCredentials(c)
	if err != nil {
		return err
	}
	identity, err := h.service.Register(c.UserContext(), creds)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(registerResponse{
		Message: "User registered successfully.",
		UserID:  identity.ID,
	})
}

// Info returns the redacted view of the authenticated identity.
func (h *Handler) Info(c *fiber.Ctx, identity Identity) error {
	return c.Status(http.StatusOK).JSON(Redact(identity))
}
