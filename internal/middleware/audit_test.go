package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiny-bank/tiny_bank/internal/apperror"
	"github.com/tiny-bank/tiny_bank/internal/logging"
)

func auditedRequest(t *testing.T, method, path string) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "test", "info")

	app := fiber.New(fiber.Config{ErrorHandler: apperror.Handler(logging.Discard())})
	app.Use(RequestID())
	app.Use(Audit(logger))
	app.Post("/register", func(c *fiber.Ctx) error {
		return apperror.Conflict("Account number already registered.")
	})
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	resp.Body.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	entry := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	return entry
}

func TestAuditLogsHandlerStatus(t *testing.T) {
	entry := auditedRequest(t, fiber.MethodGet, "/ok")
	assert.Equal(t, float64(fiber.StatusOK), entry["status"])
	assert.NotContains(t, entry, "error_kind")
	assert.NotEmpty(t, entry["request_id"])
}

func TestAuditLogsErrorKind(t *testing.T) {
	entry := auditedRequest(t, fiber.MethodPost, "/register")
	assert.Equal(t, float64(fiber.StatusConflict), entry["status"])
	assert.Equal(t, "conflict", entry["error_kind"])
}

func TestAuditLogsRoutingErrorsWithTheirOwnStatus(t *testing.T) {
	entry := auditedRequest(t, fiber.MethodGet, "/missing")
	assert.Equal(t, float64(fiber.StatusNotFound), entry["status"])
	assert.NotContains(t, entry, "error_kind")
}
