package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiny-bank/tiny_bank/internal/apperror"
	"github.com/tiny-bank/tiny_bank/internal/logging"
)

type idempotencyFixture struct {
	app   *fiber.App
	calls int
	fail  bool
}

func setupIdempotencyApp(t *testing.T) *idempotencyFixture {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	f := &idempotencyFixture{}
	logger := logging.Discard()
	f.app = fiber.New(fiber.Config{ErrorHandler: apperror.Handler(logger)})
	f.app.Use(Idempotency(cache, time.Minute, logger))
	f.app.Post("/register", func(c *fiber.Ctx) error {
		f.calls++
		if f.fail {
			return apperror.Conflict("Account number already registered.")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": f.calls})
	})
	return f
}

func (f *idempotencyFixture) post(t *testing.T, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/register", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestIdempotencyPassesThroughWithoutHeader(t *testing.T) {
	f := setupIdempotencyApp(t)

	status, first := f.post(t, "")
	assert.Equal(t, fiber.StatusCreated, status)
	_, second := f.post(t, "")

	assert.Equal(t, 2, f.calls)
	assert.NotEqual(t, first, second)
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	f := setupIdempotencyApp(t)

	status, first := f.post(t, "abc123")
	require.Equal(t, fiber.StatusCreated, status)

	// Second request should return the cached response without invoking handler again.
	status, second := f.post(t, "abc123")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, first, second)
	assert.Equal(t, 1, f.calls)
}

func TestIdempotencyReleasesKeyOnFailure(t *testing.T) {
	f := setupIdempotencyApp(t)
	f.fail = true

	status, _ := f.post(t, "retry-me")
	assert.Equal(t, fiber.StatusConflict, status)

	f.fail = false
	status, _ = f.post(t, "retry-me")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, 2, f.calls)
}

func TestIdempotencyReplayKeepsFreshRequestID(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	calls := 0
	logger := logging.Discard()
	app := fiber.New(fiber.Config{ErrorHandler: apperror.Handler(logger)})
	app.Use(RequestID())
	app.Use(Idempotency(cache, time.Minute, logger))
	app.Post("/register", func(c *fiber.Ctx) error {
		calls++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": calls})
	})

	send := func(requestID string) *http.Response {
		req := httptest.NewRequest(fiber.MethodPost, "/register", strings.NewReader("{}"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(idempotencyKeyHeader, "same-key")
		req.Header.Set(requestIDHeader, requestID)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	first := send("req-1")
	second := send("req-2")

	assert.Equal(t, fiber.StatusCreated, second.StatusCode)
	assert.Equal(t, "req-1", first.Header.Get(requestIDHeader))
	assert.Equal(t, "req-2", second.Header.Get(requestIDHeader))
	assert.Equal(t, 1, calls)
}
