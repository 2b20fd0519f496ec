package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRegistration(OutcomeSuccess)
	c.RecordRegistration(OutcomeConflict)
	c.RecordRegistration(OutcomeConflict)
	c.RecordLogin(OutcomeRejected)
	c.RecordVerification(OutcomeSuccess, 120*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.registrations.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.registrations.WithLabelValues(OutcomeConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.logins.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.verifications.WithLabelValues(OutcomeSuccess)))
}

func TestHandlerServesExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogin(OutcomeSuccess)

	app := fiber.New()
	app.Get("/metrics", Handler(reg))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `tinybank_logins_total{outcome="success"} 1`)
}
