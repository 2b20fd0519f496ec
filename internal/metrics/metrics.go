package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the collectors.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Recorder is the subset of metrics the services emit.
type Recorder interface {
	RecordRegistration(outcome string)
	RecordLogin(outcome string)
	RecordVerification(outcome string, took time.Duration)
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) RecordRegistration(string)                {}
func (Noop) RecordLogin(string)                       {}
func (Noop) RecordVerification(string, time.Duration) {}

// Collector records service metrics in Prometheus.
type Collector struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	verifications *prometheus.CounterVec
	verifyLatency prometheus.Histogram
}

// NewCollector builds a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tinybank_registrations_total",
			Help: "Registration attempts by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tinybank_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tinybank_ifsc_verifications_total",
			Help: "Outbound IFSC verification calls by outcome.",
		}, []string{"outcome"}),
		verifyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tinybank_ifsc_verification_seconds",
			Help:    "Latency of outbound IFSC verification calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(c.registrations, c.logins, c.verifications, c.verifyLatency)
	return c
}

func (c *Collector) RecordRegistration(outcome string) {
	c.registrations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordVerification(outcome string, took time.Duration) {
	c.verifications.WithLabelValues(outcome).Inc()
	c.verifyLatency.Observe(took.Seconds())
}

// Handler exposes the gatherer in the Prometheus text format as a Fiber handler.
func Handler(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
