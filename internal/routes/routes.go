package routes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/tiny-bank/tiny_bank/internal/auth"
	"github.com/tiny-bank/tiny_bank/internal/bankverify"
	"github.com/tiny-bank/tiny_bank/internal/config"
	"github.com/tiny-bank/tiny_bank/internal/identity"
	"github.com/tiny-bank/tiny_bank/internal/infra"
	"github.com/tiny-bank/tiny_bank/internal/metrics"
	"github.com/tiny-bank/tiny_bank/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger

	// HTTPClient is used for bank verification calls. When nil a client
	// bounded by Cfg.VerifierTimeout is built.
	HTTPClient *http.Client
	// Registry receives the service metrics. When nil a fresh registry with
	// the Go and process collectors is created.
	Registry *prometheus.Registry
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	registry := d.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	collector := metrics.NewCollector(registry)

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	// Ops
	RegisterHealthRoutes(app, d)
	app.Get("/metrics", metrics.Handler(registry))

	// Services and handlers
	var identityRepo identity.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
	} else {
		identityRepo = identity.NewMemoryRepository()
	}

	httpClient := d.HTTPClient
	if httpClient == nil {
		httpClient = infra.NewHTTPClient(d.Cfg.VerifierTimeout)
	}
	var verifier bankverify.Verifier = bankverify.NewHTTPClient(httpClient, d.Cfg.VerifierURL, d.Logger, collector)
	if d.Cache != nil && d.Cfg.VerifierCacheTTL > 0 {
		verifier = bankverify.NewCachedVerifier(verifier, d.Cache, d.Cfg.VerifierCacheTTL, d.Logger)
	}

	identitySvc := identity.NewService(identityRepo, verifier, d.Logger, collector)
	tokens := auth.NewTokenService(d.Cfg.JWTSecret)
	authSvc := auth.NewService(identitySvc, tokens, d.Logger)
	guard := middleware.NewSessionGuard(tokens, identitySvc, d.Logger)

	var idempotent fiber.Handler
	if d.Cache != nil {
		idempotent = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}

	RegisterIdentityRoutes(app, identity.NewHandler(identitySvc), guard, idempotent)
	RegisterAuthRoutes(app, auth.NewHandler(authSvc))

	return nil
}
