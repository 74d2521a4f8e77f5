package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"portal/internal/domain/auth"
	"portal/internal/platform/config"
	"portal/internal/platform/metrics"
	apikeyshandler "portal/internal/transport/http/handlers/apikeys"
	audithandler "portal/internal/transport/http/handlers/audit"
	authhandler "portal/internal/transport/http/handlers/auth"
	currencyhandler "portal/internal/transport/http/handlers/currency"
	quoteshandler "portal/internal/transport/http/handlers/quotes"
	salaryhandler "portal/internal/transport/http/handlers/salary"
	"portal/internal/transport/http/middleware"
	"portal/internal/transport/http/shared"
)

// RateService is the exchange-rate surface used by the salary and currency routes.
type RateService interface {
	currencyhandler.RateService
	salaryhandler.RateSource
}

type KeyService interface {
	apikeyshandler.KeyService
	middleware.KeyAuthenticator
}

type AuditService interface {
	shared.AuditRecorder
	audithandler.EventReader
}

// Deps are the services mounted by NewRouter. Audit, Idempotency, Metrics and Ready may be nil.
type Deps struct {
	Config      config.Config
	Auth        authhandler.Authenticator
	Salary      salaryhandler.SalaryService
	Rates       RateService
	Quotes      quoteshandler.QuoteService
	Keys        KeyService
	Audit       AuditService
	Idempotency middleware.IdempotencyStore
	Metrics     *metrics.Collector
	Ready       func(ctx context.Context) error
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	perms := auth.StaticPermissions{}

	var recorder middleware.RequestRecorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}
	var auditRecorder shared.AuditRecorder
	if deps.Audit != nil {
		auditRecorder = deps.Audit
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(recorder))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	// Limiters run after authentication so buckets are keyed by principal; anonymous
	// requests such as /auth/login fall back to the client IP.
	rateLimit := middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute)
	sensitiveLimit := middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ready(ctx); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled && deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics.Handler())
	}

	salaryHandler := salaryhandler.NewHandler(deps.Salary, deps.Rates, auditRecorder, perms)
	quotesHandler := quoteshandler.NewHandler(deps.Quotes, deps.Idempotency, auditRecorder, perms)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/automation", func(r chi.Router) {
			r.Use(middleware.APIKey(deps.Keys))
			r.Use(rateLimit, sensitiveLimit)
			salaryHandler.RegisterAutomationRoutes(r)
			quotesHandler.RegisterAutomationRoutes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Use(rateLimit, sensitiveLimit)

			authhandler.NewHandler(deps.Auth).RegisterRoutes(r)
			salaryHandler.RegisterRoutes(r)
			currencyhandler.NewHandler(deps.Rates, auditRecorder, perms).RegisterRoutes(r)
			quotesHandler.RegisterRoutes(r)
			apikeyshandler.NewHandler(deps.Keys, auditRecorder, perms).RegisterRoutes(r)
			if deps.Audit != nil {
				audithandler.NewHandler(deps.Audit, perms).RegisterRoutes(r)
			}
		})
	})

	return router
}
