package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerrange/internal/adapter/http/handler"
	"github.com/iho/ledgerrange/internal/adapter/http/middleware"
	"github.com/iho/ledgerrange/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler *handler.LedgerHandler
	ExportHandler *handler.ExportHandler
	FormHandler   *handler.FormHandler
	HealthHandler *handler.HealthHandler
	RateLimiter   *middleware.RateLimiter
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	Logger        *zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(*cfg.Logger).Wrap)
	}
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	if cfg.FormHandler != nil {
		r.Get("/", cfg.FormHandler.Index)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/bounds", cfg.LedgerHandler.Bounds)
			r.Get("/balance", cfg.LedgerHandler.Balance)
			r.Get("/export", cfg.ExportHandler.Export)
		})

		r.Get("/exports/{token}", cfg.ExportHandler.Download)
	})

	return r
}
