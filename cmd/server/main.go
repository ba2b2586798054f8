package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/ledgerrange/internal/adapter/http"
	"github.com/iho/ledgerrange/internal/adapter/http/handler"
	"github.com/iho/ledgerrange/internal/adapter/http/middleware"
	"github.com/iho/ledgerrange/internal/adapter/repository/idgen"
	"github.com/iho/ledgerrange/internal/adapter/repository/memory"
	redisRepo "github.com/iho/ledgerrange/internal/adapter/repository/redis"
	"github.com/iho/ledgerrange/internal/adapter/source"
	"github.com/iho/ledgerrange/internal/adapter/spreadsheet"
	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/infrastructure/config"
	"github.com/iho/ledgerrange/internal/infrastructure/logger"
	"github.com/iho/ledgerrange/internal/infrastructure/metrics"
	"github.com/iho/ledgerrange/internal/infrastructure/redis"
	"github.com/iho/ledgerrange/internal/usecase"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.LoadWithDotEnv(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the ledger once; it is shared read-only by every request
	ledger, err := source.Load(ctx, cfg, appLogger)
	if err != nil {
		log.Fatal().Err(err).Str("source", source.Describe(cfg)).Msg("failed to load ledger")
	}

	m := metrics.New()
	m.LedgerEntries.Set(float64(ledger.Len()))
	m.LedgerDroppedRows.Set(float64(ledger.DroppedRows))

	store, closeStore, err := newExportStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer closeStore()

	filterUC := usecase.NewFilterUseCase(
		ledger,
		spreadsheet.NewXLSXWriter(),
		store,
		idgen.NewULIDGenerator(),
		cfg.ExportTTL,
		m,
	)

	router, limiter, err := newRouter(cfg, filterUC, store, ledger, m, appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}
	if limiter != nil {
		go limiter.Run(ctx, limiterCleanupInterval)
	}

	server := newHTTPServer(cfg, router)

	// Start server in goroutine
	go func() {
		log.Info().
			Str("port", cfg.HTTPPort).
			Str("source", source.Describe(cfg)).
			Int("entries", ledger.Len()).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped")
}

// newExportStore returns a Redis-backed store when REDIS_URL is set and a
// bounded in-process store otherwise.
func newExportStore(ctx context.Context, cfg *config.Config) (usecase.ExportStore, func(), error) {
	if cfg.RedisURL == "" {
		log.Info().
			Int("max_entries", cfg.ExportMaxEntries).
			Int64("max_bytes", cfg.ExportMaxBytes).
			Msg("REDIS_URL not set, keeping exports in memory")
		store := memory.NewExportStoreWithLimits(memory.Limits{
			MaxEntries: cfg.ExportMaxEntries,
			MaxBytes:   cfg.ExportMaxBytes,
		})
		return store, func() {}, nil
	}

	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Msg("connected to redis")

	return redisRepo.NewExportStore(client), func() { client.Close() }, nil
}

func newRouter(
	cfg *config.Config,
	filterUC *usecase.FilterUseCase,
	store usecase.ExportStore,
	ledger *domain.LedgerSet,
	m *metrics.Metrics,
	appLogger zerolog.Logger,
) (http.Handler, *middleware.RateLimiter, error) {
	formHandler, err := handler.NewFormHandler(filterUC, source.Describe(cfg))
	if err != nil {
		return nil, nil, err
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler: handler.NewLedgerHandler(filterUC),
		ExportHandler: handler.NewExportHandler(filterUC),
		FormHandler:   formHandler,
		HealthHandler: handler.NewHealthHandler(store, ledger.Len()),
		RateLimiter:   limiter,
		Metrics:       m,
		Logger:        &appLogger,
	})

	return router, limiter, nil
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}
