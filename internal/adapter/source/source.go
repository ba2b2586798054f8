// Package source selects and runs the configured ledger loader.
package source

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerrange/internal/adapter/source/csvfile"
	pgsource "github.com/iho/ledgerrange/internal/adapter/source/postgres"
	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/infrastructure/config"
	"github.com/iho/ledgerrange/internal/infrastructure/postgres"
	"github.com/iho/ledgerrange/internal/usecase"
)

// Describe names the configured dataset for display.
func Describe(cfg *config.Config) string {
	if cfg.DatasetSource == config.SourcePostgres {
		return cfg.DatabaseTable
	}
	return cfg.DatasetPath
}

// Load reads the ledger from the source named by cfg. A database pool is
// opened only for the duration of the load.
func Load(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*domain.LedgerSet, error) {
	switch cfg.DatasetSource {
	case config.SourceCSV:
		delim, err := cfg.Delimiter()
		if err != nil {
			return nil, err
		}

		return csvfile.NewLoader(csvfile.Config{
			Path:        cfg.DatasetPath,
			Encoding:    cfg.DatasetEncoding,
			Delimiter:   delim,
			DateLayouts: cfg.DateLayouts(),
		}, logger).Load(ctx)

	case config.SourcePostgres:
		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrSourceNotFound, err)
		}
		defer pool.Close()

		loader := pgsource.NewLoader(pool, cfg.DatabaseTable, cfg.DateLayouts(), logger)
		return retryLoad(ctx, pgsource.NewRetrier(logger), loader)

	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.DatasetSource)
	}
}

func retryLoad(ctx context.Context, r *pgsource.Retrier, src usecase.LedgerSource) (*domain.LedgerSet, error) {
	var ledger *domain.LedgerSet
	err := r.Retry(ctx, func() error {
		var err error
		ledger, err = src.Load(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ledger, nil
}
