package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/ledgerrange/internal/adapter/source"
	"github.com/iho/ledgerrange/internal/adapter/spreadsheet"
	"github.com/iho/ledgerrange/internal/adapter/terminal"
	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/infrastructure/config"
	"github.com/iho/ledgerrange/internal/infrastructure/logger"
	"github.com/iho/ledgerrange/internal/usecase"
)

// Exit codes.
const (
	exitFatal        = 1
	exitInvalidRange = 2
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, terminal.RenderWarning(err.Error()))
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrRangeOutOfBounds),
		errors.Is(err, domain.ErrInvalidDate):
		return exitInvalidRange
	default:
		return exitFatal
	}
}

// flags holds the persistent overrides of the environment configuration.
type flags struct {
	source    string
	csvPath   string
	encoding  string
	delimiter string
	table     string
	logLevel  string
}

type app struct {
	out   io.Writer
	errw  io.Writer
	flags flags

	// loadLedger is replaced in tests.
	loadLedger func(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*domain.LedgerSet, error)
}

func newRootCmd(out, errw io.Writer) *cobra.Command {
	a := &app{out: out, errw: errw, loadLedger: source.Load}

	rootCmd := &cobra.Command{
		Use:           "ledgerrange",
		Short:         "Filter a ledger by date range with running balance",
		Long:          `Filters ledger entries by a date range, prepends the prior debit/credit totals and adds a running balance column.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.source, "source", "", "Dataset source: csv or postgres (default from DATASET_SOURCE)")
	pf.StringVar(&a.flags.csvPath, "csv-path", "", "Path of the CSV file (default from DATASET_PATH)")
	pf.StringVar(&a.flags.encoding, "encoding", "", "CSV encoding: latin1, windows-1252 or utf-8")
	pf.StringVar(&a.flags.delimiter, "delimiter", "", "CSV field delimiter")
	pf.StringVar(&a.flags.table, "table", "", "Table to read when --source=postgres")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "Log level")

	rootCmd.AddCommand(
		a.boundsCmd(),
		a.previewCmd(),
		a.exportCmd(),
		a.formCmd(),
	)

	return rootCmd
}

func (a *app) boundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bounds",
		Short: "Print the date bounds of the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, cfg, err := a.useCase(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprint(a.out, terminal.RenderBounds(source.Describe(cfg), uc.Bounds()))
			return nil
		},
	}
}

func (a *app) previewCmd() *cobra.Command {
	var (
		desde, hasta string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the filtered ledger with running balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, _, err := a.useCase(cmd.Context())
			if err != nil {
				return err
			}

			rng, err := resolve(uc, desde, hasta)
			if err != nil {
				return err
			}

			rs, err := uc.Preview(cmd.Context(), rng)
			if err != nil {
				return err
			}

			fmt.Fprint(a.out, terminal.RenderTable(rs, limit))
			return nil
		},
	}

	cmd.Flags().StringVar(&desde, "desde", "", "Start date YYYY-MM-DD (default: first date)")
	cmd.Flags().StringVar(&hasta, "hasta", "", "End date YYYY-MM-DD (default: last date)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entry rows to print, 0 for all")

	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var desde, hasta, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered ledger to an Excel file",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, _, err := a.useCase(cmd.Context())
			if err != nil {
				return err
			}

			rng, err := resolve(uc, desde, hasta)
			if err != nil {
				return err
			}

			return a.export(cmd.Context(), uc, rng, out)
		},
	}

	cmd.Flags().StringVar(&desde, "desde", "", "Start date YYYY-MM-DD (default: first date)")
	cmd.Flags().StringVar(&hasta, "hasta", "", "End date YYYY-MM-DD (default: last date)")
	cmd.Flags().StringVar(&out, "out", usecase.ExportFilename, "Output file")

	return cmd
}

func (a *app) formCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Pick the range interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, _, err := a.useCase(cmd.Context())
			if err != nil {
				return err
			}

			res, err := terminal.NewRangeForm(uc.Bounds().Range).Run()
			if err != nil {
				return err
			}

			rng, err := uc.ResolveRange(&res.Range.From, &res.Range.To)
			if err != nil {
				return err
			}

			if !res.Export {
				rs, err := uc.Preview(cmd.Context(), rng)
				if err != nil {
					return err
				}
				fmt.Fprint(a.out, terminal.RenderTable(rs, 50))
				return nil
			}

			return a.export(cmd.Context(), uc, rng, res.OutPath)
		},
	}
}

func (a *app) export(ctx context.Context, uc *usecase.FilterUseCase, rng domain.DateRange, out string) error {
	data, rs, err := uc.Export(ctx, rng)
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Fprint(a.out, terminal.RenderTable(rs, 20))
	fmt.Fprintln(a.out, terminal.RenderSuccess(fmt.Sprintf("Archivo listo: %s (%d filas)", out, rs.Len()+1)))
	return nil
}

// config reads the environment and applies the command line overrides.
func (a *app) config() (*config.Config, error) {
	cfg, err := config.LoadWithDotEnv(".env")
	if err != nil {
		return nil, err
	}

	if a.flags.source != "" {
		cfg.DatasetSource = a.flags.source
	}
	if a.flags.csvPath != "" {
		cfg.DatasetPath = a.flags.csvPath
	}
	if a.flags.encoding != "" {
		cfg.DatasetEncoding = a.flags.encoding
	}
	if a.flags.delimiter != "" {
		cfg.DatasetDelimiter = a.flags.delimiter
	}
	if a.flags.table != "" {
		cfg.DatabaseTable = a.flags.table
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) useCase(ctx context.Context) (*usecase.FilterUseCase, *config.Config, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(logger.Config{Level: a.flags.logLevel, Format: "console", Output: a.errw})

	if ctx == nil {
		ctx = context.Background()
	}
	ledger, err := a.loadLedger(log.WithContext(ctx), cfg, log)
	if err != nil {
		return nil, nil, err
	}

	return usecase.NewFilterUseCase(ledger, spreadsheet.NewXLSXWriter(), nil, nil, 0, nil), cfg, nil
}

// resolve parses the optional --desde/--hasta values and checks them against
// the ledger bounds.
func resolve(uc *usecase.FilterUseCase, desde, hasta string) (domain.DateRange, error) {
	from, err := parseFlagDate("desde", desde)
	if err != nil {
		return domain.DateRange{}, err
	}
	to, err := parseFlagDate("hasta", hasta)
	if err != nil {
		return domain.DateRange{}, err
	}
	return uc.ResolveRange(from, to)
}

func parseFlagDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(value, []string{domain.DateLayout})
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}
