package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	pgsource "github.com/iho/ledgerrange/internal/adapter/source/postgres"
	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/infrastructure/config"
	"github.com/iho/ledgerrange/internal/usecase/mocks"
)

func TestLoad_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	content := "Fecha;Debe;Haber\n2024-01-01;10;0\n2024-01-02;0;4\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg := &config.Config{
		DatasetSource:    config.SourceCSV,
		DatasetPath:      path,
		DatasetEncoding:  "utf-8",
		DatasetDelimiter: ";",
	}

	ledger, err := Load(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Len() != 2 || !ledger.MaxDate.Equal(domain.NewDate(2024, time.January, 2)) {
		t.Fatalf("unexpected ledger: %d entries, max %s", ledger.Len(), ledger.MaxDate)
	}
}

func TestLoad_CSVMissingFile(t *testing.T) {
	cfg := &config.Config{
		DatasetSource:    config.SourceCSV,
		DatasetPath:      filepath.Join(t.TempDir(), "absent.csv"),
		DatasetDelimiter: ",",
	}

	if _, err := Load(context.Background(), cfg, zerolog.Nop()); !errors.Is(err, domain.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestLoad_PostgresUnreachable(t *testing.T) {
	cfg := &config.Config{
		DatasetSource:   config.SourcePostgres,
		DatabaseURL:     "postgres://invalid:5432/db",
		DatabaseTable:   "jdt1",
		DatabaseTimeout: time.Second,
	}

	if _, err := Load(context.Background(), cfg, zerolog.Nop()); !errors.Is(err, domain.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound when the database is unreachable, got %v", err)
	}
}

func TestLoad_UnknownSource(t *testing.T) {
	if _, err := Load(context.Background(), &config.Config{DatasetSource: "xls"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected an error for an unknown source")
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(&config.Config{DatasetSource: config.SourceCSV, DatasetPath: "BD_JDT1_ok.csv"}); got != "BD_JDT1_ok.csv" {
		t.Fatalf("unexpected description %q", got)
	}
	if got := Describe(&config.Config{DatasetSource: config.SourcePostgres, DatabaseTable: "jdt1"}); got != "jdt1" {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestRetryLoad_RetriesTransientFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockLedgerSource(ctrl)

	want := &domain.LedgerSet{}
	gomock.InOrder(
		src.EXPECT().Load(gomock.Any()).Return(nil, &pgconn.PgError{Code: "57P03"}),
		src.EXPECT().Load(gomock.Any()).Return(want, nil),
	)

	got, err := retryLoad(context.Background(), pgsource.NewRetrier(zerolog.Nop()), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("expected the ledger from the second attempt")
	}
}

func TestRetryLoad_PermanentFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockLedgerSource(ctrl)

	src.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrSourceNotFound).Times(1)

	if _, err := retryLoad(context.Background(), pgsource.NewRetrier(zerolog.Nop()), src); !errors.Is(err, domain.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
}
