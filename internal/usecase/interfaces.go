package usecase

import (
	"context"
	"time"

	"github.com/iho/ledgerrange/internal/domain"
)

// LedgerSource loads the dataset the engine works on.
type LedgerSource interface {
	Load(ctx context.Context) (*domain.LedgerSet, error)
}

// SpreadsheetWriter serializes a result set to spreadsheet bytes.
type SpreadsheetWriter interface {
	Write(rs *domain.ResultSet) ([]byte, error)
}

// ExportStore keeps generated spreadsheets until they are downloaded.
type ExportStore interface {
	Save(ctx context.Context, token string, data []byte, ttl time.Duration) error
	// Load returns domain.ErrExportNotFound for unknown or expired tokens.
	Load(ctx context.Context, token string) ([]byte, error)
	Ping(ctx context.Context) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}
