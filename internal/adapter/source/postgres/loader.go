package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/usecase"
)

// undefinedTable is the SQLSTATE for a missing relation.
const undefinedTable = "42P01"

// Querier is the subset of pgxpool.Pool used by the loader.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Loader implements usecase.LedgerSource over a PostgreSQL table.
type Loader struct {
	db          Querier
	table       string
	dateLayouts []string
	logger      zerolog.Logger
}

var _ usecase.LedgerSource = (*Loader)(nil)

// NewLoader creates a new Loader. table may be schema-qualified.
func NewLoader(db Querier, table string, dateLayouts []string, logger zerolog.Logger) *Loader {
	return &Loader{
		db:          db,
		table:       table,
		dateLayouts: dateLayouts,
		logger:      logger,
	}
}

// Load reads every row of the table in its natural order.
func (l *Loader) Load(ctx context.Context) (*domain.LedgerSet, error) {
	rows, err := l.db.Query(ctx, selectAll(l.table))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTable {
			return nil, fmt.Errorf("%w: table %s", domain.ErrSourceNotFound, l.table)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceParse, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}

	idx, err := domain.RequiredColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		entries []domain.Entry
		dropped int
		n       int
	)

	for rows.Next() {
		n++
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrSourceParse, n, err)
		}

		record := make([]string, len(values))
		for i, v := range values {
			record[i] = textValue(v)
		}

		e, err := domain.ParseRecord(record, idx[domain.ColumnDate], idx[domain.ColumnDebit], idx[domain.ColumnCredit], l.dateLayouts)
		if errors.Is(err, domain.ErrInvalidDate) {
			dropped++
			l.logger.Debug().Int("row", n).Err(err).Msg("row dropped")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", domain.ErrSourceParse, n, err)
		}

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceParse, err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no rows with a valid %s", domain.ErrSourceParse, domain.ColumnDate)
	}

	ledger, err := domain.NewLedgerSet(header, entries)
	if err != nil {
		return nil, err
	}
	ledger.DroppedRows = dropped

	l.logger.Info().
		Str("table", l.table).
		Int("entries", ledger.Len()).
		Int("dropped", dropped).
		Msg("ledger loaded")

	return ledger, nil
}

func selectAll(table string) string {
	return "SELECT * FROM " + pgx.Identifier(strings.Split(table, ".")).Sanitize()
}

// textValue renders a decoded column value the way it would appear in a
// delimited export of the table.
func textValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return domain.FormatDate(val)
		}
		return val.Format("2006-01-02 15:04:05")
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case driver.Valuer:
		dv, err := val.Value()
		if err != nil || dv == nil {
			return ""
		}
		return textValue(dv)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
