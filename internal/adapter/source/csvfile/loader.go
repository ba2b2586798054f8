package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/usecase"
)

// Supported source encodings.
const (
	EncodingLatin1      = "latin1"
	EncodingWindows1252 = "windows-1252"
	EncodingUTF8        = "utf-8"
)

const ctxCheckEvery = 1024

// Config holds CSV loader configuration.
type Config struct {
	Path        string
	Encoding    string
	Delimiter   rune
	DateLayouts []string
}

// Loader implements usecase.LedgerSource over a delimited file.
type Loader struct {
	cfg    Config
	logger zerolog.Logger
}

var _ usecase.LedgerSource = (*Loader)(nil)

// NewLoader creates a new Loader.
func NewLoader(cfg Config, logger zerolog.Logger) *Loader {
	if cfg.Encoding == "" {
		cfg.Encoding = EncodingLatin1
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ','
	}

	return &Loader{cfg: cfg, logger: logger}
}

// Load reads the whole file. Rows whose date does not parse are dropped.
func (l *Loader) Load(ctx context.Context) (*domain.LedgerSet, error) {
	f, err := os.Open(l.cfg.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSourceNotFound, l.cfg.Path)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceParse, err)
	}
	defer f.Close()

	ledger, err := l.read(ctx, f)
	if err != nil {
		return nil, err
	}

	l.logger.Info().
		Str("path", l.cfg.Path).
		Int("entries", ledger.Len()).
		Int("dropped", ledger.DroppedRows).
		Str("date_min", domain.FormatDate(ledger.MinDate)).
		Str("date_max", domain.FormatDate(ledger.MaxDate)).
		Msg("ledger loaded")

	return ledger, nil
}

func (l *Loader) read(ctx context.Context, r io.Reader) (*domain.LedgerSet, error) {
	decoded, err := decode(r, l.cfg.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.Comma = l.cfg.Delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", domain.ErrSourceParse)
		}
		return nil, fmt.Errorf("%w: header: %v", domain.ErrSourceParse, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	idx, err := domain.RequiredColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		entries []domain.Entry
		dropped int
	)

	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSourceParse, err)
		}

		line, _ := cr.FieldPos(0)
		if len(record) > len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				domain.ErrSourceParse, line, len(record), len(header))
		}
		for len(record) < len(header) {
			record = append(record, "")
		}

		e, err := domain.ParseRecord(record, idx[domain.ColumnDate], idx[domain.ColumnDebit], idx[domain.ColumnCredit], l.cfg.DateLayouts)
		if errors.Is(err, domain.ErrInvalidDate) {
			dropped++
			l.logger.Debug().Int("line", line).Err(err).Msg("row dropped")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrSourceParse, line, err)
		}

		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no rows with a valid %s", domain.ErrSourceParse, domain.ColumnDate)
	}

	ledger, err := domain.NewLedgerSet(header, entries)
	if err != nil {
		return nil, err
	}
	ledger.DroppedRows = dropped

	return ledger, nil
}

func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case EncodingLatin1, "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case EncodingWindows1252, "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	case EncodingUTF8, "utf8":
		return r, nil
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", domain.ErrSourceParse, encoding)
	}
}
