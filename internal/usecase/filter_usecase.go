package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/infrastructure/metrics"
)

// FilterUseCase serves range computations and exports over a loaded ledger.
type FilterUseCase struct {
	ledger    *domain.LedgerSet
	writer    SpreadsheetWriter
	store     ExportStore
	idGen     IDGenerator
	exportTTL time.Duration
	metrics   *metrics.Metrics
}

// NewFilterUseCase creates a new FilterUseCase. store and idGen may be nil,
// in which case PrepareDownload returns results without a token.
func NewFilterUseCase(
	ledger *domain.LedgerSet,
	writer SpreadsheetWriter,
	store ExportStore,
	idGen IDGenerator,
	exportTTL time.Duration,
	metrics *metrics.Metrics,
) *FilterUseCase {
	if exportTTL <= 0 {
		exportTTL = DefaultExportTTL
	}

	return &FilterUseCase{
		ledger:    ledger,
		writer:    writer,
		store:     store,
		idGen:     idGen,
		exportTTL: exportTTL,
		metrics:   metrics,
	}
}

// BoundsOutput describes the loaded ledger.
type BoundsOutput struct {
	Range   domain.DateRange
	Entries int
}

// Bounds returns the date bounds of the ledger.
func (uc *FilterUseCase) Bounds() BoundsOutput {
	return BoundsOutput{
		Range:   uc.ledger.Bounds(),
		Entries: uc.ledger.Len(),
	}
}

// ResolveRange fills missing bounds with the ledger's min/max date and checks
// that the range is ordered and inside the ledger bounds.
func (uc *FilterUseCase) ResolveRange(from, to *time.Time) (domain.DateRange, error) {
	bounds := uc.ledger.Bounds()

	r := bounds
	if from != nil {
		r.From = domain.DateOf(*from)
	}
	if to != nil {
		r.To = domain.DateOf(*to)
	}

	if err := domain.ValidateRange(r); err != nil {
		uc.recordRangeError("inverted")
		return r, err
	}

	if err := domain.ValidateWithinBounds(r, bounds); err != nil {
		uc.recordRangeError("out_of_bounds")
		return r, err
	}

	return r, nil
}

// Preview computes the result set for r.
func (uc *FilterUseCase) Preview(ctx context.Context, r domain.DateRange) (*domain.ResultSet, error) {
	start := time.Now()

	rs, err := ComputeResult(uc.ledger, r)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRange) {
			uc.recordRangeError("inverted")
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.Computations.Inc()
		uc.metrics.ComputationDuration.Observe(time.Since(start).Seconds())
		uc.metrics.ResultRows.Observe(float64(rs.Len()))
	}

	zerolog.Ctx(ctx).Debug().
		Str("desde", domain.FormatDate(r.From)).
		Str("hasta", domain.FormatDate(r.To)).
		Int("rows", rs.Len()).
		Str("carry_forward", rs.Summary.CarryForward().String()).
		Msg("range computed")

	return rs, nil
}

// Export computes the result set for r and serializes it.
func (uc *FilterUseCase) Export(ctx context.Context, r domain.DateRange) ([]byte, *domain.ResultSet, error) {
	rs, err := uc.Preview(ctx, r)
	if err != nil {
		return nil, nil, err
	}

	data, err := uc.writer.Write(rs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.ExportsCreated.Inc()
		uc.metrics.ExportBytes.Observe(float64(len(data)))
	}

	return data, rs, nil
}

// PreparedResult is a computed result with the token of its spreadsheet.
type PreparedResult struct {
	Result *domain.ResultSet
	Token  string
}

// PrepareDownload computes the result for r and stores its spreadsheet so
// that a later Download serves exactly what was previewed.
func (uc *FilterUseCase) PrepareDownload(ctx context.Context, r domain.DateRange) (*PreparedResult, error) {
	if uc.store == nil || uc.idGen == nil {
		rs, err := uc.Preview(ctx, r)
		if err != nil {
			return nil, err
		}
		return &PreparedResult{Result: rs}, nil
	}

	data, rs, err := uc.Export(ctx, r)
	if err != nil {
		return nil, err
	}

	token := uc.idGen.Generate()
	if err := uc.store.Save(ctx, token, data, uc.exportTTL); err != nil {
		uc.recordStoreOp("save", err)
		return nil, fmt.Errorf("failed to store export: %w", err)
	}
	uc.recordStoreOp("save", nil)

	return &PreparedResult{Result: rs, Token: token}, nil
}

// Download returns the spreadsheet prepared under token. Unknown or expired
// tokens are counted as misses, not as loads.
func (uc *FilterUseCase) Download(ctx context.Context, token string) ([]byte, error) {
	if uc.store == nil {
		return nil, domain.ErrExportNotFound
	}
	if token == "" {
		uc.recordStoreOp("miss", nil)
		return nil, domain.ErrExportNotFound
	}

	data, err := uc.store.Load(ctx, token)
	switch {
	case errors.Is(err, domain.ErrExportNotFound):
		uc.recordStoreOp("miss", nil)
		return nil, err
	case err != nil:
		uc.recordStoreOp("load", err)
		return nil, fmt.Errorf("failed to load export: %w", err)
	}
	uc.recordStoreOp("load", nil)

	return data, nil
}

func (uc *FilterUseCase) recordRangeError(reason string) {
	if uc.metrics != nil {
		uc.metrics.RangeErrors.WithLabelValues(reason).Inc()
	}
}

func (uc *FilterUseCase) recordStoreOp(op string, err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.ExportStoreOps.WithLabelValues(op).Inc()
	if err != nil {
		uc.metrics.ExportStoreErrors.WithLabelValues(op).Inc()
	}
}
