package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the source dataset and of the computed output.
const (
	ColumnDate        = "Fecha"
	ColumnDebit       = "Debe"
	ColumnCredit      = "Haber"
	ColumnBalance     = "Acumulado"
	ColumnPriorDebit  = "Acumulado Debe Previo"
	ColumnPriorCredit = "Acumulado Haber Previo"
)

// Entry represents a single ledger row.
type Entry struct {
	Date   time.Time
	Debit  decimal.Decimal
	Credit decimal.Decimal
	// Values holds the raw text of every source column, in column order.
	Values []string
}

// LedgerSet is the loaded dataset. It is never mutated after loading and
// may be read from several goroutines.
type LedgerSet struct {
	Columns     []string
	Entries     []Entry
	DateIndex   int
	DebitIndex  int
	CreditIndex int
	MinDate     time.Time
	MaxDate     time.Time
	// DroppedRows counts source rows excluded because their date did not parse.
	DroppedRows int
}

// NewLedgerSet builds a LedgerSet from a header and its entries, locating the
// required columns and computing the date bounds.
func NewLedgerSet(columns []string, entries []Entry) (*LedgerSet, error) {
	idx, err := RequiredColumns(columns)
	if err != nil {
		return nil, err
	}

	ls := &LedgerSet{
		Columns:     columns,
		Entries:     entries,
		DateIndex:   idx[ColumnDate],
		DebitIndex:  idx[ColumnDebit],
		CreditIndex: idx[ColumnCredit],
	}

	for i, e := range entries {
		if i == 0 || e.Date.Before(ls.MinDate) {
			ls.MinDate = e.Date
		}
		if i == 0 || e.Date.After(ls.MaxDate) {
			ls.MaxDate = e.Date
		}
	}

	return ls, nil
}

// Len returns the number of entries.
func (l *LedgerSet) Len() int {
	return len(l.Entries)
}

// Bounds returns the full date range covered by the ledger.
func (l *LedgerSet) Bounds() DateRange {
	return DateRange{From: l.MinDate, To: l.MaxDate}
}

// DateRange is an inclusive calendar date range.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange normalises both bounds to calendar dates.
func NewDateRange(from, to time.Time) DateRange {
	return DateRange{From: DateOf(from), To: DateOf(to)}
}

// Contains reports whether d falls within the range, bounds included.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.From) && !d.After(r.To)
}
