package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical layout used to render calendar dates.
const DateLayout = "2006-01-02"

// DefaultDateLayouts are tried in order when parsing a source date.
// Ambiguous numeric dates are read day-first. Single-digit day and month
// layouts also accept padded values.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-1-2",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/06",
	"02-01-2006",
	"2006/01/02",
}

// NewDate returns the calendar date y-m-d at UTC midnight.
func NewDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOf discards the time of day of t, keeping its calendar date.
func DateOf(t time.Time) time.Time {
	return NewDate(t.Date())
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses s with the first matching layout and drops the time of day.
// A nil or empty layouts slice falls back to DefaultDateLayouts.
func ParseDate(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}

	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ParseAmount parses a debit or credit cell. Empty cells are zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	return d, nil
}

// RequiredColumns returns the index of the date, debit and credit columns.
func RequiredColumns(columns []string) (map[string]int, error) {
	idx := make(map[string]int, 3)
	for i, c := range columns {
		name := strings.TrimSpace(c)
		switch name {
		case ColumnDate, ColumnDebit, ColumnCredit:
			if _, seen := idx[name]; !seen {
				idx[name] = i
			}
		}
	}

	var missing []string
	for _, name := range []string{ColumnDate, ColumnDebit, ColumnCredit} {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", ErrSourceParse, strings.Join(missing, ", "))
	}

	return idx, nil
}

// ValidateRange checks that the range is not inverted.
func ValidateRange(r DateRange) error {
	if r.From.After(r.To) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, FormatDate(r.From), FormatDate(r.To))
	}

	return nil
}

// ValidateWithinBounds checks that both ends of r lie inside bounds.
func ValidateWithinBounds(r, bounds DateRange) error {
	if !bounds.Contains(r.From) {
		return fmt.Errorf("%w: 'desde' %s not in [%s, %s]", ErrRangeOutOfBounds,
			FormatDate(r.From), FormatDate(bounds.From), FormatDate(bounds.To))
	}

	if !bounds.Contains(r.To) {
		return fmt.Errorf("%w: 'hasta' %s not in [%s, %s]", ErrRangeOutOfBounds,
			FormatDate(r.To), FormatDate(bounds.From), FormatDate(bounds.To))
	}

	return nil
}

// ParseRecord builds an Entry from the raw cells of one source row. A bad
// date yields ErrInvalidDate, a bad amount ErrInvalidAmount.
func ParseRecord(record []string, dateIdx, debitIdx, creditIdx int, layouts []string) (Entry, error) {
	date, err := ParseDate(record[dateIdx], layouts)
	if err != nil {
		return Entry{}, err
	}

	debit, err := ParseAmount(record[debitIdx])
	if err != nil {
		return Entry{}, fmt.Errorf("column %s: %w", ColumnDebit, err)
	}

	credit, err := ParseAmount(record[creditIdx])
	if err != nil {
		return Entry{}, fmt.Errorf("column %s: %w", ColumnCredit, err)
	}

	return Entry{Date: date, Debit: debit, Credit: credit, Values: record}, nil
}
