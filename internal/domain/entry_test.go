package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewLedgerSet_ComputesBoundsIgnoringOrder(t *testing.T) {
	entries := []Entry{
		{Date: NewDate(2024, time.March, 3), Debit: decimal.NewFromInt(1)},
		{Date: NewDate(2024, time.January, 9), Debit: decimal.NewFromInt(2)},
		{Date: NewDate(2024, time.May, 1), Credit: decimal.NewFromInt(3)},
	}

	ls, err := NewLedgerSet([]string{"Fecha", "Debe", "Haber"}, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ls.MinDate.Equal(NewDate(2024, time.January, 9)) {
		t.Fatalf("expected min date 2024-01-09, got %s", FormatDate(ls.MinDate))
	}
	if !ls.MaxDate.Equal(NewDate(2024, time.May, 1)) {
		t.Fatalf("expected max date 2024-05-01, got %s", FormatDate(ls.MaxDate))
	}
	if ls.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", ls.Len())
	}
}

func TestNewLedgerSet_MissingColumns(t *testing.T) {
	_, err := NewLedgerSet([]string{"Fecha", "Importe"}, nil)
	if !errors.Is(err, ErrSourceParse) {
		t.Fatalf("expected ErrSourceParse, got %v", err)
	}
}

func TestDateRangeContains(t *testing.T) {
	r := NewDateRange(
		time.Date(2024, time.January, 5, 18, 30, 0, 0, time.UTC),
		time.Date(2024, time.January, 10, 7, 0, 0, 0, time.UTC),
	)

	if !r.Contains(NewDate(2024, time.January, 5)) || !r.Contains(NewDate(2024, time.January, 10)) {
		t.Fatalf("expected both bounds to be inclusive")
	}
	if r.Contains(NewDate(2024, time.January, 4)) || r.Contains(NewDate(2024, time.January, 11)) {
		t.Fatalf("expected dates outside range to be excluded")
	}
}
