package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryRecord aggregates every entry dated strictly before the range start.
type SummaryRecord struct {
	PriorDebitTotal  decimal.Decimal
	PriorCreditTotal decimal.Decimal
}

// CarryForward is the net balance brought into the range.
func (s SummaryRecord) CarryForward() decimal.Decimal {
	return s.PriorDebitTotal.Sub(s.PriorCreditTotal)
}

// AugmentedEntry is an in-range entry with its running balance.
type AugmentedEntry struct {
	Entry

	RunningBalance decimal.Decimal
}

// ResultSet is the output of a range computation: the summary row followed
// by the in-range entries in ledger order.
type ResultSet struct {
	Range   DateRange
	Summary SummaryRecord
	Rows    []AugmentedEntry

	sourceColumns []string
	dateIndex     int
	debitIndex    int
	creditIndex   int
}

// NewResultSet binds a summary and rows to the column layout of ledger.
func NewResultSet(ledger *LedgerSet, r DateRange, summary SummaryRecord, rows []AugmentedEntry) *ResultSet {
	columns := make([]string, len(ledger.Columns))
	copy(columns, ledger.Columns)

	return &ResultSet{
		Range:         r,
		Summary:       summary,
		Rows:          rows,
		sourceColumns: columns,
		dateIndex:     ledger.DateIndex,
		debitIndex:    ledger.DebitIndex,
		creditIndex:   ledger.CreditIndex,
	}
}

// Len returns the number of in-range rows, excluding the summary row.
func (rs *ResultSet) Len() int {
	return len(rs.Rows)
}

// FinalBalance returns the last running balance, or the carry-forward when
// no entry falls in the range.
func (rs *ResultSet) FinalBalance() decimal.Decimal {
	if len(rs.Rows) == 0 {
		return rs.Summary.CarryForward()
	}
	return rs.Rows[len(rs.Rows)-1].RunningBalance
}

// Columns returns the output header: the two summary columns followed by the
// source columns, with the balance column placed right after the credit one.
func (rs *ResultSet) Columns() []string {
	cols := make([]string, 0, len(rs.sourceColumns)+3)
	cols = append(cols, ColumnPriorDebit, ColumnPriorCredit)
	for i, c := range rs.sourceColumns {
		cols = append(cols, c)
		if i == rs.creditIndex {
			cols = append(cols, ColumnBalance)
		}
	}
	return cols
}

// BalanceColumn returns the position of the balance column in Columns().
func (rs *ResultSet) BalanceColumn() int {
	return 2 + rs.creditIndex + 1
}

// CellKind tells writers how to encode a cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellDate
	CellAmount
)

// Cell is one typed value of the rendered table.
type Cell struct {
	Kind   CellKind
	Text   string
	Date   time.Time
	Amount decimal.Decimal
}

// String renders the cell for display.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellDate:
		return FormatDate(c.Date)
	case CellAmount:
		return c.Amount.StringFixed(2)
	default:
		return ""
	}
}

// Cells renders the summary row and every in-range row, aligned with Columns().
func (rs *ResultSet) Cells() [][]Cell {
	width := len(rs.sourceColumns) + 3
	out := make([][]Cell, 0, len(rs.Rows)+1)

	summary := make([]Cell, width)
	summary[0] = Cell{Kind: CellAmount, Amount: rs.Summary.PriorDebitTotal}
	summary[1] = Cell{Kind: CellAmount, Amount: rs.Summary.PriorCreditTotal}
	out = append(out, summary)

	for _, row := range rs.Rows {
		cells := make([]Cell, 0, width)
		cells = append(cells, Cell{}, Cell{})
		for i := range rs.sourceColumns {
			cells = append(cells, rs.sourceCell(row, i))
			if i == rs.creditIndex {
				cells = append(cells, Cell{Kind: CellAmount, Amount: row.RunningBalance})
			}
		}
		out = append(out, cells)
	}

	return out
}

func (rs *ResultSet) sourceCell(row AugmentedEntry, i int) Cell {
	switch i {
	case rs.dateIndex:
		return Cell{Kind: CellDate, Date: row.Date}
	case rs.debitIndex:
		return Cell{Kind: CellAmount, Amount: row.Debit}
	case rs.creditIndex:
		return Cell{Kind: CellAmount, Amount: row.Credit}
	}

	if i < len(row.Values) && row.Values[i] != "" {
		return Cell{Kind: CellText, Text: row.Values[i]}
	}
	return Cell{}
}

// Table renders Cells() as display strings.
func (rs *ResultSet) Table() [][]string {
	cells := rs.Cells()
	out := make([][]string, len(cells))
	for i, row := range cells {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = c.String()
		}
	}
	return out
}
