package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerrange/internal/domain"
)

// ComputeResult filters ledger by r and computes the running balance.
//
// Entries dated before r.From are folded into the summary record, entries
// inside r are kept in ledger order with a running balance seeded by the
// carry-forward, and entries after r.To are dropped. Ledger order is not
// re-sorted. The ledger is not modified.
func ComputeResult(ledger *domain.LedgerSet, r domain.DateRange) (*domain.ResultSet, error) {
	if err := domain.ValidateRange(r); err != nil {
		return nil, err
	}

	priorDebit := decimal.Zero
	priorCredit := decimal.Zero
	within := make([]domain.Entry, 0)

	for _, e := range ledger.Entries {
		switch {
		case e.Date.Before(r.From):
			priorDebit = priorDebit.Add(e.Debit)
			priorCredit = priorCredit.Add(e.Credit)
		case !e.Date.After(r.To):
			within = append(within, e)
		}
	}

	summary := domain.SummaryRecord{
		PriorDebitTotal:  priorDebit,
		PriorCreditTotal: priorCredit,
	}

	balance := summary.CarryForward()
	rows := make([]domain.AugmentedEntry, len(within))
	for i, e := range within {
		balance = balance.Add(e.Debit.Sub(e.Credit))
		rows[i] = domain.AugmentedEntry{
			Entry:          copyEntry(e),
			RunningBalance: balance,
		}
	}

	return domain.NewResultSet(ledger, r, summary, rows), nil
}

func copyEntry(e domain.Entry) domain.Entry {
	values := make([]string, len(e.Values))
	copy(values, e.Values)
	e.Values = values
	return e
}
