package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// BoundsResponse describes the loaded ledger.
type BoundsResponse struct {
	DateMin string `json:"date_min"`
	DateMax string `json:"date_max"`
	Entries int    `json:"entries"`
}

// BoundsFromUseCase converts use case bounds to response.
func BoundsFromUseCase(b usecase.BoundsOutput) *BoundsResponse {
	return &BoundsResponse{
		DateMin: domain.FormatDate(b.Range.From),
		DateMax: domain.FormatDate(b.Range.To),
		Entries: b.Entries,
	}
}

// SummaryResponse is the prior-period aggregate.
type SummaryResponse struct {
	PriorDebitTotal  decimal.Decimal `json:"prior_debit_total"`
	PriorCreditTotal decimal.Decimal `json:"prior_credit_total"`
	CarryForward     decimal.Decimal `json:"carry_forward"`
}

// BalanceResponse is a computed range. Rows holds the rendered table with
// the summary row first, aligned with Columns.
type BalanceResponse struct {
	Desde        string          `json:"desde"`
	Hasta        string          `json:"hasta"`
	Columns      []string        `json:"columns"`
	Rows         [][]string      `json:"rows"`
	Entries      int             `json:"entries"`
	Summary      SummaryResponse `json:"summary"`
	FinalBalance decimal.Decimal `json:"final_balance"`
	DownloadURL  string          `json:"download_url,omitempty"`
}

// BalanceFromDomain converts a result set to response.
func BalanceFromDomain(rs *domain.ResultSet, downloadURL string) *BalanceResponse {
	return &BalanceResponse{
		Desde:   domain.FormatDate(rs.Range.From),
		Hasta:   domain.FormatDate(rs.Range.To),
		Columns: rs.Columns(),
		Rows:    rs.Table(),
		Entries: rs.Len(),
		Summary: SummaryResponse{
			PriorDebitTotal:  rs.Summary.PriorDebitTotal,
			PriorCreditTotal: rs.Summary.PriorCreditTotal,
			CarryForward:     rs.Summary.CarryForward(),
		},
		FinalBalance: rs.FinalBalance(),
		DownloadURL:  downloadURL,
	}
}
