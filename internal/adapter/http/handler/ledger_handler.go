package handler

import (
	"net/http"

	"github.com/iho/ledgerrange/internal/adapter/http/dto"
)

// LedgerHandler serves ledger bounds and range balances as JSON.
type LedgerHandler struct {
	filterUC FilterService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(filterUC FilterService) *LedgerHandler {
	return &LedgerHandler{filterUC: filterUC}
}

// Bounds returns the date bounds and size of the ledger.
func (h *LedgerHandler) Bounds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.BoundsFromUseCase(h.filterUC.Bounds()))
}

// Balance computes the summary and running balance for the requested range.
// The response links to a prepared spreadsheet when an export store is
// configured.
func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	rng, _, err := resolveRange(h.filterUC, r)
	if err != nil {
		writeError(w, mapDomainError(err), "invalid range", err.Error())
		return
	}

	prepared, err := h.filterUC.PrepareDownload(r.Context(), rng)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balance", err.Error())
		return
	}

	var downloadURL string
	if prepared.Token != "" {
		downloadURL = exportPath + prepared.Token
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(prepared.Result, downloadURL))
}
