package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ExportHandler serves spreadsheet downloads.
type ExportHandler struct {
	filterUC FilterService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(filterUC FilterService) *ExportHandler {
	return &ExportHandler{filterUC: filterUC}
}

// Export computes the requested range and streams it as a workbook.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	rng, _, err := resolveRange(h.filterUC, r)
	if err != nil {
		writeError(w, mapDomainError(err), "invalid range", err.Error())
		return
	}

	data, _, err := h.filterUC.Export(r.Context(), rng)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to export", err.Error())
		return
	}

	writeSpreadsheet(w, data)
}

// Download serves a workbook prepared by a previous balance request.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing export token", "")
		return
	}

	data, err := h.filterUC.Download(r.Context(), token)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get export", err.Error())
		return
	}

	writeSpreadsheet(w, data)
}
