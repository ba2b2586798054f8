package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/ledgerrange/internal/adapter/http/dto"
	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/usecase"
)

// FilterService defines the behavior needed by the ledger, export and form
// handlers.
type FilterService interface {
	Bounds() usecase.BoundsOutput
	ResolveRange(from, to *time.Time) (domain.DateRange, error)
	Preview(ctx context.Context, r domain.DateRange) (*domain.ResultSet, error)
	Export(ctx context.Context, r domain.DateRange) ([]byte, *domain.ResultSet, error)
	PrepareDownload(ctx context.Context, r domain.DateRange) (*usecase.PreparedResult, error)
	Download(ctx context.Context, token string) ([]byte, error)
}

// exportPath is the URL prefix of prepared downloads.
const exportPath = "/api/v1/exports/"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeSpreadsheet sends data as a workbook attachment.
func writeSpreadsheet(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", usecase.ExportContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+usecase.ExportFilename)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRangeOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrExportNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// resolveRange parses desde/hasta from the query and resolves them against
// the ledger bounds.
func resolveRange(svc FilterService, r *http.Request) (domain.DateRange, dto.RangeRequest, error) {
	req := dto.RangeRequestFromQuery(r.URL.Query())

	from, to, err := req.Dates()
	if err != nil {
		return domain.DateRange{}, req, err
	}

	rng, err := svc.ResolveRange(from, to)
	return rng, req, err
}
