package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/ledgerrange/internal/adapter/http/dto"
	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/usecase"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid range", domain.ErrInvalidRange, http.StatusBadRequest},
		{"wrapped out of bounds", fmt.Errorf("%w: 2020-01-01", domain.ErrRangeOutOfBounds), http.StatusBadRequest},
		{"invalid date", domain.ErrInvalidDate, http.StatusBadRequest},
		{"export not found", domain.ErrExportNotFound, http.StatusNotFound},
		{"canceled", context.Canceled, http.StatusServiceUnavailable},
		{"source parse", domain.ErrSourceParse, http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" || resp.Message != "detail" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}

func TestWriteSpreadsheet(t *testing.T) {
	rr := httptest.NewRecorder()

	writeSpreadsheet(rr, []byte("PK"))

	if ct := rr.Header().Get("Content-Type"); ct != usecase.ExportContentType {
		t.Fatalf("unexpected content-type %s", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != "attachment; filename=resultado_filtrado.xlsx" {
		t.Fatalf("unexpected content-disposition %s", cd)
	}
	if cl := rr.Header().Get("Content-Length"); cl != "2" {
		t.Fatalf("unexpected content-length %s", cl)
	}
	if rr.Body.String() != "PK" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}
