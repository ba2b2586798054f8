package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerrange/internal/adapter/repository/memory"
	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/usecase"
)

type stubWriter struct{}

func (stubWriter) Write(rs *domain.ResultSet) ([]byte, error) {
	return []byte(fmt.Sprintf("xlsx:%d", rs.Len())), nil
}

type sequentialIDs struct{ n int }

func (g *sequentialIDs) Generate() string {
	g.n++
	return fmt.Sprintf("tok%d", g.n)
}

// failingService fails every computation with err.
type failingService struct {
	*usecase.FilterUseCase

	err error
}

func (s failingService) PrepareDownload(context.Context, domain.DateRange) (*usecase.PreparedResult, error) {
	return nil, s.err
}

func (s failingService) Export(context.Context, domain.DateRange) ([]byte, *domain.ResultSet, error) {
	return nil, nil, s.err
}

func testLedger(t *testing.T) *domain.LedgerSet {
	t.Helper()

	mk := func(day int, debit, credit int64, glosa string) domain.Entry {
		d := domain.NewDate(2024, time.January, day)
		return domain.Entry{
			Date:   d,
			Debit:  decimal.NewFromInt(debit),
			Credit: decimal.NewFromInt(credit),
			Values: []string{domain.FormatDate(d), fmt.Sprint(debit), fmt.Sprint(credit), glosa},
		}
	}

	ledger, err := domain.NewLedgerSet([]string{"Fecha", "Debe", "Haber", "Glosa"}, []domain.Entry{
		mk(1, 100, 0, "apertura"),
		mk(2, 0, 30, "pago"),
		mk(3, 50, 0, "cobro"),
		mk(4, 0, 20, "cierre"),
	})
	if err != nil {
		t.Fatalf("failed to build ledger: %v", err)
	}
	return ledger
}

func newService(t *testing.T, withStore bool) *usecase.FilterUseCase {
	t.Helper()

	var (
		store usecase.ExportStore
		ids   usecase.IDGenerator
	)
	if withStore {
		store = memory.NewExportStore()
		ids = &sequentialIDs{}
	}

	return usecase.NewFilterUseCase(testLedger(t), stubWriter{}, store, ids, time.Minute, nil)
}

func serve(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func serveRoute(pattern string, h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get(pattern, h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}
