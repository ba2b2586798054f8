package handler

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/ledgerrange/internal/adapter/http/dto"
	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/usecase"
	appweb "github.com/iho/ledgerrange/web"
)

const (
	warnInvalidRange = "La fecha 'Desde' debe ser anterior o igual a la fecha 'Hasta'."
	warnOutOfBounds  = "Las fechas deben estar entre %s y %s."
)

// FormHandler renders the browser form with its preview table.
type FormHandler struct {
	filterUC FilterService
	source   string
	tmpl     *template.Template
}

// NewFormHandler creates a new FormHandler. source is the dataset name shown
// in the page title.
func NewFormHandler(filterUC FilterService, source string) (*FormHandler, error) {
	tmpl, err := template.ParseFS(appweb.TemplatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &FormHandler{
		filterUC: filterUC,
		source:   source,
		tmpl:     tmpl,
	}, nil
}

type formView struct {
	Source      string
	DateMin     string
	DateMax     string
	Desde       string
	Hasta       string
	Warning     string
	Error       string
	Columns     []string
	Numeric     []bool
	Rows        [][]string
	DownloadURL string
	Filename    string
}

// Index renders the form. With no query the whole ledger is shown.
func (h *FormHandler) Index(w http.ResponseWriter, r *http.Request) {
	bounds := h.filterUC.Bounds()

	view := formView{
		Source:   h.source,
		DateMin:  domain.FormatDate(bounds.Range.From),
		DateMax:  domain.FormatDate(bounds.Range.To),
		Filename: usecase.ExportFilename,
	}

	status := http.StatusOK
	rng, req, err := resolveRange(h.filterUC, r)

	view.Desde = valueOr(req.Desde, view.DateMin)
	view.Hasta = valueOr(req.Hasta, view.DateMax)

	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		status = http.StatusBadRequest
		view.Warning = warnInvalidRange
	case errors.Is(err, domain.ErrRangeOutOfBounds):
		status = http.StatusBadRequest
		view.Warning = fmt.Sprintf(warnOutOfBounds, view.DateMin, view.DateMax)
	case err != nil:
		status = mapDomainError(err)
		view.Error = err.Error()
	default:
		if err := h.fillResult(r, rng, &view); err != nil {
			status = mapDomainError(err)
			view.Error = err.Error()
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to compute preview")
		}
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, view); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *FormHandler) fillResult(r *http.Request, rng domain.DateRange, view *formView) error {
	prepared, err := h.filterUC.PrepareDownload(r.Context(), rng)
	if err != nil {
		return err
	}

	rs := prepared.Result
	view.Columns = rs.Columns()
	view.Rows = rs.Table()
	view.Numeric = numericColumns(rs)

	if prepared.Token != "" {
		view.DownloadURL = exportPath + prepared.Token
	} else {
		view.DownloadURL = "/api/v1/ledger/export?" + dto.RangeRequest{
			Desde: domain.FormatDate(rng.From),
			Hasta: domain.FormatDate(rng.To),
		}.Query()
	}

	return nil
}

// numericColumns flags the columns that hold amounts in the entry rows.
func numericColumns(rs *domain.ResultSet) []bool {
	cols := rs.Columns()
	flags := make([]bool, len(cols))
	flags[0], flags[1] = true, true

	cells := rs.Cells()
	if len(cells) > 1 {
		for j, c := range cells[1] {
			if c.Kind == domain.CellAmount {
				flags[j] = true
			}
		}
	}
	return flags
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
