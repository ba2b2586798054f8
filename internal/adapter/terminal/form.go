package terminal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/usecase"
)

// FormResult is what the user picked in the range form.
type FormResult struct {
	Range   domain.DateRange
	Export  bool
	OutPath string
}

// RangeForm asks for a date range within bounds.
type RangeForm struct {
	bounds domain.DateRange
	desde  string
	hasta  string
	export bool
	out    string
}

// NewRangeForm creates a form prefilled with the whole ledger.
func NewRangeForm(bounds domain.DateRange) *RangeForm {
	return &RangeForm{
		bounds: bounds,
		desde:  domain.FormatDate(bounds.From),
		hasta:  domain.FormatDate(bounds.To),
		out:    usecase.ExportFilename,
	}
}

// Run shows the form and returns the chosen range.
func (f *RangeForm) Run() (FormResult, error) {
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Desde").
				Description(fmt.Sprintf("YYYY-MM-DD, entre %s y %s", domain.FormatDate(f.bounds.From), domain.FormatDate(f.bounds.To))).
				Value(&f.desde).
				Validate(f.validateDate),
			huh.NewInput().
				Title("Hasta").
				Value(&f.hasta).
				Validate(f.validateHasta),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("¿Exportar a Excel?").
				Value(&f.export),
			huh.NewInput().
				Title("Archivo").
				Value(&f.out).
				Validate(validatePath),
		),
	).Run()
	if err != nil {
		return FormResult{}, err
	}

	return f.result()
}

func (f *RangeForm) result() (FormResult, error) {
	from, err := parseInput(f.desde)
	if err != nil {
		return FormResult{}, err
	}
	to, err := parseInput(f.hasta)
	if err != nil {
		return FormResult{}, err
	}

	return FormResult{
		Range:   domain.NewDateRange(from, to),
		Export:  f.export,
		OutPath: strings.TrimSpace(f.out),
	}, nil
}

func (f *RangeForm) validateDate(s string) error {
	d, err := parseInput(s)
	if err != nil {
		return err
	}
	return domain.ValidateWithinBounds(domain.NewDateRange(d, d), f.bounds)
}

func (f *RangeForm) validateHasta(s string) error {
	if err := f.validateDate(s); err != nil {
		return err
	}

	from, err := parseInput(f.desde)
	if err != nil {
		return nil
	}
	to, _ := parseInput(s)
	return domain.ValidateRange(domain.NewDateRange(from, to))
}

func validatePath(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("el archivo no puede estar vacío")
	}
	return nil
}

func parseInput(s string) (time.Time, error) {
	d, err := time.Parse(domain.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, use YYYY-MM-DD", domain.ErrInvalidDate, s)
	}
	return domain.DateOf(d), nil
}
