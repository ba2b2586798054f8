package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/iho/ledgerrange/internal/adapter/spreadsheet"
	"github.com/iho/ledgerrange/internal/domain"
)

const ledgerCSV = "Fecha,Debe,Haber,Glosa\n" +
	"2024-01-01,100,0,apertura\n" +
	"2024-01-02,0,30,pago\n" +
	"2024-01-03,50,0,venta\n" +
	"2024-01-04,0,20,cierre\n"

func writeLedger(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.csv")
	if err := os.WriteFile(path, []byte(ledgerCSV), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errw bytes.Buffer
	cmd := newRootCmd(&out, &errw)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func baseArgs(path string, cmd ...string) []string {
	return append(cmd, "--source", "csv", "--csv-path", path, "--encoding", "utf-8", "--delimiter", ",")
}

func TestBoundsCommand(t *testing.T) {
	out, err := run(t, baseArgs(writeLedger(t), "bounds")...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Desde:    2024-01-01", "Hasta:    2024-01-04", "Entradas: 4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPreviewCommand(t *testing.T) {
	args := baseArgs(writeLedger(t), "preview", "--desde", "2024-01-02", "--hasta", "2024-01-03")
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out, "Vista Previa de Resultados") {
		t.Fatalf("expected preview title in output:\n%s", out)
	}
	if !strings.Contains(out, "Saldo final: 120.00") {
		t.Fatalf("expected final balance 120.00 in output:\n%s", out)
	}
	if strings.Contains(out, "cierre") {
		t.Fatalf("entry outside the range was printed:\n%s", out)
	}
}

func TestPreviewCommandDefaultsToFullRange(t *testing.T) {
	out, err := run(t, baseArgs(writeLedger(t), "preview")...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Saldo final: 100.00") {
		t.Fatalf("expected final balance 100.00 in output:\n%s", out)
	}
}

func TestExportCommand(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.xlsx")
	args := baseArgs(writeLedger(t), "export", "--desde", "2024-01-02", "--hasta", "2024-01-03", "--out", dest)

	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Archivo listo: "+dest) {
		t.Fatalf("expected confirmation in output:\n%s", out)
	}

	f, err := excelize.OpenFile(dest)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(spreadsheet.SheetName)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header, summary and 2 entries, got %d rows", len(rows))
	}
	if rows[0][0] != domain.ColumnPriorDebit {
		t.Fatalf("unexpected first header %q", rows[0][0])
	}
}

func TestRangeErrorsExitWithWarningCode(t *testing.T) {
	path := writeLedger(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"inverted", []string{"--desde", "2024-01-04", "--hasta", "2024-01-02"}, domain.ErrInvalidRange},
		{"out of bounds", []string{"--desde", "2023-12-01"}, domain.ErrRangeOutOfBounds},
		{"malformed", []string{"--hasta", "04/01/2024x"}, domain.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append(baseArgs(path, "preview"), tt.args...)...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if code := exitCode(err); code != exitInvalidRange {
				t.Fatalf("expected exit code %d, got %d", exitInvalidRange, code)
			}
		})
	}
}

func TestMissingSourceIsFatal(t *testing.T) {
	_, err := run(t, baseArgs(filepath.Join(t.TempDir(), "absent.csv"), "bounds")...)
	if !errors.Is(err, domain.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
	if code := exitCode(err); code != exitFatal {
		t.Fatalf("expected exit code %d, got %d", exitFatal, code)
	}
}
