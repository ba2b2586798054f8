package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/iho/ledgerrange/internal/domain"
)

// SheetName is the name of the single sheet of every export.
const SheetName = "Resultado"

// XLSXWriter implements usecase.SpreadsheetWriter with excelize.
type XLSXWriter struct{}

// NewXLSXWriter creates a new XLSXWriter.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Write renders rs as a one-sheet workbook: header row, summary row, then
// one row per in-range entry.
func (w *XLSXWriter) Write(rs *domain.ResultSet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream writer: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	dateFmt := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, err
	}

	// Number format with 2 decimal places
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, err
	}

	columns := rs.Columns()
	for i, name := range columns {
		width := float64(len([]rune(name)) + 4)
		if width < 12 {
			width = 12
		}
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return nil, err
		}
	}

	header := make([]any, len(columns))
	for i, name := range columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for r, row := range rs.Cells() {
		values := make([]any, len(row))
		for c, cell := range row {
			switch cell.Kind {
			case domain.CellDate:
				values[c] = excelize.Cell{StyleID: dateStyle, Value: cell.Date}
			case domain.CellAmount:
				values[c] = excelize.Cell{StyleID: amountStyle, Value: cell.Amount.InexactFloat64()}
			case domain.CellText:
				values[c] = textValue(cell.Text)
			default:
				values[c] = nil
			}
		}

		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(axis, values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// textValue writes numeric passthrough values as numbers. Values with a
// leading zero, such as account codes, stay text.
func textValue(s string) any {
	t := strings.TrimSpace(s)
	if t == "" || (len(t) > 1 && t[0] == '0' && t[1] != '.') {
		return s
	}

	d, err := decimal.NewFromString(t)
	if err != nil {
		return s
	}
	return d.InexactFloat64()
}
