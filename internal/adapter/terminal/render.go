// Package terminal renders results and prompts for ranges in a terminal.
package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/iho/ledgerrange/internal/domain"
	"github.com/iho/ledgerrange/internal/usecase"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#C77C02", Dark: "#FFB347"}

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	headerCell  = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 1)
	cell        = lipgloss.NewStyle().Padding(0, 1)
	numberCell  = cell.Align(lipgloss.Right)
	summaryCell = numberCell.Foreground(special).Bold(true)

	noteStyle    = lipgloss.NewStyle().Foreground(subtle).Italic(true)
	warningStyle = lipgloss.NewStyle().Foreground(warning).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(special)
)

// RenderBounds describes the loaded ledger.
func RenderBounds(source string, b usecase.BoundsOutput) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Filtro de Fechas - " + source))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Desde:    %s\n", domain.FormatDate(b.Range.From))
	fmt.Fprintf(&sb, "Hasta:    %s\n", domain.FormatDate(b.Range.To))
	fmt.Fprintf(&sb, "Entradas: %d\n", b.Entries)
	return sb.String()
}

// RenderTable draws rs with the summary row first. When maxRows is positive
// only that many entry rows are drawn.
func RenderTable(rs *domain.ResultSet, maxRows int) string {
	rows := rs.Table()
	hidden := 0
	if maxRows > 0 && len(rows)-1 > maxRows {
		hidden = len(rows) - 1 - maxRows
		rows = rows[:maxRows+1]
	}

	numeric := amountColumns(rs)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(subtle)).
		Headers(rs.Columns()...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCell
			case row == 0:
				return summaryCell
			case col < len(numeric) && numeric[col]:
				return numberCell
			default:
				return cell
			}
		})

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Vista Previa de Resultados"))
	sb.WriteString("\n")
	sb.WriteString(t.String())
	sb.WriteString("\n")
	if hidden > 0 {
		sb.WriteString(noteStyle.Render(fmt.Sprintf("... %d filas más", hidden)))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Saldo final: %s\n", rs.FinalBalance().StringFixed(2))
	return sb.String()
}

// RenderWarning formats a user-facing warning.
func RenderWarning(msg string) string {
	return warningStyle.Render(msg)
}

// RenderSuccess formats a confirmation line.
func RenderSuccess(msg string) string {
	return successStyle.Render(msg)
}

func amountColumns(rs *domain.ResultSet) []bool {
	cells := rs.Cells()
	flags := make([]bool, len(rs.Columns()))
	flags[0], flags[1] = true, true
	if len(cells) > 1 {
		for j, c := range cells[1] {
			if c.Kind == domain.CellAmount {
				flags[j] = true
			}
		}
	}
	return flags
}
