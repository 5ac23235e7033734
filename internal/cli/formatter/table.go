package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// Row is one table row. Dim rows render muted, for entries that cannot be
// acted on.
type Row struct {
	Cells []string
	Dim   bool
}

// RenderTable renders an aligned table with a header separator line. Column
// widths are measured on visible width so styled cells line up.
func RenderTable(headers []string, rows [][]string) string {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{Cells: r}
	}
	return RenderRows(headers, out)
}

// RenderRows is RenderTable with per-row styling.
func RenderRows(headers []string, rows []Row) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row.Cells); i++ {
			if w := lipgloss.Width(row.Cells[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeLine := func(cells []string, style func(...string) string) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style(cell))
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", max(widths[i]-lipgloss.Width(cell), 0)+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeLine(headers, StyleHeader.Render)
	seps := make([]string, cols)
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	writeLine(seps, StyleDim.Render)

	plain := func(s ...string) string { return strings.Join(s, " ") }
	for _, row := range rows {
		if row.Dim {
			writeLine(row.Cells, StyleDim.Render)
			continue
		}
		writeLine(row.Cells, plain)
	}
	return b.String()
}
