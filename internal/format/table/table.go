// Package table lays out rows of text as aligned columns.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const (
	columnGap    = "  "
	ellipsisTail = "…"
)

// Column describes one column of a table.
type Column struct {
	Header string
	Align  Alignment
	// MaxWidth truncates longer cells when positive.
	MaxWidth int
}

// Format returns the header line followed by one line per row, each cell
// padded to the widest entry of its column. Widths are measured in terminal
// cells. Short rows are padded with empty cells and extra cells are dropped.
// The header line is omitted when every header is empty.
func Format(columns []Column, rows [][]string) []string {
	if len(columns) == 0 {
		return nil
	}
	grid := make([][]string, 0, len(rows)+1)
	if hasHeaders(columns) {
		header := make([]string, len(columns))
		for c, col := range columns {
			header[c] = col.Header
		}
		grid = append(grid, header)
	}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for c := range columns {
			if c < len(row) {
				cells[c] = fit(row[c], columns[c].MaxWidth)
			}
		}
		grid = append(grid, cells)
	}
	if len(grid) == 0 {
		return nil
	}

	widths := make([]int, len(columns))
	for _, cells := range grid {
		for c, cell := range cells {
			widths[c] = max(widths[c], lipgloss.Width(cell))
		}
	}

	out := make([]string, len(grid))
	for i, cells := range grid {
		var b strings.Builder
		for c, cell := range cells {
			if c > 0 {
				b.WriteString(columnGap)
			}
			pad := widths[c] - lipgloss.Width(cell)
			if columns[c].Align == AlignRight {
				writeSpaces(&b, pad)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				writeSpaces(&b, pad)
			}
		}
		out[i] = strings.TrimRight(b.String(), " ")
	}
	return out
}

func hasHeaders(columns []Column) bool {
	for _, col := range columns {
		if col.Header != "" {
			return true
		}
	}
	return false
}

func fit(cell string, limit int) string {
	if limit <= 0 || lipgloss.Width(cell) <= limit {
		return cell
	}
	return truncate.StringWithTail(cell, uint(limit), ellipsisTail)
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	b.WriteString(strings.Repeat(" ", count))
}
