package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table formatting constants.
const (
	tablePadding   = 2
	minLastColumn  = 20
	heavySeparator = "="
	lightSeparator = "-"
)

// FormatTable renders rows under headers as aligned columns. The last column
// is truncated so that lines fit in width.
func (s *Styles) FormatTable(headers []string, rows [][]string, width int) string {
	if len(headers) == 0 {
		return ""
	}
	if width <= 0 {
		width = DefaultTermWidth
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	last := len(widths) - 1
	used := 0
	for i := range last {
		used += widths[i] + tablePadding
	}
	widths[last] = max(minLastColumn, min(widths[last], width-used))
	total := used + widths[last]

	var builder strings.Builder
	builder.WriteString(s.formatRow(headers, widths, s.TableHeader))
	builder.WriteString(s.TableSeparator.Render(strings.Repeat(heavySeparator, total)) + "\n")
	for _, row := range rows {
		builder.WriteString(s.formatRow(row, widths, lipgloss.NewStyle()))
	}
	builder.WriteString(s.TableSeparator.Render(strings.Repeat(lightSeparator, total)) + "\n")

	return builder.String()
}

func (s *Styles) formatRow(cells []string, widths []int, style lipgloss.Style) string {
	var builder strings.Builder
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		cell = truncate(cell, w)
		if i < len(widths)-1 {
			cell += strings.Repeat(" ", w-lipgloss.Width(cell)+tablePadding)
		}
		builder.WriteString(style.Render(cell))
	}
	return strings.TrimRight(builder.String(), " ") + "\n"
}

// truncate shortens text to at most width cells, marking the cut with "...".
func truncate(text string, width int) string {
	if lipgloss.Width(text) <= width {
		return text
	}
	const ellipsis = "..."
	if width <= len(ellipsis) {
		return ellipsis[:max(width, 0)]
	}
	runes := []rune(text)
	for len(runes) > 0 && lipgloss.Width(string(runes))+len(ellipsis) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}
