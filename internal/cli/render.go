package cli

import (
	"strings"

	"github.com/theirongolddev/fincalc/internal/present"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	moneyStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	alertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Table represents a bordered text table for CLI output. The first column is
// left-aligned and the rest, which hold amounts, are right-aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
	// TotalRows counts trailing rows drawn as totals, below a rule.
	TotalRows int
}

// SeparatorRow, used as a row on its own, draws a horizontal rule.
var SeparatorRow = []string{"---"}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == SeparatorRow[0]
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	widths := t.columnWidths()
	rule := func(left, mid, right string) string {
		parts := make([]string, len(widths))
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	line := func(cells []string, style func(col int) lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render("│"))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := w - lipgloss.Width(cell)
			if pad < 0 {
				pad = 0
			}
			if i == 0 {
				cell += strings.Repeat(" ", pad)
			} else {
				cell = strings.Repeat(" ", pad) + cell
			}
			b.WriteString(style(i).Render(" " + cell + " "))
			b.WriteString(dimStyle.Render("│"))
		}
		return b.String() + "\n"
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, func(int) lipgloss.Style { return headerStyle }))
		b.WriteString(rule("├", "┼", "┤"))
	}

	firstTotal := len(t.Rows) - t.TotalRows
	for i, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		style := func(int) lipgloss.Style { return valueStyle }
		if t.TotalRows > 0 && i >= firstTotal {
			if i == firstTotal {
				b.WriteString(rule("├", "┼", "┤"))
			}
			style = func(col int) lipgloss.Style {
				if col == 0 {
					return headerStyle
				}
				return moneyStyle.Bold(true)
			}
		}
		b.WriteString(line(row, style))
	}

	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

func (t Table) columnWidths() []int {
	numCols := len(t.Headers)
	for _, row := range t.Rows {
		if !isSeparator(row) && len(row) > numCols {
			numCols = len(row)
		}
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	measure := func(cells []string) {
		for i, c := range cells {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		if !isSeparator(row) {
			measure(row)
		}
	}
	return widths
}

// RenderRequest renders a presentation request for plain terminal output:
// the title, the message, and the chart data as a table.
func RenderRequest(req present.Request) string {
	var b strings.Builder
	b.WriteString(RenderTitle(req.Title))
	b.WriteString("\n\n  ")
	if req.Alert {
		b.WriteString(alertStyle.Render(req.Message))
	} else {
		b.WriteString(moneyStyle.Render(req.Message))
	}
	b.WriteString("\n\n")

	if req.Chart == nil || len(req.Chart.Series) == 0 || len(req.Chart.Series[0].Values) == 0 {
		return b.String()
	}
	b.WriteString(RenderTable(ChartTable(req.Chart)))
	return b.String()
}

// ChartTable lays a chart out as rows. Line charts get a sparkline column;
// proportional charts get a share column and bar.
func ChartTable(c *present.Chart) Table {
	values := c.Series[0].Values
	t := Table{Headers: []string{"", "Amount"}}
	if c.Series[0].Label != "" {
		t.Title = c.Series[0].Label
	}

	switch c.Kind {
	case present.ChartLine:
		t.Headers = append(t.Headers, "Change")
		for i, label := range c.Labels {
			if i >= len(values) {
				break
			}
			change := ""
			if i > 0 {
				change = FormatDelta(values[i], values[i-1])
			}
			t.Rows = append(t.Rows, []string{label, FormatMoney(values[i]), change})
		}
		if spark := RenderSparkline(values); spark != "" {
			t.Rows = append(t.Rows, SeparatorRow, []string{"Trend", spark, ""})
		}
	default:
		t.Headers = append(t.Headers, "Share", "")
		total := 0.0
		for _, v := range values {
			total += v
		}
		for i, label := range c.Labels {
			if i >= len(values) {
				break
			}
			share := 0.0
			if total > 0 {
				share = values[i] / total
			}
			t.Rows = append(t.Rows, []string{
				label,
				FormatMoney(values[i]),
				FormatPercent(share),
				RenderHorizontalBar(values[i], total, 20),
			})
		}
	}
	return t
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// RenderHorizontalBar renders a bar proportional to value/maxValue.
func RenderHorizontalBar(value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 {
		return ""
	}
	barLen := int(value / maxValue * float64(maxWidth))
	if barLen < 0 {
		barLen = 0
	}
	if barLen > maxWidth {
		barLen = maxWidth
	}
	return strings.Repeat("█", barLen)
}
