package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/fincalc/internal/cli"
	"github.com/theirongolddev/fincalc/internal/present"
	"github.com/theirongolddev/fincalc/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// partialBlocks index eighths of a cell; 0 is empty.
var partialBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderChart draws a chart description within width x height cells. Line
// charts become a column chart of their first series; doughnut and pie charts
// become a proportion bar with a legend.
func RenderChart(c *present.Chart, width, height int) string {
	if c == nil || len(c.Series) == 0 {
		return ""
	}
	s := c.Series[0]
	switch c.Kind {
	case present.ChartLine:
		color := theme.Active.Accent
		if len(s.Colors) > 0 {
			color = lipgloss.Color(s.Colors[0])
		}
		return growthChart(s.Values, axisLabels(c.Labels), color, width, height)
	default:
		return ProportionChart(c.Labels, s.Values, s.Colors, width)
	}
}

// axisLabels shortens "Year 12" style labels to "12" so more fit on the x-axis.
func axisLabels(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.TrimPrefix(l, "Year ")
	}
	return out
}

// sparkline is the fallback when there is no room for axes.
func sparkline(values []float64, color lipgloss.Color) string {
	top := peak(values)
	var buf strings.Builder
	for _, v := range values {
		idx := 1
		if v > 0 {
			idx = 1 + int(v/top*7)
		}
		buf.WriteRune(partialBlocks[min(idx, 8)])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// peak is the largest value, or 1 when nothing is positive.
func peak(values []float64) float64 {
	top := 0.0
	for _, v := range values {
		top = math.Max(top, v)
	}
	if top == 0 {
		return 1
	}
	return top
}

// yAxis maps balances onto chart rows with round tick values.
type yAxis struct {
	step        float64
	ticks       int
	rowsPerTick int
}

func newYAxis(top float64, height int) yAxis {
	step := niceStep(top)
	maxTicks := max(height/2, 2)
	for math.Ceil(top/step) > float64(maxTicks) {
		step *= 2
	}
	ticks := max(int(math.Ceil(top/step)), 1)
	return yAxis{
		step:        step,
		ticks:       ticks,
		rowsPerTick: max(height/ticks, 2),
	}
}

func (ax yAxis) rows() int        { return ax.ticks * ax.rowsPerTick }
func (ax yAxis) ceiling() float64 { return ax.step * float64(ax.ticks) }

// label returns the tick label for row (1 is the bottom row), or "".
func (ax yAxis) label(row int) string {
	if row%ax.rowsPerTick != 0 {
		return ""
	}
	return cli.FormatCompactMoney(ax.step * float64(row/ax.rowsPerTick))
}

// niceStep picks a 1/2/5 x 10^n interval giving roughly five ticks.
func niceStep(top float64) float64 {
	if top <= 0 {
		return 1
	}
	rough := top / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// fitColumns samples the series down so every column is at least two cells
// wide with a one-cell gap. The first and last years are always kept.
func fitColumns(values []float64, labels []string, plotW int) ([]float64, []string) {
	n := len(values)
	maxN := max((plotW+1)/3, 2)
	if n <= maxN {
		return values, labels
	}
	outV := make([]float64, maxN)
	var outL []string
	if len(labels) == n {
		outL = make([]string, maxN)
	}
	for i := range outV {
		src := i * (n - 1) / (maxN - 1)
		outV[i] = values[src]
		if outL != nil {
			outL[i] = labels[src]
		}
	}
	return outV, outL
}

// growthChart draws yearly balances as columns. The last column, the balance
// at retirement, is drawn in the bright accent. Negative balances draw empty.
func growthChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return sparkline(values, color)
	}
	t := theme.Active

	ax := newYAxis(peak(values), height)
	labelW := max(len(cli.FormatCompactMoney(ax.ceiling()))+1, 4)
	plotW := max(width-labelW-1, 5)

	values, labels = fitColumns(values, labels, plotW)
	n := len(values)
	gap := 1
	barW := min((plotW+gap)/n-gap, 6)
	if n == 1 {
		gap, barW = 0, min(plotW, 6)
	}
	axisLen := n*barW + (n-1)*gap

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	finalStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)

	var b strings.Builder
	rows := ax.rows()
	for row := rows; row >= 1; row-- {
		hi := ax.ceiling() * float64(row) / float64(rows)
		lo := ax.ceiling() * float64(row-1) / float64(rows)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", labelW, ax.label(row))))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			style := barStyle
			if i == n-1 {
				style = finalStyle
			}
			b.WriteString(style.Render(strings.Repeat(string(columnCell(v, lo, hi)), barW)))
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└", labelW, "$0")))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", labelW+1)))
		b.WriteString(axisStyle.Render(placeLabels(labels, barW+gap, axisLen)))
	}
	return b.String()
}

// columnCell is the block for a column of value v within the row [lo, hi).
func columnCell(v, lo, hi float64) rune {
	switch {
	case v >= hi:
		return partialBlocks[8]
	case v > lo:
		eighths := int((v - lo) / (hi - lo) * 8)
		return partialBlocks[min(max(eighths, 1), 8)]
	default:
		return ' '
	}
}

// placeLabels lays x-axis labels under their columns, skipping any that would
// collide. The last label is right-aligned so the retirement year always shows.
func placeLabels(labels []string, pitch, axisLen int) string {
	line := []rune(strings.Repeat(" ", axisLen))
	put := func(pos int, lbl string) int {
		end := min(pos+len(lbl), axisLen)
		copy(line[pos:end], []rune(lbl[:end-pos]))
		return end
	}

	last := labels[len(labels)-1]
	lastPos := max(min((len(labels)-1)*pitch, axisLen-len(last)), 0)

	nextFree := 0
	step := max(1, len(labels)*8/(axisLen+1))
	for i := 0; i < len(labels)-1; i += step {
		pos := i * pitch
		if pos < nextFree || pos+len(labels[i]) >= lastPos {
			continue
		}
		nextFree = put(pos, labels[i]) + 1
	}
	if lastPos >= nextFree || len(labels) == 1 {
		put(lastPos, last)
	}
	return strings.TrimRight(string(line), " ")
}
