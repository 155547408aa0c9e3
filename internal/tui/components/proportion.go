package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/fincalc/internal/present"
	"github.com/theirongolddev/fincalc/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// ProportionChart renders one horizontal bar split into colored segments,
// one per value, followed by a legend with amounts and shares. It stands in
// for doughnut and pie charts.
func ProportionChart(labels []string, values []float64, colors []string, width int) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	barW := width - 2
	if barW < 10 {
		barW = 10
	}

	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}

	segments := SegmentWidths(values, barW)

	var b strings.Builder
	for i, w := range segments {
		if w == 0 {
			continue
		}
		style := lipgloss.NewStyle().Foreground(segmentColor(colors, i)).Background(t.Surface)
		b.WriteString(style.Render(strings.Repeat("█", w)))
	}
	used := 0
	for _, w := range segments {
		used += w
	}
	if used < barW {
		b.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render(strings.Repeat("░", barW-used)))
	}
	b.WriteString("\n\n")
	b.WriteString(Legend(labels, values, colors, total))
	return b.String()
}

// Legend renders one line per label: a color swatch, the label, the amount
// and its share of total.
func Legend(labels []string, values []float64, colors []string, total float64) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	labelW := 0
	for _, l := range labels {
		if w := lipgloss.Width(l); w > labelW {
			labelW = w
		}
	}

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		share := 0.0
		if total > 0 && v > 0 {
			share = v / total
		}
		swatch := lipgloss.NewStyle().Foreground(segmentColor(colors, i)).Background(t.Surface).Render("■")
		lines = append(lines, swatch+
			labelStyle.Render(fmt.Sprintf(" %-*s ", labelW, label))+
			labelStyle.Render(fmt.Sprintf("%12s", "$"+present.FormatMoney(v)))+
			mutedStyle.Render(fmt.Sprintf(" %5.1f%%", share*100)))
	}
	return strings.Join(lines, "\n")
}

// SegmentWidths splits width cells between values in proportion, using the
// largest-remainder method so the widths sum to exactly width. Non-positive
// values get no cells. If every value is non-positive all widths are zero.
func SegmentWidths(values []float64, width int) []int {
	out := make([]int, len(values))
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total <= 0 || width <= 0 {
		return out
	}

	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, 0, len(values))
	used := 0
	for i, v := range values {
		if v <= 0 {
			continue
		}
		exact := v / total * float64(width)
		whole := math.Floor(exact)
		out[i] = int(whole)
		used += out[i]
		rems = append(rems, rem{idx: i, frac: exact - whole})
	}
	for left := width - used; left > 0 && len(rems) > 0; left-- {
		best := 0
		for j := range rems {
			if rems[j].frac > rems[best].frac {
				best = j
			}
		}
		out[rems[best].idx]++
		rems[best].frac = -1
	}
	return out
}

func segmentColor(colors []string, i int) lipgloss.Color {
	if len(colors) == 0 {
		return theme.Active.Accent
	}
	return lipgloss.Color(colors[i%len(colors)])
}
