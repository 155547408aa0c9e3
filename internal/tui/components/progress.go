package components

import (
	"fmt"

	"github.com/theirongolddev/fincalc/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForPct returns green/yellow/orange/red based on how much of a limit
// is used, e.g. expenses as a share of income.
func ColorForPct(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 1:
		return string(t.Red)
	case pct >= 0.85:
		return string(t.Orange)
	case pct >= 0.6:
		return string(t.Yellow)
	default:
		return string(t.Green)
	}
}

// RatioBar renders a labeled bar showing used/limit. Ratios above 1 are drawn
// full and the percentage keeps the real value.
func RatioBar(label string, used, limit float64, labelW, barWidth int) string {
	t := theme.Active

	pct := 0.0
	if limit > 0 {
		pct = used / limit
	}
	if pct < 0 {
		pct = 0
	}
	drawn := pct
	if drawn > 1 {
		drawn = 1
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForPct(pct)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForPct(pct))).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		spaceStyle.Render(" ") +
		bar.ViewAs(drawn) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", pct*100))
}
