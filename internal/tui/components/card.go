// Package components provides reusable TUI widgets for the fincalc dashboard.
package components

import (
	"github.com/theirongolddev/fincalc/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tone colors a metric value.
type Tone int

// Metric tones.
const (
	ToneNeutral Tone = iota
	TonePositive
	ToneNegative
)

// Metric is one figure shown in a MetricCard.
type Metric struct {
	Label string
	Value string
	Note  string // optional line under the value
	Tone  Tone
}

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

func (tn Tone) color() lipgloss.Color {
	t := theme.Active
	switch tn {
	case TonePositive:
		return t.GreenBright
	case ToneNegative:
		return t.Red
	}
	return t.TextPrimary
}

// cardStyle is the shared frame. outerWidth includes the border.
func cardStyle(border lipgloss.Color, outerWidth int) lipgloss.Style {
	contentWidth := outerWidth - 2
	if contentWidth < 10 {
		contentWidth = 10
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(theme.Active.Background).
		Background(theme.Active.Surface).
		Width(contentWidth).
		Padding(0, 1)
}

// MetricCard renders a label, a tone-colored value and an optional note.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(m.Tone.color()).Background(t.Surface).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	content := labelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)
	if m.Note != "" {
		content += "\n" + noteStyle.Render(m.Note)
	}

	border := t.Border
	if m.Tone == ToneNegative {
		border = t.Red
	}
	return cardStyle(border, outerWidth).Render(content)
}

// MetricCardRow renders metrics side by side, filling exactly totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}

	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		cards[i] = MetricCard(m, widths[i])
	}
	return CardRow(cards)
}

// ContentCard renders a bordered card with an optional title.
func ContentCard(title, body string, outerWidth int) string {
	return titledCard(title, body, theme.Active.Border, outerWidth)
}

// FocusCard is a ContentCard with an accent border, used while a form has focus.
func FocusCard(title, body string, outerWidth int) string {
	return titledCard(title, body, theme.Active.BorderAccent, outerWidth)
}

func titledCard(title, body string, border lipgloss.Color, outerWidth int) string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)

	content := body
	if title != "" {
		content = titleStyle.Render(title) + "\n" + body
	}
	return cardStyle(border, outerWidth).Render(content)
}

// CardRow joins pre-rendered cards horizontally; the row is as tall as the
// tallest card.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// CardInnerWidth returns the usable text width inside a card of outerWidth
// (2 border + 2 padding).
func CardInnerWidth(outerWidth int) int {
	w := outerWidth - 4
	if w < 10 {
		w = 10
	}
	return w
}
