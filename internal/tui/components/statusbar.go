package components

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/fincalc/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the status bar shows on its right side.
type StatusInfo struct {
	DarkMode  bool
	ShowTop   bool   // content is scrolled past the scroll-to-top threshold
	Notice    string // transient message, e.g. a failed preference save
	NoticeErr bool
	Expenses  int // expenses recorded this session (including ledger replay)
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	left := base.Render(" [?]help  [D]ark  [q]uit")
	if info.ShowTop {
		left += base.Render("  ") + accent.Render("↑ top") + base.Render(" [t]")
	}

	var right []string
	if info.Notice != "" {
		if info.NoticeErr {
			right = append(right, warn.Render(info.Notice))
		} else {
			right = append(right, accent.Render(info.Notice))
		}
	}
	if info.Expenses > 0 {
		right = append(right, base.Render(pluralize(info.Expenses, "expense")))
	}
	mode := "light"
	if info.DarkMode {
		mode = "dark"
	}
	right = append(right, base.Render(mode+" "))
	rightStr := strings.Join(right, base.Render("  "))

	padding := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if padding < 0 {
		padding = 0
	}

	return left + base.Render(strings.Repeat(" ", padding)) + rightStr
}

func pluralize(n int, word string) string {
	s := strconv.Itoa(n) + " " + word
	if n != 1 {
		s += "s"
	}
	return s
}
