package tui

import (
	"strings"
	"time"

	"github.com/theirongolddev/fincalc/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	bannerText     = "Personal Finance Calculator"
	bannerInterval = 34 * time.Millisecond

	// Timeline, in banner frames. A caret grows, sweeps across, the letters
	// appear one per frame behind it, the title holds, then dims and loops.
	bannerGrowFrames  = 20 // ~700ms
	bannerSweepFrames = 24 // ~800ms
	bannerHoldFrames  = 30 // ~1s
	bannerFadeFrames  = 30 // ~1s

	// pulseEvery toggles the submit-button emphasis roughly every 300ms.
	pulseEvery = 9
)

type bannerTickMsg struct{}

func bannerTick() tea.Cmd {
	return tea.Tick(bannerInterval, func(time.Time) tea.Msg { return bannerTickMsg{} })
}

type bannerPhase int

const (
	phaseGrow bannerPhase = iota
	phaseSweep
	phaseHold
	phaseFade
)

// banner is the looping title reveal.
type banner struct {
	frame int
}

func (b banner) length() int {
	return bannerGrowFrames + bannerSweepFrames + bannerHoldFrames + bannerFadeFrames
}

func (b *banner) advance() {
	b.frame = (b.frame + 1) % b.length()
}

// pulse reports whether the submit hint is in its emphasized half-cycle.
func (b banner) pulse() bool {
	return (b.frame/pulseEvery)%2 == 0
}

// state returns the phase, how many letters are visible, and where the
// caret is (-1 when hidden).
func (b banner) state() (phase bannerPhase, letters, caret int) {
	n := len([]rune(bannerText))
	f := b.frame
	switch {
	case f < bannerGrowFrames:
		return phaseGrow, 0, 0
	case f < bannerGrowFrames+bannerSweepFrames:
		pos := (f - bannerGrowFrames + 1) * (n + 1) / bannerSweepFrames
		if pos > n {
			pos = n
		}
		return phaseSweep, pos, pos
	case f < bannerGrowFrames+bannerSweepFrames+bannerHoldFrames:
		return phaseHold, n, -1
	default:
		return phaseFade, n, -1
	}
}

func (b banner) view(width int) string {
	t := theme.Active
	phase, letters, caret := b.state()
	runes := []rune(bannerText)

	letterColor := t.AccentBright
	if phase == phaseFade {
		letterColor = t.TextDim
	}
	letterStyle := lipgloss.NewStyle().Foreground(letterColor).Background(t.Surface).Bold(true)
	caretStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	if phase == phaseGrow && b.frame < bannerGrowFrames/2 {
		caretStyle = caretStyle.Foreground(t.TextDim)
	}
	hidden := lipgloss.NewStyle().Background(t.Surface)
	logo := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	var sb strings.Builder
	sb.WriteString(logo.Render(" ◈ "))
	for i, r := range runes {
		if i == caret {
			sb.WriteString(caretStyle.Render("│"))
			continue
		}
		if i < letters {
			sb.WriteString(letterStyle.Render(string(r)))
		} else {
			sb.WriteString(hidden.Render(" "))
		}
	}
	if caret == len(runes) {
		sb.WriteString(caretStyle.Render("│"))
	}

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(sb.String())
}
