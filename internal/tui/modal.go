package tui

import (
	"math"
	"strings"
	"time"

	"github.com/theirongolddev/fincalc/internal/present"
	"github.com/theirongolddev/fincalc/internal/tui/components"
	"github.com/theirongolddev/fincalc/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	modalFPS       = 60
	modalMinScale  = 0.8
	modalMaxWidth  = 72
	modalMinWidth  = 36
	modalChartRows = 10
	modalPadX      = 2
)

// modalFrameMsg advances the modal animation. seq ties a frame to the
// open/close that scheduled it so a replaced modal does not run two loops.
type modalFrameMsg struct{ seq int }

// modal shows one presentation request at a time. Opening springs scale
// from 0.8 to 1 and opacity from 0 to 1; closing runs the reverse and hides
// the modal once it settles.
type modal struct {
	req     present.Request
	visible bool
	closing bool

	scale, scaleVel     float64
	opacity, opacityVel float64

	spring harmonica.Spring
	seq    int
}

func newModal() modal {
	return modal{spring: harmonica.NewSpring(harmonica.FPS(modalFPS), 7.0, 0.8)}
}

// open replaces whatever the modal was showing, chart included, and starts
// the opening animation.
func (m *modal) open(req present.Request) tea.Cmd {
	m.req = req
	m.visible = true
	m.closing = false
	m.scale, m.scaleVel = modalMinScale, 0
	m.opacity, m.opacityVel = 0, 0
	m.seq++
	return m.frame()
}

// close starts the closing animation. It is a no-op if already closing.
func (m *modal) close() tea.Cmd {
	if !m.visible || m.closing {
		return nil
	}
	m.closing = true
	m.seq++
	return m.frame()
}

// blocking reports whether the modal should swallow input.
func (m modal) blocking() bool {
	return m.visible && !m.closing
}

func (m modal) frame() tea.Cmd {
	seq := m.seq
	return tea.Tick(time.Second/modalFPS, func(time.Time) tea.Msg {
		return modalFrameMsg{seq: seq}
	})
}

// step advances one frame and returns the next frame command, or nil once
// the animation has settled.
func (m *modal) step(msg modalFrameMsg) tea.Cmd {
	if msg.seq != m.seq || !m.visible {
		return nil
	}

	targetScale, targetOpacity := 1.0, 1.0
	if m.closing {
		targetScale, targetOpacity = modalMinScale, 0
	}
	m.scale, m.scaleVel = m.spring.Update(m.scale, m.scaleVel, targetScale)
	m.opacity, m.opacityVel = m.spring.Update(m.opacity, m.opacityVel, targetOpacity)

	if settled(m.scale, m.scaleVel, targetScale) && settled(m.opacity, m.opacityVel, targetOpacity) {
		m.scale, m.scaleVel = targetScale, 0
		m.opacity, m.opacityVel = targetOpacity, 0
		if m.closing {
			m.visible = false
			m.closing = false
			m.req = present.Request{}
		}
		return nil
	}
	return m.frame()
}

func settled(pos, vel, target float64) bool {
	return math.Abs(pos-target) < 0.002 && math.Abs(vel) < 0.01
}

// fullWidth is the box width at scale 1 for a terminal of width w.
func (m modal) fullWidth(w int) int {
	fw := w * 2 / 3
	if fw > modalMaxWidth {
		fw = modalMaxWidth
	}
	if fw < modalMinWidth {
		fw = modalMinWidth
	}
	if fw > w {
		fw = w
	}
	return fw
}

// box renders the modal box at its current scale and opacity.
func (m modal) box(w int) string {
	t := theme.Active

	scale := math.Max(m.scale, 0.5)
	boxW := int(math.Round(float64(m.fullWidth(w)) * scale))
	innerW := boxW - 2 - 2*modalPadX
	if innerW < 10 {
		innerW = 10
	}

	accent := t.BorderAccent
	if m.req.Alert {
		accent = t.Red
	}
	bg := t.Background
	fg := fade(t.TextPrimary, bg, m.opacity)
	muted := fade(t.TextMuted, bg, m.opacity)
	border := fade(accent, bg, m.opacity)

	titleStyle := lipgloss.NewStyle().Foreground(fade(accent, bg, m.opacity)).Background(t.Surface).Bold(true)
	closeStyle := lipgloss.NewStyle().Foreground(muted).Background(t.Surface)
	msgStyle := lipgloss.NewStyle().Foreground(fg).Background(t.Surface).Width(innerW)
	hintStyle := lipgloss.NewStyle().Foreground(muted).Background(t.Surface)
	fill := lipgloss.NewStyle().Background(t.Surface)

	title := m.req.Title
	if m.req.Alert {
		title = "⚠ " + title
	}
	closeCtl := "[×]"
	gap := innerW - lipgloss.Width(title) - lipgloss.Width(closeCtl)
	if gap < 1 {
		title = truncStr(title, innerW-lipgloss.Width(closeCtl)-1)
		gap = innerW - lipgloss.Width(title) - lipgloss.Width(closeCtl)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString(fill.Render(strings.Repeat(" ", max(gap, 0))))
	b.WriteString(closeStyle.Render(closeCtl))
	b.WriteString("\n\n")
	b.WriteString(msgStyle.Render(m.req.Message))

	// Charts only draw once the box is mostly opaque; fading every cell of
	// a chart is not worth the cost per frame.
	if m.req.Chart != nil && m.opacity > 0.6 {
		b.WriteString("\n\n")
		b.WriteString(components.RenderChart(m.req.Chart, innerW, modalChartRows))
	}

	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("enter/esc close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Padding(0, modalPadX).
		Width(boxW - 2).
		Render(b.String())
}

// rect returns the top-left corner and size of the modal box when centered
// in a w x h screen. It mirrors lipgloss.Place's centering.
func (m modal) rect(w, h int) (x, y, bw, bh int) {
	box := m.box(w)
	bw, bh = lipgloss.Width(box), lipgloss.Height(box)
	return max(w-bw, 0) / 2, max(h-bh, 0) / 2, bw, bh
}

// hit classifies a click at (cx, cy).
func (m modal) hit(cx, cy, w, h int) modalHit {
	x, y, bw, bh := m.rect(w, h)
	if cx < x || cx >= x+bw || cy < y || cy >= y+bh {
		return hitOutside
	}
	// "[×]" sits at the right edge of the first content row, inside the
	// border and padding.
	closeRight := x + bw - 1 - modalPadX
	if cy <= y+1 && cx >= closeRight-3 && cx < closeRight {
		return hitClose
	}
	return hitInside
}

type modalHit int

const (
	hitOutside modalHit = iota
	hitInside
	hitClose
)

// view centers the modal over a w x h screen.
func (m modal) view(w, h int) string {
	t := theme.Active
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, m.box(w),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// fade blends c toward bg as opacity falls to 0. Colors that are not hex
// (ANSI palette indexes) snap at half opacity.
func fade(c, bg lipgloss.Color, opacity float64) lipgloss.Color {
	if opacity >= 1 {
		return c
	}
	if opacity < 0 {
		opacity = 0
	}
	fc, err1 := colorful.Hex(string(c))
	bc, err2 := colorful.Hex(string(bg))
	if err1 != nil || err2 != nil {
		if opacity >= 0.5 {
			return c
		}
		return bg
	}
	return lipgloss.Color(bc.BlendLab(fc, opacity).Clamped().Hex())
}
