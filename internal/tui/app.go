// Package tui provides the interactive Bubble Tea dashboard for fincalc.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/fincalc/internal/app"
	"github.com/theirongolddev/fincalc/internal/calc"
	"github.com/theirongolddev/fincalc/internal/config"
	"github.com/theirongolddev/fincalc/internal/logging"
	"github.com/theirongolddev/fincalc/internal/present"
	"github.com/theirongolddev/fincalc/internal/tui/components"
	"github.com/theirongolddev/fincalc/internal/tui/theme"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// Tab indexes, matching components.Tabs.
const (
	tabRetirement = iota
	tabBudget
	tabExpenses
	tabSettings
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 120

	headerHeight = 2 // banner + tab bar
	statusHeight = 1

	// scrollTopThreshold is how far the content must be scrolled before the
	// scroll-to-top indicator appears.
	scrollTopThreshold = 8

	minContentHeight = 5
)

// App is the root Bubble Tea model.
type App struct {
	disp *app.Dispatcher
	cfg  config.Config
	log  *logrus.Logger

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Calculator tabs; nil for the settings tab.
	forms   [tabSettings]*calcForm
	editing bool

	settings settingsState

	vp     viewport.Model
	modal  modal
	banner banner

	notice    string
	noticeErr bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool
}

// Options configures NewApp.
type Options struct {
	Config    config.Config
	Logger    *logrus.Logger
	FirstRun  bool // show the setup wizard before the dashboard
	LedgerMsg string
}

// NewApp creates a new TUI app model around a dispatcher.
func NewApp(disp *app.Dispatcher, opts Options) App {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	cfg := opts.Config

	a := App{
		disp:      disp,
		cfg:       cfg,
		log:       log,
		vp:        viewport.New(0, 0),
		modal:     newModal(),
		needSetup: opts.FirstRun,
		notice:    opts.LedgerMsg,
		settings:  newSettingsState(),
	}
	a.forms[tabRetirement] = newRetirementForm()
	a.forms[tabBudget] = newBudgetForm()
	a.forms[tabExpenses] = newExpenseForm(config.Categories(cfg), disp.State().DefaultCategory)

	// A hydrated ledger has totals before any expense is added this session.
	if totals := disp.State().Expenses.Totals(); len(totals) > 0 {
		req := present.Expense(totals, "")
		a.forms[tabExpenses].last = &req
	}

	if a.needSetup {
		a.setupVals = SetupValuesFrom(cfg, disp.State().Prefs.DarkMode())
		a.setupForm = NewSetupForm(a.setupVals)
	}
	a.applyTheme()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion, bannerTick()}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a, cmd := a.update(msg)
	a.syncViewport()
	return a, cmd
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if f := a.activeForm(); f != nil && a.editing && f.form != nil {
			f.form = f.form.WithWidth(a.formWidth())
		}
		return a, nil

	case bannerTickMsg:
		a.banner.advance()
		return a, bannerTick()

	case modalFrameMsg:
		return a, a.modal.step(msg)

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)
	}

	// Forward unhandled messages (cursor blinks, etc.) to whichever form
	// has focus.
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.editing {
		return a.updateCalcForm(msg)
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (App, tea.Cmd) {
	if a.showHelp || (a.needSetup && a.setupForm != nil) {
		return a, nil
	}

	if a.modal.blocking() {
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return a, nil
		}
		// Anything except a click inside the body closes the modal.
		if a.modal.hit(msg.X, msg.Y, a.width, a.height) != hitInside {
			return a, a.modal.close()
		}
		return a, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		var cmd tea.Cmd
		a.vp, cmd = a.vp.Update(msg)
		return a, cmd

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		// Tab bar is the second header line.
		if msg.Y == headerHeight-1 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.switchTab(tab)
			}
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (App, tea.Cmd) {
	key := msg.String()

	// Global: quit
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// An open modal blocks everything until dismissed.
	if a.modal.blocking() {
		switch key {
		case "esc", "enter", "q", " ":
			return a, a.modal.close()
		}
		return a, nil
	}

	if a.editing {
		if key == "esc" {
			a.editing = false
			return a, nil
		}
		return a.updateCalcForm(msg)
	}

	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	// Help toggle
	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "D":
		return a.toggleDarkMode()
	case "t", "home":
		a.vp.GotoTop()
		return a, nil
	case "left":
		a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
		return a, nil
	case "right", "tab":
		a.switchTab((a.activeTab + 1) % len(components.Tabs))
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.switchTab(idx)
			return a, nil
		}
	}

	if a.activeTab == tabSettings {
		return a.updateSettingsNav(key)
	}

	switch key {
	case "enter", "i":
		return a.startEditing()
	case "j", "down", "k", "up", "pgdown", "pgup", "ctrl+d", "ctrl+u":
		var cmd tea.Cmd
		a.vp, cmd = a.vp.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) switchTab(idx int) {
	if idx == a.activeTab {
		return
	}
	a.activeTab = idx
	a.editing = false
	a.settings.editing = false
	a.vp.GotoTop()
}

func (a App) activeForm() *calcForm {
	if a.activeTab < 0 || a.activeTab >= len(a.forms) {
		return nil
	}
	return a.forms[a.activeTab]
}

func (a App) startEditing() (App, tea.Cmd) {
	f := a.activeForm()
	if f == nil {
		return a, nil
	}
	a.editing = true
	form := f.build(a.formWidth())
	return a, form.Init()
}

func (a App) updateCalcForm(msg tea.Msg) (App, tea.Cmd) {
	f := a.activeForm()
	if f == nil || f.form == nil {
		a.editing = false
		return a, nil
	}

	model, cmd := f.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		f.form = form
	}

	switch f.form.State {
	case huh.StateCompleted:
		a.editing = false
		f.form = nil
		return a.submit(f)
	case huh.StateAborted:
		a.editing = false
		f.form = nil
		return a, nil
	}
	return a, cmd
}

// submit dispatches the form's action and opens the result modal.
func (a App) submit(f *calcForm) (App, tea.Cmd) {
	req, err := a.disp.Dispatch(context.Background(), f.action, f.collect())
	if err != nil && !calc.IsValidation(err) {
		a.notice = fmt.Sprintf("%s failed: %v", f.title, err)
		a.noticeErr = true
		return a, nil
	}
	if err == nil {
		f.last = &req
		if f.action == app.ActionAddExpense {
			f.clearInputs()
		}
	}
	return a, a.modal.open(req)
}

func (a App) toggleDarkMode() (App, tea.Cmd) {
	req, err := a.disp.Dispatch(context.Background(), app.ActionToggleDarkMode, nil)
	if err != nil {
		a.notice = err.Error()
		a.noticeErr = true
		return a, nil
	}
	a.applyTheme()
	a.notice = req.Message
	a.noticeErr = strings.Contains(req.Message, "not saved")
	return a, nil
}

// applyTheme selects the active theme from the dark-mode preference.
func (a *App) applyTheme() {
	theme.Select(a.cfg.Appearance.Theme, a.cfg.Appearance.LightTheme, a.disp.State().Prefs.DarkMode())
}

func (a App) updateSetupForm(msg tea.Msg) (App, tea.Cmd) {
	model, cmd := a.setupForm.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.finishSetup()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a *App) finishSetup() {
	ApplySetup(&a.cfg, *a.setupVals)
	if err := config.Save(a.cfg); err != nil {
		a.notice = "Setup not saved: " + err.Error()
		a.noticeErr = true
		a.log.WithError(err).Warn("saving setup config")
	}
	if err := a.disp.State().Prefs.SetDarkMode(a.setupVals.DarkMode); err != nil {
		a.log.WithError(err).Warn("saving dark mode")
	}
	a.disp.State().DefaultCategory = a.cfg.General.DefaultCategory
	a.forms[tabExpenses] = newExpenseForm(config.Categories(a.cfg), a.cfg.General.DefaultCategory)
	a.applyTheme()
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) contentHeight() int {
	h := a.height - headerHeight - statusHeight
	if h < minContentHeight {
		h = minContentHeight
	}
	return h
}

func (a App) formWidth() int {
	return components.CardInnerWidth(a.contentWidth())
}

// syncViewport re-renders the active tab into the viewport so scrolling
// and the scroll-to-top indicator see the current content.
func (a *App) syncViewport() {
	if a.width == 0 {
		return
	}
	a.vp.Width = a.contentWidth()
	a.vp.Height = a.contentHeight()
	a.vp.SetContent(a.renderTab(a.contentWidth()))
}

func (a App) renderTab(cw int) string {
	switch a.activeTab {
	case tabRetirement, tabBudget, tabExpenses:
		return a.renderCalcTab(cw)
	case tabSettings:
		return a.renderSettingsTab(cw)
	}
	return ""
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	// First-run setup wizard
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	if a.modal.visible {
		return a.modal.view(a.width, a.height)
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  fincalc needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"r b e x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Scroll"},
			{"t Home", "Scroll to top"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"Enter", "Edit form / Submit / Close result"},
			{"Esc", "Leave form / Close result"},
			{"D", "Toggle dark mode"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := a.banner.view(w) + "\n" + components.RenderTabBar(a.activeTab, w)

	statusBar := components.RenderStatusBar(w, components.StatusInfo{
		DarkMode:  a.disp.State().Prefs.DarkMode(),
		ShowTop:   a.vp.YOffset > scrollTopThreshold,
		Notice:    a.notice,
		NoticeErr: a.noticeErr,
		Expenses:  len(a.disp.State().Expenses.Expenses()),
	})

	contentH := a.contentHeight()
	content := padHeight(truncateHeight(a.vp.View(), contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
