package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/fincalc/internal/cli"
	"github.com/theirongolddev/fincalc/internal/config"
	"github.com/theirongolddev/fincalc/internal/tui/components"
	"github.com/theirongolddev/fincalc/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldDarkMode = iota
	settingsFieldTheme
	settingsFieldLightTheme
	settingsFieldCategory
	settingsFieldLedger
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsState() settingsState {
	return settingsState{input: newSettingsInput()}
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) updateSettingsNav(key string) (App, tea.Cmd) {
	switch key {
	case "j", "down":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter", " ":
		switch a.settings.cursor {
		case settingsFieldDarkMode:
			return a.toggleDarkMode()
		case settingsFieldLedger:
			a.cfg.Ledger.Enabled = !a.cfg.Ledger.Enabled
			a.saveSettings()
			return a, nil
		}
		return a.settingsStartEdit()
	}
	return a, nil
}

func (a App) settingsStartEdit() (App, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = themeNames()
		ti.SetValue(a.cfg.Appearance.Theme)
	case settingsFieldLightTheme:
		ti.Placeholder = themeNames()
		ti.SetValue(a.cfg.Appearance.LightTheme)
	case settingsFieldCategory:
		ti.Placeholder = strings.Join(config.Categories(a.cfg), ", ")
		ti.SetValue(a.cfg.General.DefaultCategory)
	}

	ti.Focus()
	a.settings.input = ti
	return a, textinput.Blink
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsApplyInput()
		a.settings.editing = false
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsApplyInput validates the edited value and saves it. Unknown theme
// names are rejected with a message rather than silently ignored.
func (a *App) settingsApplyInput() {
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldTheme, settingsFieldLightTheme:
		if !knownTheme(val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			a.settings.saved = false
			return
		}
		if a.settings.cursor == settingsFieldTheme {
			a.cfg.Appearance.Theme = val
		} else {
			a.cfg.Appearance.LightTheme = val
		}
		a.applyTheme()
	case settingsFieldCategory:
		if val == "" {
			a.settings.saveErr = fmt.Errorf("category cannot be empty")
			a.settings.saved = false
			return
		}
		a.cfg.General.DefaultCategory = val
		a.disp.State().DefaultCategory = val
		a.forms[tabExpenses] = newExpenseForm(config.Categories(a.cfg), val)
	}
	a.saveSettings()
}

// saveSettings writes the config, keeping the dark-mode flag owned by the
// preference store.
func (a *App) saveSettings() {
	a.cfg.Appearance.DarkMode = a.disp.State().Prefs.DarkMode()
	a.settings.saveErr = config.Save(a.cfg)
	a.settings.saved = a.settings.saveErr == nil
	if a.settings.saveErr != nil {
		a.log.WithError(a.settings.saveErr).Warn("saving settings")
	}
}

func knownTheme(name string) bool {
	for _, t := range theme.All {
		if t.Name == name {
			return true
		}
	}
	return false
}

func themeNames() string {
	names := make([]string, len(theme.All))
	for i, t := range theme.All {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	st := a.disp.State()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	ledger := "off"
	if a.cfg.Ledger.Enabled {
		ledger = "on (next launch)"
	}

	fields := []field{
		{"Dark Mode", strconv.FormatBool(st.Prefs.DarkMode())},
		{"Dark Theme", a.cfg.Appearance.Theme},
		{"Light Theme", a.cfg.Appearance.LightTheme},
		{"Default Category", a.cfg.General.DefaultCategory},
		{"Expense Ledger", ledger},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit/toggle  [Esc] cancel"))

	ledgerPath := "(disabled)"
	if a.cfg.Ledger.Enabled {
		ledgerPath = config.LedgerPath(a.cfg)
	}

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.ConfigPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Ledger:          ") + valueStyle.Render(ledgerPath) + "\n")
	infoBody.WriteString(labelStyle.Render("Expenses:        ") + valueStyle.Render(cli.FormatNumber(int64(len(st.Expenses.Expenses())))) + "\n")
	infoBody.WriteString(labelStyle.Render("Tracked total:   ") + valueStyle.Render(cli.FormatMoney(st.Expenses.Totals().Sum())))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
