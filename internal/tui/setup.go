package tui

import (
	"github.com/theirongolddev/fincalc/internal/config"
	"github.com/theirongolddev/fincalc/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues holds the answers of the setup wizard.
type SetupValues struct {
	Theme           string
	DarkMode        bool
	DefaultCategory string
	LedgerEnabled   bool
}

// SetupValuesFrom seeds the wizard from existing config.
func SetupValuesFrom(cfg config.Config, dark bool) *SetupValues {
	return &SetupValues{
		Theme:           cfg.Appearance.Theme,
		DarkMode:        dark,
		DefaultCategory: cfg.General.DefaultCategory,
		LedgerEnabled:   cfg.Ledger.Enabled,
	}
}

// NewSetupForm builds the first-run wizard. It is embedded in the TUI on
// first launch and run standalone by `fincalc setup`.
func NewSetupForm(vals *SetupValues) *huh.Form {
	var darkThemes []huh.Option[string]
	for _, t := range theme.All {
		if theme.IsLight(t) {
			continue
		}
		darkThemes = append(darkThemes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fincalc").
				Description("Retirement projections, budget balance and expense tracking.\nLet's set up a few things."),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Dark color theme").
				Description("Used when dark mode is on; light mode uses flexoki-light.").
				Options(darkThemes...).
				Value(&vals.Theme),
			huh.NewConfirm().
				Title("Start in dark mode?").
				Affirmative("Dark").
				Negative("Light").
				Value(&vals.DarkMode),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default expense category").
				Options(huh.NewOptions(config.DefaultCategories...)...).
				Value(&vals.DefaultCategory),
			huh.NewConfirm().
				Title("Keep expenses between runs?").
				Description("Stores expenses in a local SQLite ledger.").
				Value(&vals.LedgerEnabled),
		),
	).WithTheme(huh.ThemeCharm())
}

// ApplySetup copies wizard answers into cfg.
func ApplySetup(cfg *config.Config, vals SetupValues) {
	if vals.Theme != "" {
		cfg.Appearance.Theme = vals.Theme
	}
	cfg.Appearance.DarkMode = vals.DarkMode
	if vals.DefaultCategory != "" {
		cfg.General.DefaultCategory = vals.DefaultCategory
	}
	cfg.Ledger.Enabled = vals.LedgerEnabled
}
