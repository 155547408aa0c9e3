package cmd

import (
	"fmt"

	"github.com/theirongolddev/fincalc/internal/app"
	"github.com/theirongolddev/fincalc/internal/config"
	"github.com/theirongolddev/fincalc/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Existing config or defaults.
	cfg, _ := config.Load()

	prefs, _ := app.LoadPreferences(config.PrefStore{})
	vals := tui.SetupValuesFrom(cfg, prefs.DarkMode())
	if err := tui.NewSetupForm(vals).Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	tui.ApplySetup(&cfg, *vals)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `fincalc setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
