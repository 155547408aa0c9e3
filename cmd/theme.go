package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/fincalc/internal/app"
	"github.com/theirongolddev/fincalc/internal/cli"

	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:       "theme [toggle|dark|light]",
	Short:     "Show or change dark mode",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"toggle", "dark", "light"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap("")
	if err != nil {
		return err
	}
	defer rt.Close()

	if len(args) == 0 {
		dark := rt.disp.State().Prefs.DarkMode()
		if flagFormat != cli.FormatTable {
			return cli.Encode(os.Stdout, flagFormat, map[string]bool{"dark_mode": dark})
		}
		mode := "light"
		if dark {
			mode = "dark"
		}
		fmt.Printf("  Dark mode: %s (theme %s)\n", mode, activeThemeName(rt, dark))
		return nil
	}

	fields := app.Fields{}
	switch args[0] {
	case "dark":
		fields[app.FieldEnabled] = "true"
	case "light":
		fields[app.FieldEnabled] = "false"
	}
	return runAction(cmd.Context(), rt, app.ActionToggleDarkMode, fields)
}

func activeThemeName(rt *runtime, dark bool) string {
	if dark {
		return rt.cfg.Appearance.Theme
	}
	return rt.cfg.Appearance.LightTheme
}
