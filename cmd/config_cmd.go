package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/fincalc/internal/cli"
	"github.com/theirongolddev/fincalc/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(&cfg)

	if flagFormat != cli.FormatTable {
		return cli.Encode(os.Stdout, flagFormat, cfg)
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default category: %s\n", cfg.General.DefaultCategory)
	fmt.Printf("    Categories:       %s\n", strings.Join(config.Categories(cfg), ", "))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Dark mode:   %v\n", cfg.Appearance.DarkMode)
	fmt.Printf("    Dark theme:  %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Light theme: %s\n", cfg.Appearance.LightTheme)
	fmt.Println()

	fmt.Println("  [Ledger]")
	if cfg.Ledger.Enabled {
		fmt.Printf("    Path: %s\n", config.LedgerPath(cfg))
	} else {
		fmt.Println("    Disabled (expenses kept in memory)")
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:       %s\n", cfg.Server.Addr)
	fmt.Printf("    Events buffer: %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	if cfg.Log.File != "" {
		fmt.Printf("    File:   %s\n", cfg.Log.File)
	}
	fmt.Println()

	fmt.Println("  Run `fincalc setup` to reconfigure.")
	return nil
}
