package cmd

import (
	"fmt"

	"github.com/theirongolddev/fincalc/internal/config"
	"github.com/theirongolddev/fincalc/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive calculator",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	firstRun := !config.Exists()

	rt, err := bootstrap(defaultTUILogFile())
	if err != nil {
		return err
	}
	defer rt.Close()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(rt.disp, tui.Options{
		Config:    rt.cfg,
		Logger:    rt.log,
		FirstRun:  firstRun,
		LedgerMsg: rt.ledgerMsg,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	rt.log.Info("tui started")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
