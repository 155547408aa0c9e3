// Package cmd implements the fincalc CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/theirongolddev/fincalc/internal/app"
	"github.com/theirongolddev/fincalc/internal/calc"
	"github.com/theirongolddev/fincalc/internal/cli"
	"github.com/theirongolddev/fincalc/internal/config"
	"github.com/theirongolddev/fincalc/internal/logging"
	"github.com/theirongolddev/fincalc/internal/present"
	"github.com/theirongolddev/fincalc/internal/store"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagFormat    string
	flagLogLevel  string
	flagLogFormat string
	flagLogFile   string
	flagLedger    string
	flagNoLedger  bool
	flagQuiet     bool
)

var rootCmd = &cobra.Command{
	Use:   "fincalc",
	Short: "Personal finance calculator",
	Long:  "Project retirement savings, balance a monthly budget, and track expenses by category.",
	RunE:  runTUI,

	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if !cli.ValidFormat(flagFormat) {
			return fmt.Errorf("invalid --format %q (want table, json or yaml)", flagFormat)
		}
		return nil
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Validation alerts have already been printed.
		if !calc.IsValidation(err) {
			fmt.Fprintf(os.Stderr, "  Error: %s\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", cli.FormatTable, "Output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text or json (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLedger, "ledger", "", "Expense ledger path (sqlite)")
	rootCmd.PersistentFlags().BoolVar(&flagNoLedger, "no-ledger", false, "Keep expenses in memory only")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
}

// runtime bundles what every command needs once flags are parsed.
type runtime struct {
	cfg       config.Config
	log       *logrus.Logger
	disp      *app.Dispatcher
	ledger    *store.Ledger
	ledgerMsg string
	closers   []io.Closer
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i].Close()
	}
}

// bootstrap loads .env and config, configures logging, and builds the
// dispatcher around the persisted preference and (optionally) the ledger.
// defaultLogFile is used when neither the flag nor config names a log file.
func bootstrap(defaultLogFile string) (*runtime, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlags(&cfg)

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = defaultLogFile
	}
	log, logCloser, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   logFile,
	})
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	st := app.NewState()
	st.DefaultCategory = cfg.General.DefaultCategory
	prefs, err := app.LoadPreferences(config.PrefStore{})
	if err != nil {
		log.WithError(err).Warn("using light mode")
	}
	st.Prefs = prefs

	opts := []app.Option{app.WithLogger(log)}
	if cfg.Ledger.Enabled {
		path := config.LedgerPath(cfg)
		ledger, err := store.Open(path)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("ledger unavailable, expenses kept in memory")
			rt.ledgerMsg = "Ledger unavailable; expenses kept in memory"
		} else {
			rt.ledger = ledger
			rt.closers = append(rt.closers, ledger)
			n, err := ledger.Hydrate(st.Expenses)
			if err != nil {
				rt.Close()
				return nil, fmt.Errorf("loading ledger: %w", err)
			}
			log.WithFields(logrus.Fields{"path": path, "expenses": n}).Debug("ledger loaded")
			if n > 0 {
				rt.ledgerMsg = fmt.Sprintf("Loaded %d expenses from ledger", n)
			}
			opts = append(opts, app.WithJournal(ledger))
		}
	}

	rt.disp = app.NewDispatcher(st, opts...)
	return rt, nil
}

func applyFlags(cfg *config.Config) {
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Log.Format = flagLogFormat
	}
	if flagLogFile != "" {
		cfg.Log.File = flagLogFile
	}
	if flagLedger != "" {
		cfg.Ledger.Path = flagLedger
	}
	if flagNoLedger {
		cfg.Ledger.Enabled = false
	}
}

// defaultTUILogFile keeps TUI logs off the terminal being drawn on.
func defaultTUILogFile() string {
	return filepath.Join(config.DataDir(), "fincalc.log")
}

// runAction dispatches one action and prints the result in the selected
// format. Validation alerts go to stderr and the error is returned.
func runAction(ctx context.Context, rt *runtime, action string, fields app.Fields) error {
	req, err := rt.disp.Dispatch(ctx, action, fields)
	if err != nil {
		if calc.IsValidation(err) {
			printAlert(req)
		}
		return err
	}
	return printRequest(req)
}

func printRequest(req present.Request) error {
	if flagFormat != cli.FormatTable {
		return cli.Encode(os.Stdout, flagFormat, req)
	}
	fmt.Println()
	fmt.Print(cli.RenderRequest(req))
	return nil
}

func printAlert(req present.Request) {
	if flagFormat != cli.FormatTable {
		_ = cli.Encode(os.Stderr, flagFormat, req)
		return
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprint(os.Stderr, cli.RenderRequest(req))
}

func info(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}
