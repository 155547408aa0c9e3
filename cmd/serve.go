package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/fincalc/internal/server"

	"github.com/spf13/cobra"
)

var (
	flagAddr         string
	flagEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculators over HTTP",
	Long: `Serve the calculators over HTTP.

Endpoints:
  GET  /healthz
  GET  /v1/status
  GET  /v1/actions
  POST /v1/actions/{name}
  GET  /v1/expenses
  GET  /v1/preferences
  PUT  /v1/preferences
  GET  /v1/events
  GET  /v1/stream`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().IntVar(&flagEventsBuffer, "events-buffer", 0, "Max in-memory events kept (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := bootstrap("")
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := server.Config{
		Addr:         rt.cfg.Server.Addr,
		EventsBuffer: rt.cfg.Server.EventsBuffer,
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if flagEventsBuffer > 0 {
		cfg.EventsBuffer = flagEventsBuffer
	}

	svc := server.New(cfg, rt.disp, rt.log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info("fincalc server listening on http://%s", cfg.Addr)
	if err := svc.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
