package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/sadopc/tally/internal/metrics"
	"github.com/sadopc/tally/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve activity over HTTP",
	Long: `Serve GET /api/{source}?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD plus
/health and /metrics. Forced refreshes need the X-Refresh-Secret header.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		e, err := openEngine(ctx, engineOptions{Metrics: metrics.NewPrometheus(reg)})
		if err != nil {
			return err
		}
		defer e.Close()

		addr := e.cfg.Server.Addr
		if flagAddr != "" {
			addr = flagAddr
		}
		if e.cfg.RefreshSecret() == "" {
			e.logger.Info().Msg("no refresh secret configured; forced refresh is disabled")
		}

		srv := server.New(server.Config{
			Orchestrators: e.orchestrators,
			Store:         e.store,
			RefreshSecret: e.cfg.RefreshSecret(),
			RateLimit:     e.cfg.Server.RateLimit,
			Location:      e.cfg.Location(),
			Clock:         e.clock,
			Logger:        e.logger,
			Gatherer:      reg,
		})
		if err := srv.ListenAndServe(ctx, addr); err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides server.addr)")
}
