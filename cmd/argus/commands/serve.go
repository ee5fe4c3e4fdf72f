package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/argus/internal/api"
	"github.com/wonny/argus/internal/refresh"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server with periodic re-evaluation",
	Long: `Starts the full service: loads holdings from Postgres, evaluates them
through the analyst panel on a schedule, screens the market for candidates,
and serves results over HTTP and WebSocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	c, err := buildComponents(true)
	if err != nil {
		return err
	}
	defer c.close()
	log := c.logger

	log.WithFields(map[string]interface{}{
		"env":    c.cfg.Env,
		"port":   c.cfg.Port,
		"agents": c.panel.Size(),
	}).Info("Starting Argus")

	// Realtime hub and metrics.
	metrics := api.NewMetrics()
	hub := api.NewHub(log, metrics)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	// Refresh scheduler publishes into the hub.
	scheduler := refresh.New(c.cfg.Refresh, c.portfolio, c.analyzer, c.screener, c.risk, log)
	scheduler.OnPublish(hub.Broadcast)
	scheduler.OnCycleDone(func(scope string, d time.Duration, abstained int) {
		metrics.RecordCycle(scope, d)
		metrics.RecordAbstentions(abstained)
	})
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	// HTTP server.
	handler := api.NewHandler(scheduler, c.market, c.panel, log)
	router := api.NewRouter(handler, hub, metrics, log)
	server := api.New(c.cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down")
	}

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
