package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Drominaman/cybertrend-dashboard/internal/coord"
	"github.com/Drominaman/cybertrend-dashboard/internal/fetch"
	"github.com/Drominaman/cybertrend-dashboard/internal/logging"
	"github.com/Drominaman/cybertrend-dashboard/internal/server"
	"github.com/Drominaman/cybertrend-dashboard/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keep the stats fresh and serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coordinator := coord.NewCoordinator(fetch.NewFetcher(cfg.Refresh.FetchTimeout), cfg.Sources, coord.Options{
		Interval:     cfg.Refresh.Interval,
		FetchTimeout: cfg.Refresh.FetchTimeout,
	})

	logger := logging.WithPrefix("serve")
	coordinator.StartNotify(ctx, func(msg tea.Msg) {
		if failed, ok := msg.(ui.LoadFailed); ok {
			logger.Warn("refresh failed, serving previous dataset", "err", failed.Err)
		}
	})

	srv := server.NewServer(server.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ChartSize:      cfg.UI.ChartSize,
		NewWindow:      cfg.UI.NewWindow,
	}, coordinator, logging.WithPrefix("http"))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		stop()
		coordinator.Wait()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	coordinator.Wait()
	return nil
}
