package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"eventreg/internal/platform/config"
	"eventreg/internal/platform/httpserver"
	"eventreg/internal/platform/logger"
	"eventreg/internal/platform/tracing"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, warnings, err := c.load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Format)
			for _, w := range warnings {
				log.Warn(w)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	tp, err := tracing.NewProvider(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  cfg.Tracing.ServiceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("tracer shutdown failed", "error", err)
		}
	}()

	a, err := newApp(ctx, cfg, log, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("failed to release resources", "error", err)
		}
	}()

	srv := httpserver.New(cfg.Server.Addr, a.router, cfg.Server.ReadHeaderTimeout)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting eventreg", "addr", cfg.Server.Addr, "store", cfg.Database.Driver, "tracing", tp.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
