// Package main is the entry point for the validator worker process. It polls
// the configured sentry on a fixed interval and stops gracefully on
// SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chanstack/chanstack/internal/adapters/clients/sentry"
	"github.com/chanstack/chanstack/internal/domain"
	"github.com/chanstack/chanstack/internal/platform/config"
	"github.com/chanstack/chanstack/internal/platform/httpclient"
	"github.com/chanstack/chanstack/internal/platform/logging"
	"github.com/chanstack/chanstack/internal/platform/telemetry"
	"github.com/chanstack/chanstack/internal/worker"

	"log/slog"
)

const otelShutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, prod)")
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	self, err := domain.ParseAddress(cfg.Worker.Address)
	if err != nil {
		return fmt.Errorf("worker.address: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *telemetry.Metrics
	if cfg.Telemetry.Enabled {
		mp, err := telemetry.InitMeter(ctx,
			cfg.Telemetry.ServiceName,
			cfg.Telemetry.Exporter,
			cfg.Telemetry.Endpoint,
		)
		if err != nil {
			return fmt.Errorf("init meter: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
			defer cancel()
			if err := mp.Shutdown(shutdownCtx); err != nil {
				logger.Error("telemetry shutdown error", slog.Any("error", err))
			}
		}()

		metrics, err = telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
		if err != nil {
			return fmt.Errorf("creating metrics: %w", err)
		}
	}

	httpClient := httpclient.New(&cfg.Sentry, "sentry-api", metrics, logger)
	client := sentry.NewClient(httpClient, logger)

	w := worker.New(client, self, cfg.Worker, logger)

	logger.Info("validator worker starting",
		slog.String("address", self.String()),
		slog.String("sentry", cfg.Sentry.BaseURL),
		slog.Duration("tick_interval", cfg.Worker.TickInterval),
	)

	err = w.Run(ctx)
	logger.Info("shutdown complete")
	return err
}
