// Package main starts the realmforge worker process: the poll loop
// that leases due jobs and dispatches them to their handlers (C8).
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironcrown/realmforge/internal/clock"
	"github.com/ironcrown/realmforge/internal/jobhandlers"
	"github.com/ironcrown/realmforge/internal/jobs/dispatch"
	"github.com/ironcrown/realmforge/internal/platform/config"
	"github.com/ironcrown/realmforge/internal/platform/otel"
	"github.com/ironcrown/realmforge/internal/storage"
	"github.com/ironcrown/realmforge/internal/storage/postgres"
	"github.com/ironcrown/realmforge/internal/storage/sqlite"
)

func main() {
	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatalf("parse config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatalf("worker exited: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	shutdown, err := otel.Setup(ctx, "realmforge-worker")
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Error("otel shutdown", "error", err)
		}
	}()

	provider, closeProvider, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeProvider()

	registry := dispatch.NewRegistry()
	jobhandlers.RegisterAll(registry)

	worker := dispatch.NewWorker(provider, registry, clock.Real{}, dispatch.WorkerConfig{
		Consumer:     "realmforge-worker",
		PollInterval: cfg.PollInterval,
		LeaseTTL:     cfg.LeaseTTL,
		BatchSize:    cfg.BatchSize,
	}, logger)

	healthStop, err := serveHealth(cfg.HealthPort, logger)
	if err != nil {
		return err
	}
	defer healthStop()

	logger.Info("worker starting",
		"poll_interval", cfg.PollInterval,
		"lease_ttl", cfg.LeaseTTL,
		"batch_size", cfg.BatchSize,
		"health_port", cfg.HealthPort,
	)

	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("worker stopped")
	return nil
}

// openStorage opens the storage.Provider named by cfg.DBDriver.
// Unrecognised drivers fall back to sqlite rather than failing
// startup, matching Validate's tolerance of unset/partial config.
func openStorage(ctx context.Context, cfg config.Config) (storage.Provider, func(), error) {
	switch cfg.DBDriver {
	case "postgres":
		p, err := postgres.Open(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	default:
		p, err := sqlite.Open(cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { _ = p.Close() }, nil
	}
}
