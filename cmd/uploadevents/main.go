package main

import (
	"context"
	"log/slog"
	"media-pipeline/internal/adapters/eventbroker/nats"
	"media-pipeline/internal/app"
	"media-pipeline/internal/config"
	"media-pipeline/internal/core/service/uploadevent"
	"os"
	"os/signal"
	"syscall"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	application, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("failed to close app", "error", err)
		}
	}()

	uploadEvents := uploadevent.NewUploadEventService(application.Ingestion, cfg.Buckets.Upload, cfg.Upload.Prefix, logger)

	// Initialize NATS consumer
	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	if err := natsConsumer.EnsureStream(ctx); err != nil {
		logger.Error("failed to ensure upload event stream", "error", err)
		os.Exit(1)
	}

	if err := natsConsumer.Subscribe(ctx, uploadEvents); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS subscription active")

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down upload event service")

	// Close drains the in-flight message before returning
	if err := natsConsumer.Close(); err != nil {
		logger.Error("failed to close NATS consumer during shutdown", "error", err)
	}

	logger.Info("upload event service shutdown complete")
}
