package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"media-pipeline/internal/adapters/handlers/http/chi"
	"media-pipeline/internal/adapters/handlers/http/chi/v1/asset"
	"media-pipeline/internal/app"
	"media-pipeline/internal/config"
	"media-pipeline/internal/core/port"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

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

	//http
	assetHandler := asset.NewAssetHandlerV1(application.Artifacts, application.Ingestion, application.Deletion, logger)

	router := chi.NewRouter(logger, assetHandler, []byte(cfg.Auth.JWTSecret), cfg.Env.Env)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// stale upload cleanup
	wg.Add(1)
	go func() {
		defer wg.Done()
		initCleanupTask(ctx, application.Cleanup, cfg.Upload.CleanupEvery, cfg.Upload.SessionTTL, logger)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

// initCleanupTask removes uploads that stayed signed for longer than sessionTTL
func initCleanupTask(ctx context.Context, service port.CleanupService, every, sessionTTL time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("cleanup task initialized", "interval", every, "session_ttl", sessionTTL)

	for {
		select {
		case <-ticker.C:
			logger.Info("cleanup task starting")
			err := service.CleanupStaleUploads(ctx, time.Now().Add(-sessionTTL))
			if err != nil {
				logger.Error("failed to cleanup stale uploads", "error", err)
			} else {
				logger.Info("cleanup task completed successfully")
			}
		case <-ctx.Done():
			logger.Info("cleanup task stopped")
			return
		}
	}

}
