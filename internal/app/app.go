// Package app wires adapters and services from configuration. Every binary builds on it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"media-pipeline/internal/adapters/audit"
	"media-pipeline/internal/adapters/dispatchguard/redis"
	"media-pipeline/internal/adapters/eventbroker/nats"
	"media-pipeline/internal/adapters/repository/postgres"
	"media-pipeline/internal/adapters/signer/cloudfront"
	"media-pipeline/internal/adapters/signer/presign"
	"media-pipeline/internal/adapters/storage/minio"
	"media-pipeline/internal/config"
	"media-pipeline/internal/core/port"
	"media-pipeline/internal/core/service/access"
	"media-pipeline/internal/core/service/artifact"
	"media-pipeline/internal/core/service/cleanup"
	"media-pipeline/internal/core/service/deletion"
	"media-pipeline/internal/core/service/ingestion"
	"media-pipeline/internal/core/service/jobqueue"
	"time"

	_ "github.com/lib/pq"
)

// App holds the wired services and what must be closed on shutdown
type App struct {
	Artifacts port.ArtifactService
	Ingestion port.IngestionService
	Deletion  port.DeletionService
	Cleanup   port.CleanupService

	db        *sql.DB
	publisher *nats.Publisher
	guard     *redis.Guard
	logger    *slog.Logger
}

// Build connects postgres, minio, nats and, when configured, redis
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	a := &App{db: db, logger: logger}
	logger.Info("db connection established")

	store, err := minio.NewAdapter(ctx, cfg.Minio, []string{cfg.Buckets.Upload, cfg.Buckets.Output}, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to init minio: %w", err)
	}

	a.publisher, err = nats.NewNATSPublisher(ctx, cfg.NATS, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to init NATS publisher: %w", err)
	}

	var guard port.DispatchGuard
	if cfg.Redis.Addr != "" {
		a.guard, err = redis.NewGuard(ctx, cfg.Redis, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to init dispatch guard: %w", err)
		}
		guard = a.guard
	} else {
		logger.Warn("REDIS_ADDR not set, dispatch guard disabled")
	}

	var signer port.DeliverySigner = presign.NewSigner(store)
	if cfg.Delivery.CloudFrontEnabled() {
		cf, err := cloudfront.NewSigner(cfg.Delivery, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		signer = cf
	}

	unitOfWork := postgres.NewUnitOfWork(db)
	auditLog := audit.NewLog(a.publisher, cfg.NATS.AuditSubject, logger)
	gate := access.NewAccessGate(unitOfWork.ActorRepo(), logger)
	queue := jobqueue.NewJobQueue(unitOfWork, a.publisher, auditLog, jobqueue.Config{
		CallTimeout:   cfg.Artifact.JobCallTimeout,
		SubjectPrefix: cfg.NATS.JobsSubjectPrefix,
	}, logger)

	a.Artifacts = artifact.NewArtifactService(artifact.Dependencies{
		UoW:    unitOfWork,
		Gate:   gate,
		Store:  store,
		Queue:  queue,
		Signer: signer,
		Guard:  guard,
		Audit:  auditLog,
		Logger: logger,
	}, artifact.Config{
		CallTimeout:   cfg.Minio.CallTimeout,
		DeliveryTTL:   cfg.Delivery.TTL,
		GuardTTL:      cfg.Artifact.GuardTTL,
		TriggerOnMiss: cfg.Artifact.TriggerOnMiss,
	})
	a.Ingestion = ingestion.NewIngestionService(unitOfWork, gate, store, queue, auditLog, cfg.Buckets.Upload, cfg.Upload, logger)
	a.Deletion = deletion.NewDeletionService(unitOfWork, gate, store, auditLog, deletion.Config{
		UploadPrefix: cfg.Upload.Prefix,
		OutputBucket: cfg.Buckets.Output,
	}, logger)
	a.Cleanup = cleanup.NewCleanupService(unitOfWork, store, auditLog, logger)

	return a, nil
}

// Close releases every connection Build opened
func (a *App) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.guard != nil {
		errs = append(errs, a.guard.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

// InitDB opens and pings postgres
func InitDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}

// DSN is the lib/pq keyword connection string for cfg
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}
