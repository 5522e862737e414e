package deletion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
	"time"

	"github.com/google/uuid"
)

const (
	defaultPageSize  = 1000
	defaultBatchSize = 500

	cancelReason = "asset_deleted"
)

// Config holds the bucket layout the coordinator clears
type Config struct {
	UploadPrefix string
	OutputBucket string
	PageSize     int
	BatchSize    int
}

type deletionService struct {
	uow    port.UnitOfWork
	gate   port.AccessGate
	store  port.ObjectStore
	audit  port.AuditLog
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewDeletionService creates the bulk deletion coordinator
func NewDeletionService(uow port.UnitOfWork, gate port.AccessGate, store port.ObjectStore, audit port.AuditLog, cfg Config, logger *slog.Logger) port.DeletionService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > cfg.PageSize {
		cfg.BatchSize = defaultBatchSize
	}
	return &deletionService{
		uow:    uow,
		gate:   gate,
		store:  store,
		audit:  audit,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (s *deletionService) authorizedAsset(ctx context.Context, actorID, assetID int64) (*domain.Asset, error) {
	asset, err := s.uow.AssetRepo().FindByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: find asset %d: %w", domain.ErrUpstreamUnavailable, assetID, err)
	}

	grant, err := s.gate.Authorize(ctx, actorID, *asset, domain.CapabilityDelete)
	if err != nil {
		return nil, err
	}
	if !grant.Allowed() {
		return nil, fmt.Errorf("%w: actor %d cannot delete asset %d", domain.ErrAccessDenied, actorID, assetID)
	}
	return asset, nil
}

func (s *deletionService) record(ctx context.Context, action string, actorID, assetID int64, report *domain.DeletionReport) {
	outcome := domain.AuditOutcomeOK
	if !report.Clean() {
		outcome = domain.AuditOutcomePartial
	}
	s.audit.Record(ctx, domain.AuditEvent{
		ID:      uuid.NewString(),
		Action:  action,
		ActorID: actorID,
		AssetID: assetID,
		Outcome: outcome,
		Detail: map[string]any{
			"deleted": report.Deleted,
			"errors":  report.Errors,
		},
		OccurredAt: s.now().UTC(),
	})
}
