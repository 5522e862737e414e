package artifact

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

// Config holds the pipeline settings
type Config struct {
	CallTimeout   time.Duration
	DeliveryTTL   time.Duration
	GuardTTL      time.Duration
	TriggerOnMiss bool
}

// Dependencies are the collaborators of the pipeline. Guard is optional.
type Dependencies struct {
	UoW    port.UnitOfWork
	Gate   port.AccessGate
	Store  port.ObjectStore
	Queue  port.JobQueue
	Signer port.DeliverySigner
	Guard  port.DispatchGuard
	Audit  port.AuditLog
	Logger *slog.Logger
}

type artifactService struct {
	uow    port.UnitOfWork
	gate   port.AccessGate
	store  port.ObjectStore
	queue  port.JobQueue
	signer port.DeliverySigner
	guard  port.DispatchGuard
	audit  port.AuditLog
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewArtifactService creates the artifact pipeline
func NewArtifactService(deps Dependencies, cfg Config) port.ArtifactService {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 3 * time.Second
	}
	if cfg.DeliveryTTL <= 0 {
		cfg.DeliveryTTL = 15 * time.Minute
	}
	if cfg.GuardTTL <= 0 {
		cfg.GuardTTL = 30 * time.Second
	}
	guard := deps.Guard
	if guard == nil {
		guard = openGuard{}
	}
	return &artifactService{
		uow:    deps.UoW,
		gate:   deps.Gate,
		store:  deps.Store,
		queue:  deps.Queue,
		signer: deps.Signer,
		guard:  guard,
		audit:  deps.Audit,
		cfg:    cfg,
		logger: deps.Logger,
		now:    time.Now,
	}
}

// openGuard always lets dispatch through
type openGuard struct{}

func (openGuard) Acquire(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (openGuard) Release(context.Context, string) error { return nil }

func (s *artifactService) findAsset(ctx context.Context, assetID int64) (*domain.Asset, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	asset, err := s.uow.AssetRepo().FindByID(callCtx, assetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: find asset %d: %w", domain.ErrUpstreamUnavailable, assetID, err)
	}
	return asset, nil
}

// authorizedAsset loads the asset and runs the gate. Any gate error is a deny.
func (s *artifactService) authorizedAsset(ctx context.Context, actorID, assetID int64, need domain.Capability) (*domain.Asset, domain.Grant, error) {
	asset, err := s.findAsset(ctx, assetID)
	if err != nil {
		return nil, domain.Denied, err
	}

	grant, err := s.gate.Authorize(ctx, actorID, *asset, need)
	if err != nil {
		s.logger.Error("access gate failed", "error", err, "actor_id", actorID, "asset_id", assetID)
		return nil, domain.Denied, err
	}
	if !grant.Allowed() {
		return nil, domain.Denied, fmt.Errorf("%w: actor %d cannot %s asset %d", domain.ErrAccessDenied, actorID, need, assetID)
	}
	return asset, grant, nil
}

// probe returns nil, nil on a miss. A failed or timed-out probe is an error, never a miss.
func (s *artifactService) probe(ctx context.Context, ptr domain.ObjectPointer) (*domain.ObjectInfo, error) {
	info, err := s.store.Head(ctx, ptr.Bucket, ptr.Key)
	if err != nil {
		if errors.Is(err, domain.ErrObjectNotFound) {
			return nil, nil
		}
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: head %s/%s: %w", domain.ErrUpstreamUnavailable, ptr.Bucket, ptr.Key, err)
	}
	return info, nil
}

func (s *artifactService) record(ctx context.Context, action string, actorID, assetID int64, outcome domain.AuditOutcome, detail map[string]any) {
	s.audit.Record(ctx, domain.AuditEvent{
		ID:         uuid.NewString(),
		Action:     action,
		ActorID:    actorID,
		AssetID:    assetID,
		Outcome:    outcome,
		Detail:     detail,
		OccurredAt: s.now().UTC(),
	})
}

func readyResult(asset domain.Asset, p plan, info *domain.ObjectInfo) *domain.ArtifactResult {
	return &domain.ArtifactResult{
		Status:  domain.ArtifactStatusReady,
		AssetID: asset.ID,
		Type:    p.derivation.Type,
		Bucket:  p.output.Bucket,
		Key:     p.output.Key,
		Info:    info,
	}
}

func pendingResult(asset domain.Asset, p plan, out dispatchOutcome) *domain.ArtifactResult {
	res := &domain.ArtifactResult{
		Status:   domain.ArtifactStatusPending,
		AssetID:  asset.ID,
		Type:     p.derivation.Type,
		Bucket:   p.output.Bucket,
		Key:      p.output.Key,
		Enqueued: out.enqueued,
	}
	if out.job != nil {
		res.JobID = out.job.ID
	}
	return res
}
