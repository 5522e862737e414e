package artifact

import (
	"context"
	"fmt"
	"media-pipeline/internal/core/domain"
)

type dispatchOutcome struct {
	job      *domain.Job
	enqueued bool
	// info is set when the output showed up while dispatching
	info *domain.ObjectInfo
}

// precondition checks that a job for asset could ever succeed and returns the user the
// job runs for
func precondition(asset domain.Asset, grant domain.Grant, actorID int64, p plan) (int64, error) {
	if p.jobType == "" {
		return 0, fmt.Errorf("%w: %s is never generated", domain.ErrArtifactUnavailable, p.derivation.Type)
	}
	if asset.Tombstoned() {
		return 0, fmt.Errorf("%w: asset %d", domain.ErrSourceDeleted, asset.ID)
	}
	if !asset.Dispatchable() {
		return 0, fmt.Errorf("%w: asset %d is %s", domain.ErrArtifactUnavailable, asset.ID, asset.Status)
	}
	if asset.OwnerID != nil && *asset.OwnerID > 0 {
		return *asset.OwnerID, nil
	}
	if grant.Kind == domain.GrantAdmin {
		return actorID, nil
	}
	return 0, fmt.Errorf("%w: asset %d has no resolvable owner", domain.ErrArtifactUnavailable, asset.ID)
}

// dispatch runs the miss path: precondition, proxy dependency, then ensureJob
func (s *artifactService) dispatch(ctx context.Context, actorID int64, asset domain.Asset, grant domain.Grant, p plan) (*domain.ArtifactResult, error) {
	ownerID, err := precondition(asset, grant, actorID, p)
	if err != nil {
		return nil, err
	}

	if p.proxy != nil {
		proxyInfo, err := s.probe(ctx, p.proxy.output)
		if err != nil {
			return nil, err
		}
		if proxyInfo == nil {
			out, err := s.ensureJob(ctx, actorID, asset, ownerID, *p.proxy)
			if err != nil {
				return nil, err
			}
			if out.info == nil {
				return pendingResult(asset, p, out), nil
			}
			// proxy landed between probes
		}
	}

	out, err := s.ensureJob(ctx, actorID, asset, ownerID, p)
	if err != nil {
		return nil, err
	}
	if out.info != nil {
		return readyResult(asset, p, out.info), nil
	}
	return pendingResult(asset, p, out), nil
}

// ensureJob returns the active job for p, or enqueues one. The lookup and the insert are
// not atomic; the second probe and the guard narrow the window without blocking. The guard
// is released as soon as the insert returns.
func (s *artifactService) ensureJob(ctx context.Context, actorID int64, asset domain.Asset, ownerID int64, p plan) (dispatchOutcome, error) {
	input := jobInput(asset, ownerID, p)

	existing, err := s.queue.FindPending(ctx, domain.MatchFor(p.jobType, input))
	if err != nil {
		return dispatchOutcome{}, err
	}
	if existing != nil {
		return dispatchOutcome{job: existing}, nil
	}

	info, err := s.probe(ctx, p.output)
	if err != nil {
		return dispatchOutcome{}, err
	}
	if info != nil {
		return dispatchOutcome{info: info}, nil
	}

	guardKey := fmt.Sprintf("dispatch:%s:%d:%s", p.jobType, asset.ID, p.output.Key)
	acquired, err := s.guard.Acquire(ctx, guardKey, s.cfg.GuardTTL)
	if err != nil {
		s.logger.Warn("dispatch guard unavailable, dispatching anyway", "error", err, "key", guardKey)
		acquired = true
	}
	if !acquired {
		return dispatchOutcome{}, nil
	}
	// once the row exists FindPending covers the tuple, so the guard only spans the insert
	defer func() {
		if relErr := s.guard.Release(ctx, guardKey); relErr != nil {
			s.logger.Warn("failed to release dispatch guard", "error", relErr, "key", guardKey)
		}
	}()

	// a holder that released before we acquired has committed its row by now
	existing, err = s.queue.FindPending(ctx, domain.MatchFor(p.jobType, input))
	if err != nil {
		return dispatchOutcome{}, err
	}
	if existing != nil {
		return dispatchOutcome{job: existing}, nil
	}

	job, err := s.queue.Enqueue(ctx, p.jobType, input)
	if err != nil {
		s.record(ctx, domain.AuditActionArtifactEnqueue, actorID, asset.ID, domain.AuditOutcomeError, map[string]any{
			"job_type":   p.jobType,
			"output_key": p.output.Key,
			"error":      err.Error(),
		})
		return dispatchOutcome{}, err
	}

	s.logger.Info("artifact generation queued", "asset_id", asset.ID, "job_id", job.ID, "job_type", p.jobType, "key", p.output.Key)
	s.record(ctx, domain.AuditActionArtifactEnqueue, actorID, asset.ID, domain.AuditOutcomeOK, map[string]any{
		"job_id":     job.ID,
		"job_type":   p.jobType,
		"output_key": p.output.Key,
	})
	return dispatchOutcome{job: job, enqueued: true}, nil
}
