package ingestion

import (
	"context"
	"errors"
	"fmt"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
	"media-pipeline/internal/core/service/artifact"

	"github.com/dustin/go-humanize"
)

// MarkUploadComplete flips a signed asset to uploaded and queues its initial jobs
func (s *ingestionService) MarkUploadComplete(ctx context.Context, actorID, assetID int64, completion domain.UploadCompletion) (*domain.CompletionResult, error) {
	asset, err := s.uow.AssetRepo().FindByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	grant, err := s.gate.Authorize(ctx, actorID, *asset, domain.CapabilityWrite)
	if err != nil {
		return nil, err
	}
	if !grant.Allowed() {
		return nil, fmt.Errorf("%w: actor %d cannot complete asset %d", domain.ErrAccessDenied, actorID, assetID)
	}

	return s.complete(ctx, actorID, *asset)
}

// complete runs the signed to uploaded transition. The status guard in MarkUploaded makes a
// second completion fail with a conflict and enqueue nothing.
func (s *ingestionService) complete(ctx context.Context, actorID int64, asset domain.Asset) (*domain.CompletionResult, error) {
	if asset.Status != domain.AssetStatusSigned {
		return nil, fmt.Errorf("%w: asset %d is %s", domain.ErrInvalidStatusTransition, asset.ID, asset.Status)
	}

	info, err := s.store.Head(ctx, asset.Bucket, asset.Key)
	if err != nil {
		if errors.Is(err, domain.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUploadMissing, asset.Key)
		}
		return nil, err
	}
	if info.Size > s.uploadCfg.MaxSizeBytes {
		return nil, fmt.Errorf("%w: stored object is %s", domain.ErrFileSizeTooBig, humanize.Bytes(uint64(info.Size)))
	}

	ownerID := actorID
	if asset.OwnerID != nil && *asset.OwnerID > 0 {
		ownerID = *asset.OwnerID
	}
	specs, err := artifact.InitialJobs(asset, ownerID)
	if err != nil {
		return nil, err
	}

	var created []domain.Job
	txErr := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.AssetRepo().MarkUploaded(ctx, asset.ID, info.Size); err != nil {
			return err
		}

		for _, spec := range specs {
			job, enqueued, err := s.queue.EnqueueIfAbsent(ctx, uow.JobRepo(), spec.Type, spec.Input)
			if err != nil {
				return err
			}
			if enqueued {
				created = append(created, *job)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.queue.Notify(ctx, created...)

	jobIDs := make([]int64, 0, len(created))
	for _, job := range created {
		jobIDs = append(jobIDs, job.ID)
	}
	s.logger.Info("upload completed", "asset_id", asset.ID, "size", humanize.Bytes(uint64(info.Size)), "jobs", len(created))
	s.record(ctx, domain.AuditActionUploadComplete, actorID, asset.ID, domain.AuditOutcomeOK, map[string]any{
		"size":    info.Size,
		"job_ids": jobIDs,
	})

	return &domain.CompletionResult{
		AssetID: asset.ID,
		Status:  domain.AssetStatusUploaded,
		Jobs:    created,
	}, nil
}
