package artifact

import (
	"context"
	"fmt"
	"media-pipeline/internal/core/domain"
)

const backfillPageSize = 100

// Backfill walks uploaded assets and requests artifactType with default parameters for each
func (s *artifactService) Backfill(ctx context.Context, actorID int64, artifactType domain.ArtifactType, limit int) (*domain.BackfillReport, error) {
	allowed, err := s.gate.HasPermission(ctx, actorID, domain.PermissionManageAnyAsset)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: backfill needs %s", domain.ErrElevatedCapabilityRequired, domain.PermissionManageAnyAsset)
	}

	kinds := applicableKinds(artifactType)
	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownArtifactType, artifactType)
	}

	report := &domain.BackfillReport{Type: artifactType}
	for _, kind := range kinds {
		var afterID int64
		for limit <= 0 || report.Scanned < limit {
			assets, err := s.uow.AssetRepo().ListDispatchable(ctx, kind, afterID, backfillPageSize)
			if err != nil {
				return report, fmt.Errorf("%w: list %s assets: %w", domain.ErrUpstreamUnavailable, kind, err)
			}
			if len(assets) == 0 {
				break
			}

			for _, asset := range assets {
				afterID = asset.ID
				if limit > 0 && report.Scanned >= limit {
					break
				}
				report.Scanned++

				res, err := s.GetOrQueueArtifact(ctx, actorID, asset.ID, artifactType, domain.ArtifactParams{})
				switch {
				case err != nil:
					report.Failed++
					s.logger.Warn("backfill item failed", "error", err, "asset_id", asset.ID, "type", artifactType)
				case res.Status == domain.ArtifactStatusReady:
					report.Ready++
				case res.Enqueued:
					report.Enqueued++
				default:
					report.Pending++
				}
			}

			if len(assets) < backfillPageSize {
				break
			}
		}
	}

	s.logger.Info("backfill completed", "type", artifactType, "scanned", report.Scanned, "enqueued", report.Enqueued, "failed", report.Failed)
	return report, nil
}
