package deletion

import (
	"context"
	"fmt"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
)

// PurgeSource deletes the objects of an asset but keeps its row, tombstoned
func (s *deletionService) PurgeSource(ctx context.Context, actorID, assetID int64) (*domain.DeletionReport, error) {
	asset, err := s.authorizedAsset(ctx, actorID, assetID)
	if err != nil {
		return nil, err
	}

	report, treeErr := s.DeleteAssetTree(ctx, *asset)
	if treeErr != nil {
		s.record(ctx, domain.AuditActionAssetPurgeSource, actorID, assetID, report)
		return report, treeErr
	}

	err = s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if err := uow.AssetRepo().MarkSourceDeleted(ctx, assetID, s.now().UTC()); err != nil {
			return err
		}
		_, err := uow.JobRepo().CancelActiveForAsset(ctx, assetID, cancelReason)
		return err
	})
	if err != nil {
		return report, fmt.Errorf("%w: tombstone asset %d: %w", domain.ErrUpstreamUnavailable, assetID, err)
	}

	report.Tombstoned = true
	s.record(ctx, domain.AuditActionAssetPurgeSource, actorID, assetID, report)
	return report, nil
}
