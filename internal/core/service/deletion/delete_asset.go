package deletion

import (
	"context"
	"fmt"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
)

// DeleteAsset removes the objects of an asset and, only when none are left behind, its row.
// Active jobs are cancelled in the same transaction as the row delete.
func (s *deletionService) DeleteAsset(ctx context.Context, actorID, assetID int64) (*domain.DeletionReport, error) {
	asset, err := s.authorizedAsset(ctx, actorID, assetID)
	if err != nil {
		return nil, err
	}

	report, treeErr := s.DeleteAssetTree(ctx, *asset)
	if treeErr != nil {
		s.record(ctx, domain.AuditActionAssetDelete, actorID, assetID, report)
		return report, treeErr
	}

	err = s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		cancelled, err := uow.JobRepo().CancelActiveForAsset(ctx, assetID, cancelReason)
		if err != nil {
			return err
		}
		if cancelled > 0 {
			s.logger.Info("cancelled active jobs", "asset_id", assetID, "count", cancelled)
		}
		return uow.AssetRepo().Delete(ctx, assetID)
	})
	if err != nil {
		return report, fmt.Errorf("%w: delete asset row %d: %w", domain.ErrUpstreamUnavailable, assetID, err)
	}

	report.RowDeleted = true
	s.record(ctx, domain.AuditActionAssetDelete, actorID, assetID, report)
	return report, nil
}
