package ingestion

import (
	"context"
	"errors"
	"media-pipeline/internal/core/domain"
)

// CompleteFromStorageEvent completes the asset a storage notification points at. Events for
// unknown or already completed objects are acknowledged.
func (s *ingestionService) CompleteFromStorageEvent(ctx context.Context, notification domain.UploadNotification) error {
	asset, err := s.uow.AssetRepo().FindByLocation(ctx, notification.Bucket, notification.ObjectKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("upload event for unknown object", "bucket", notification.Bucket, "key", notification.ObjectKey)
			return nil
		}
		return err
	}

	// storage events carry no actor, the owner stands in
	var actorID int64
	if asset.OwnerID != nil {
		actorID = *asset.OwnerID
	}

	if _, err := s.complete(ctx, actorID, *asset); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Info("upload already completed", "asset_id", asset.ID)
			return nil
		}
		return err
	}
	return nil
}
