package cleanup

import (
	"context"
	"errors"
	"media-pipeline/internal/core/domain"
	"time"

	"github.com/google/uuid"
)

// CleanupStaleUploads removes assets whose upload grant was never used
func (c *cleanupService) CleanupStaleUploads(ctx context.Context, before time.Time) error {

	assets, err := c.uow.AssetRepo().FindStaleSigned(ctx, before)
	if err != nil {
		return err
	}

	removed := 0
	for _, asset := range assets {
		if err := c.removeStale(ctx, asset); err != nil {
			c.logger.Error("failed to remove stale upload", "error", err, "asset_id", asset.ID, "key", asset.Key)
			continue
		}
		removed++
	}

	c.logger.Info("stale upload cleanup completed", "found", len(assets), "removed", removed)
	return nil
}

func (c *cleanupService) removeStale(ctx context.Context, asset domain.Asset) error {
	// a late or partial upload may have left an object behind
	if err := c.store.DeleteObject(ctx, asset.Bucket, asset.Key); err != nil && !errors.Is(err, domain.ErrObjectNotFound) {
		return err
	}

	if err := c.uow.AssetRepo().Delete(ctx, asset.ID); err != nil {
		return err
	}

	c.audit.Record(ctx, domain.AuditEvent{
		ID:         uuid.NewString(),
		Action:     domain.AuditActionStaleUploadCleanup,
		AssetID:    asset.ID,
		Outcome:    domain.AuditOutcomeOK,
		Detail:     map[string]any{"key": asset.Key, "created_at": asset.CreatedAt},
		OccurredAt: time.Now().UTC(),
	})
	return nil
}
