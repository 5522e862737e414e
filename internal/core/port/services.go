package port

import (
	"context"
	"media-pipeline/internal/core/domain"
)

// ArtifactService is the generation-on-miss pipeline
type ArtifactService interface {
	GetOrQueueArtifact(ctx context.Context, actorID, assetID int64, artifactType domain.ArtifactType, params domain.ArtifactParams) (*domain.ArtifactResult, error)
	OpenArtifact(ctx context.Context, actorID, assetID int64, artifactType domain.ArtifactType, params domain.ArtifactParams, rangeHeader string) (*domain.ObjectStream, error)
	IssueDeliveryURL(ctx context.Context, actorID, assetID int64, artifactType domain.ArtifactType, params domain.ArtifactParams) (*domain.DeliveryURL, error)
	Backfill(ctx context.Context, actorID int64, artifactType domain.ArtifactType, limit int) (*domain.BackfillReport, error)
}

// DeletionService deletes asset trees across buckets
type DeletionService interface {
	DeleteAssetTree(ctx context.Context, asset domain.Asset) (*domain.DeletionReport, error)
	DeleteAsset(ctx context.Context, actorID, assetID int64) (*domain.DeletionReport, error)
	PurgeSource(ctx context.Context, actorID, assetID int64) (*domain.DeletionReport, error)
}

// IngestionService issues upload grants and completes uploads
type IngestionService interface {
	CreateUploadGrant(ctx context.Context, req domain.UploadGrantRequest) (*domain.UploadGrant, error)
	MarkUploadComplete(ctx context.Context, actorID, assetID int64, completion domain.UploadCompletion) (*domain.CompletionResult, error)
	CompleteFromStorageEvent(ctx context.Context, notification domain.UploadNotification) error
}
