package port

import (
	"context"
	"media-pipeline/internal/core/domain"
	"time"
)

// AssetRepository is an interface to define asset repository interactions
type AssetRepository interface {
	Create(ctx context.Context, asset domain.Asset) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Asset, error)
	FindByLocation(ctx context.Context, bucket, key string) (*domain.Asset, error)
	MarkUploaded(ctx context.Context, id int64, sizeBytes int64) error
	MarkSourceDeleted(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	FindStaleSigned(ctx context.Context, before time.Time) ([]domain.Asset, error)
	ListDispatchable(ctx context.Context, kind domain.AssetKind, afterID int64, limit int) ([]domain.Asset, error)
}
