package port

import (
	"context"
	"media-pipeline/internal/core/domain"
	"time"
)

// ObjectStore is the capability wrapper around the blob store
type ObjectStore interface {
	Head(ctx context.Context, bucket, key string) (*domain.ObjectInfo, error)
	Open(ctx context.Context, bucket, key, rangeHeader string) (*domain.ObjectStream, error)
	PresignPost(ctx context.Context, policy domain.PostPolicy) (*domain.PresignedPost, error)
	PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	ListPage(ctx context.Context, bucket, prefix, continuationToken string, maxKeys int) (*domain.ObjectPage, error)
	DeleteBatch(ctx context.Context, bucket string, keys []string) error
	DeleteObject(ctx context.Context, bucket, key string) error
}

// DeliverySigner issues URLs the edge can verify on its own
type DeliverySigner interface {
	Sign(ctx context.Context, bucket, key string, expiresAt time.Time) (string, error)
}
