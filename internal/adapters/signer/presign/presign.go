// Package presign issues delivery URLs as object-store presigned GETs. It is the fallback
// when no CDN signer is configured.
package presign

import (
	"context"
	"media-pipeline/internal/core/port"
	"time"
)

type Signer struct {
	store port.ObjectStore
	now   func() time.Time
}

func NewSigner(store port.ObjectStore) *Signer {
	return &Signer{store: store, now: time.Now}
}

func (s *Signer) Sign(ctx context.Context, bucket, key string, expiresAt time.Time) (string, error) {
	ttl := expiresAt.Sub(s.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return s.store.PresignGet(ctx, bucket, key, ttl.Round(time.Second))
}
