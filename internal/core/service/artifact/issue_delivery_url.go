package artifact

import (
	"context"
	"errors"
	"fmt"
	"media-pipeline/internal/core/domain"
)

// IssueDeliveryURL signs a URL for a stored artifact. It is a read path: a miss fails with
// not found, and only triggers generation when TriggerOnMiss is set.
func (s *artifactService) IssueDeliveryURL(ctx context.Context, actorID, assetID int64, artifactType domain.ArtifactType, params domain.ArtifactParams) (*domain.DeliveryURL, error) {
	asset, grant, err := s.authorizedAsset(ctx, actorID, assetID, domain.CapabilityRead)
	if err != nil {
		return nil, err
	}
	if asset.Tombstoned() {
		return nil, fmt.Errorf("%w: asset %d", domain.ErrSourceDeleted, asset.ID)
	}

	p, err := newPlan(*asset, artifactType, params)
	if err != nil {
		return nil, err
	}

	info, err := s.probe(ctx, p.output)
	if err != nil {
		return nil, err
	}

	if info == nil {
		if artifactType == domain.ArtifactSource {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotReady, p.output.Key)
		}
		if _, err := precondition(*asset, grant, actorID, p); err != nil {
			return nil, err
		}
		if s.cfg.TriggerOnMiss {
			if _, err := s.dispatch(ctx, actorID, *asset, grant, p); err != nil && !errors.Is(err, domain.ErrNotFound) {
				s.logger.Error("delivery miss dispatch failed", "error", err, "asset_id", asset.ID, "key", p.output.Key)
			}
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotReady, p.output.Key)
	}

	expiresAt := s.now().Add(s.cfg.DeliveryTTL)
	url, err := s.signer.Sign(ctx, p.output.Bucket, p.output.Key, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("%w: sign %s: %w", domain.ErrUpstreamUnavailable, p.output.Key, err)
	}

	return &domain.DeliveryURL{URL: url, ExpiresAt: expiresAt}, nil
}
