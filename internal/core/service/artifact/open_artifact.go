package artifact

import (
	"context"
	"errors"
	"fmt"
	"media-pipeline/internal/core/domain"
)

// OpenArtifact streams a stored artifact. rangeHeader is passed to the store untouched.
func (s *artifactService) OpenArtifact(ctx context.Context, actorID, assetID int64, artifactType domain.ArtifactType, params domain.ArtifactParams, rangeHeader string) (*domain.ObjectStream, error) {
	asset, _, err := s.authorizedAsset(ctx, actorID, assetID, domain.CapabilityRead)
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

	stream, err := s.store.Open(ctx, p.output.Bucket, p.output.Key, rangeHeader)
	if err != nil {
		if errors.Is(err, domain.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotReady, p.output.Key)
		}
		return nil, err
	}
	return stream, nil
}
