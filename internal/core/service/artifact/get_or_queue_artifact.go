package artifact

import (
	"context"
	"fmt"
	"media-pipeline/internal/core/domain"
)

// GetOrQueueArtifact returns the artifact when it is stored, or queues its generation and
// returns pending. It never waits for a job.
func (s *artifactService) GetOrQueueArtifact(ctx context.Context, actorID, assetID int64, artifactType domain.ArtifactType, params domain.ArtifactParams) (*domain.ArtifactResult, error) {
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
	if info != nil {
		return readyResult(*asset, p, info), nil
	}

	return s.dispatch(ctx, actorID, *asset, grant, p)
}
