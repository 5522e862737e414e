package artifact

import (
	"fmt"
	"media-pipeline/internal/core/domain"
)

// JobSpec is a job ready to be enqueued
type JobSpec struct {
	Type  domain.JobType
	Input domain.JobInput
}

// InitialJobs lists the jobs a freshly uploaded asset gets: thumbnail and edit proxy for
// video, envelope for audio, thumbnail for images
func InitialJobs(asset domain.Asset, ownerID int64) ([]JobSpec, error) {
	var types []domain.ArtifactType
	switch asset.Kind {
	case domain.AssetKindVideo:
		types = []domain.ArtifactType{domain.ArtifactThumbnail, domain.ArtifactEditProxy}
	case domain.AssetKindAudio:
		types = []domain.ArtifactType{domain.ArtifactAudioEnvelope}
	case domain.AssetKindImage:
		types = []domain.ArtifactType{domain.ArtifactThumbnail}
	default:
		return nil, fmt.Errorf("%w: kind %q", domain.ErrValidation, asset.Kind)
	}

	specs := make([]JobSpec, 0, len(types))
	for _, t := range types {
		p, err := newPlan(asset, t, domain.ArtifactParams{})
		if err != nil {
			return nil, err
		}
		specs = append(specs, JobSpec{Type: p.jobType, Input: jobInput(asset, ownerID, p)})
	}
	return specs, nil
}
