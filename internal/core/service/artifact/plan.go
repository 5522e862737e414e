package artifact

import (
	"fmt"
	"media-pipeline/internal/core/artifactkey"
	"media-pipeline/internal/core/domain"
)

// plan is everything needed to probe and, on a miss, dispatch one artifact
type plan struct {
	derivation domain.Derivation
	jobType    domain.JobType
	source     domain.ObjectPointer
	output     domain.ObjectPointer
	// proxy is set when the worker reads the edit proxy instead of the source
	proxy *plan
}

func newPlan(asset domain.Asset, t domain.ArtifactType, params domain.ArtifactParams) (plan, error) {
	if t == domain.ArtifactSource {
		return plan{
			derivation: domain.Derivation{Type: t, Key: asset.Key},
			output:     asset.Location(),
		}, nil
	}

	d, err := artifactkey.Derive(asset.ID, t, params)
	if err != nil {
		return plan{}, err
	}
	if !applies(t, asset.Kind) {
		return plan{}, fmt.Errorf("%w: %s on %s asset %d", domain.ErrArtifactNotApplicable, t, asset.Kind, asset.ID)
	}

	jobType, _ := domain.JobTypeFor(t)
	p := plan{
		derivation: d,
		jobType:    jobType,
		source:     asset.Location(),
		output:     domain.ObjectPointer{Bucket: asset.Bucket, Key: d.Key},
	}

	if readsProxy(t, asset.Kind) {
		proxy, err := newPlan(asset, domain.ArtifactEditProxy, domain.ArtifactParams{})
		if err != nil {
			return plan{}, err
		}
		p.source = proxy.output
		p.proxy = &proxy
	}
	return p, nil
}

func applies(t domain.ArtifactType, kind domain.AssetKind) bool {
	for _, k := range applicableKinds(t) {
		if k == kind {
			return true
		}
	}
	return false
}

func applicableKinds(t domain.ArtifactType) []domain.AssetKind {
	switch t {
	case domain.ArtifactThumbnail:
		return []domain.AssetKind{domain.AssetKindVideo, domain.AssetKindImage}
	case domain.ArtifactAudioEnvelope:
		return []domain.AssetKind{domain.AssetKindVideo, domain.AssetKindAudio}
	case domain.ArtifactEditProxy, domain.ArtifactFreezeFrame, domain.ArtifactTimeline:
		return []domain.AssetKind{domain.AssetKindVideo}
	}
	return nil
}

func readsProxy(t domain.ArtifactType, kind domain.AssetKind) bool {
	if kind != domain.AssetKindVideo {
		return false
	}
	switch t {
	case domain.ArtifactAudioEnvelope, domain.ArtifactFreezeFrame, domain.ArtifactTimeline:
		return true
	}
	return false
}

func jobInput(asset domain.Asset, ownerID int64, p plan) domain.JobInput {
	input := domain.JobInput{
		AssetID: asset.ID,
		UserID:  ownerID,
		Source:  p.source,
		Output:  p.output,
		Params:  p.derivation.Params,
	}
	if p.jobType == domain.JobTypeUploadEditProxy {
		input.Fps = artifactkey.EditProxyFps
		input.Gop = artifactkey.EditProxyGop
	}
	return input
}
