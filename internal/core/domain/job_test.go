package domain_test

import (
	"media-pipeline/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobMatch_Matches(t *testing.T) {
	input := domain.JobInput{AssetID: 42, Output: domain.ObjectPointer{Bucket: "b", Key: "thumb/42/640.jpg"}}
	match := domain.MatchFor(domain.JobTypeUploadThumb, input)

	job := func(typ domain.JobType, status domain.JobStatus, assetID int64, key string) domain.Job {
		return domain.Job{
			Type:   typ,
			Status: status,
			Input:  domain.JobInput{AssetID: assetID, Output: domain.ObjectPointer{Key: key}},
		}
	}

	tests := []struct {
		name string
		job  domain.Job
		want bool
	}{
		{"pending same tuple", job(domain.JobTypeUploadThumb, domain.JobStatusPending, 42, "thumb/42/640.jpg"), true},
		{"processing same tuple", job(domain.JobTypeUploadThumb, domain.JobStatusProcessing, 42, "thumb/42/640.jpg"), true},
		{"completed same tuple", job(domain.JobTypeUploadThumb, domain.JobStatusCompleted, 42, "thumb/42/640.jpg"), false},
		{"dead same tuple", job(domain.JobTypeUploadThumb, domain.JobStatusDead, 42, "thumb/42/640.jpg"), false},
		{"other type", job(domain.JobTypeUploadEditProxy, domain.JobStatusPending, 42, "thumb/42/640.jpg"), false},
		{"other asset", job(domain.JobTypeUploadThumb, domain.JobStatusPending, 43, "thumb/42/640.jpg"), false},
		{"other params", job(domain.JobTypeUploadThumb, domain.JobStatusPending, 42, "thumb/42/320.jpg"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, match.Matches(tt.job))
		})
	}
}

func TestJobMatch_Containment(t *testing.T) {
	match := domain.JobMatch{Type: domain.JobTypeUploadThumb, AssetID: 7, OutputKey: "thumb/7/640.jpg"}

	assert.Equal(t, map[string]any{
		"assetId": int64(7),
		"output":  map[string]any{"key": "thumb/7/640.jpg"},
	}, match.Containment())
}

func TestJobTypeFor(t *testing.T) {
	jt, ok := domain.JobTypeFor(domain.ArtifactTimeline)
	assert.True(t, ok)
	assert.Equal(t, domain.JobTypeUploadTimelineSprites, jt)

	_, ok = domain.JobTypeFor(domain.ArtifactSource)
	assert.False(t, ok)
}

func TestLegacyRoleFromKey(t *testing.T) {
	assert.Equal(t, domain.AssetRoleRenderedExport, domain.LegacyRoleFromKey("uploads/2024-01-01/x/renders/out.mp4"))
	assert.Equal(t, domain.AssetRoleRenderedExport, domain.LegacyRoleFromKey("renders/12/out.mp4"))
	assert.Equal(t, domain.AssetRoleFreezeFrame, domain.LegacyRoleFromKey("images/freeze-frames/uploads/3/t_0_le1080.png"))
	assert.Equal(t, domain.AssetRoleSource, domain.LegacyRoleFromKey("uploads/2024-01-01/x/clip.mp4"))
}

func TestAsset_Dispatchable(t *testing.T) {
	asset := domain.Asset{Status: domain.AssetStatusUploaded}
	assert.True(t, asset.Dispatchable())

	asset.Status = domain.AssetStatusSigned
	assert.False(t, asset.Dispatchable())

	deleted := domain.Asset{Status: domain.AssetStatusCompleted}
	ts := deleted.CreatedAt
	deleted.SourceDeletedAt = &ts
	assert.False(t, deleted.Dispatchable())
}
