package domain

import "time"

// JobType is the worker contract name of a job
type JobType string

const (
	JobTypeUploadThumb           JobType = "upload_thumb_v1"
	JobTypeUploadEditProxy       JobType = "upload_edit_proxy_v1"
	JobTypeUploadAudioEnvelope   JobType = "upload_audio_envelope_v1"
	JobTypeUploadFreezeFrame     JobType = "upload_freeze_frame_v1"
	JobTypeUploadTimelineSprites JobType = "upload_timeline_sprites_v1"
)

// JobTypeFor maps an artifact type to the job that produces it
func JobTypeFor(t ArtifactType) (JobType, bool) {
	switch t {
	case ArtifactThumbnail:
		return JobTypeUploadThumb, true
	case ArtifactEditProxy:
		return JobTypeUploadEditProxy, true
	case ArtifactAudioEnvelope:
		return JobTypeUploadAudioEnvelope, true
	case ArtifactFreezeFrame:
		return JobTypeUploadFreezeFrame, true
	case ArtifactTimeline:
		return JobTypeUploadTimelineSprites, true
	}
	return "", false
}

// JobStatus represents the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusDead       JobStatus = "dead"
)

// Active reports whether a job still counts as in flight
func (s JobStatus) Active() bool {
	return s == JobStatusPending || s == JobStatusProcessing
}

// DefaultJobMaxAttempts is the retry budget given to workers
const DefaultJobMaxAttempts = 3

// JobInput is the payload handed to workers
type JobInput struct {
	AssetID int64          `json:"assetId"`
	UserID  int64          `json:"userId"`
	Source  ObjectPointer  `json:"source"`
	Output  ObjectPointer  `json:"output"`
	Params  ArtifactParams `json:"params"`
	Fps     int            `json:"fps,omitempty"`
	Gop     int            `json:"gop,omitempty"`
}

// Job represents a queued unit of work
type Job struct {
	ID           int64
	Type         JobType
	Status       JobStatus
	Priority     int
	Attempts     int
	MaxAttempts  int
	RunAfter     time.Time
	Input        JobInput
	ErrorCode    string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// JobMatch identifies one derivation tuple. Two jobs with the same match target the same
// output object, so only one of them may be active at a time.
type JobMatch struct {
	Type      JobType
	AssetID   int64
	OutputKey string
}

// MatchFor builds the match of a job input
func MatchFor(jobType JobType, input JobInput) JobMatch {
	return JobMatch{Type: jobType, AssetID: input.AssetID, OutputKey: input.Output.Key}
}

// Matches reports whether job is active and targets the same tuple
func (m JobMatch) Matches(job Job) bool {
	return job.Type == m.Type &&
		job.Status.Active() &&
		job.Input.AssetID == m.AssetID &&
		job.Input.Output.Key == m.OutputKey
}

// Containment returns the jsonb containment document of the payload part of the match
func (m JobMatch) Containment() map[string]any {
	return map[string]any{
		"assetId": m.AssetID,
		"output":  map[string]any{"key": m.OutputKey},
	}
}
