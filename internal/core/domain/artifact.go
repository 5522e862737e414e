package domain

import (
	"io"
	"time"
)

// ArtifactType is a kind of derived artifact
type ArtifactType string

const (
	ArtifactThumbnail     ArtifactType = "thumbnail"
	ArtifactEditProxy     ArtifactType = "edit_proxy"
	ArtifactAudioEnvelope ArtifactType = "audio_envelope"
	ArtifactFreezeFrame   ArtifactType = "freeze_frame"
	ArtifactTimeline      ArtifactType = "timeline"

	// ArtifactSource addresses the asset's own object on read paths
	ArtifactSource ArtifactType = "source"
)

// ArtifactParams are the derivation parameters. Zero values mean "use the default".
type ArtifactParams struct {
	LongEdgePx      int     `json:"longEdgePx,omitempty"`
	AtSeconds       float64 `json:"atSeconds,omitempty"`
	IntervalSeconds float64 `json:"intervalSeconds,omitempty"`
}

// Derivation is the normalized (type, params) pair and the key it resolves to
type Derivation struct {
	Type   ArtifactType
	Params ArtifactParams
	Key    string
}

// ObjectPointer locates one object
type ObjectPointer struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// ObjectInfo is the subset of object metadata the pipeline uses
type ObjectInfo struct {
	Bucket       string
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// ObjectStream is an open object body
type ObjectStream struct {
	Body         io.ReadCloser
	Size         int64
	ContentType  string
	ContentRange string
	ETag         string
	LastModified time.Time
	Partial      bool
}

// ArtifactStatus is the outcome of a cache lookup
type ArtifactStatus string

const (
	ArtifactStatusReady   ArtifactStatus = "ready"
	ArtifactStatusPending ArtifactStatus = "pending"
)

// ArtifactResult is what GetOrQueueArtifact returns. Pending is not an error.
type ArtifactResult struct {
	Status   ArtifactStatus
	AssetID  int64
	Type     ArtifactType
	Bucket   string
	Key      string
	Info     *ObjectInfo
	JobID    int64
	Enqueued bool
}

// DeliveryURL is a signed time-limited URL
type DeliveryURL struct {
	URL       string
	ExpiresAt time.Time
}

// BackfillReport sums up a backfill run
type BackfillReport struct {
	Type     ArtifactType
	Scanned  int
	Ready    int
	Enqueued int
	Pending  int
	Failed   int
}
