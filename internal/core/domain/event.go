package domain

import "time"

// MinIOEvent represents a MinIO bucket notification
type MinIOEvent struct {
	EventName string `json:"EventName"`
	Key       string `json:"Key"`
	Records   []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key  string `json:"key"`
				Size int64  `json:"size"`
				ETag string `json:"eTag"`
			} `json:"object"`
		} `json:"s3"`
		EventTime string `json:"eventTime"`
	} `json:"Records"`
}

// EventType is a type that represents the type of a storage event
type EventType string

const (
	EventTypeObjectCreated EventType = "ObjectCreated"
	EventTypeUnknown       EventType = "Unknown"
)

// UploadNotification is a decoded storage upload notification
type UploadNotification struct {
	EventName string
	EventType EventType
	Bucket    string
	ObjectKey string
	Size      int64
	ETag      string
}

// JobNotification wakes workers up after an enqueue
type JobNotification struct {
	JobID      int64     `json:"jobId"`
	Type       JobType   `json:"type"`
	AssetID    int64     `json:"assetId"`
	OutputKey  string    `json:"outputKey"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}
