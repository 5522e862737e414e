package domain

import "time"

// UploadGrantRequest is what a client declares before transferring a byte
type UploadGrantRequest struct {
	ActorID     int64
	OwnerUserID *int64
	Filename    string
	ContentType string
	SizeBytes   int64
	Kind        AssetKind
	Role        AssetRole
}

// PostPolicy constrains a presigned submission to one object
type PostPolicy struct {
	Bucket            string
	Key               string
	ContentTypePrefix string
	MinSizeBytes      int64
	MaxSizeBytes      int64
	ExpiresAt         time.Time
}

// PresignedPost is a ready-to-use browser form submission
type PresignedPost struct {
	URL    string
	Fields map[string]string
}

// UploadGrant is the scoped, time-limited upload credential
type UploadGrant struct {
	AssetID   int64
	Bucket    string
	Key       string
	URL       string
	Fields    map[string]string
	ExpiresAt time.Time
}

// UploadCompletion is what the client reports after transfer
type UploadCompletion struct {
	SizeBytes int64
	ETag      string
}

// CompletionResult lists the jobs queued by a completion
type CompletionResult struct {
	AssetID int64
	Status  AssetStatus
	Jobs    []Job
}
