package domain

import "time"

// AuditOutcome is how an audited operation ended
type AuditOutcome string

const (
	AuditOutcomeOK      AuditOutcome = "ok"
	AuditOutcomeError   AuditOutcome = "error"
	AuditOutcomePartial AuditOutcome = "partial"
)

// Audited actions
const (
	AuditActionArtifactEnqueue    = "artifact.enqueue"
	AuditActionJobNotify          = "job.notify"
	AuditActionUploadGrant        = "asset.upload_grant"
	AuditActionUploadComplete     = "asset.upload_complete"
	AuditActionAssetDelete        = "asset.delete"
	AuditActionAssetPurgeSource   = "asset.purge_source"
	AuditActionStaleUploadCleanup = "asset.stale_upload_cleanup"
)

// AuditEvent is one entry of the operational audit trail
type AuditEvent struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	ActorID    int64          `json:"actorId,omitempty"`
	AssetID    int64          `json:"assetId,omitempty"`
	Outcome    AuditOutcome   `json:"outcome"`
	Detail     map[string]any `json:"detail,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}
