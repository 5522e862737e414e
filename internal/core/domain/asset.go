package domain

import (
	"strings"
	"time"
)

// AssetKind represents the media kind of an asset
type AssetKind string

const (
	AssetKindVideo AssetKind = "video"
	AssetKindAudio AssetKind = "audio"
	AssetKindImage AssetKind = "image"
)

// Valid reports whether k is a known kind
func (k AssetKind) Valid() bool {
	switch k {
	case AssetKindVideo, AssetKindAudio, AssetKindImage:
		return true
	}
	return false
}

// AssetRole tags what an asset is used for
type AssetRole string

const (
	AssetRoleSource         AssetRole = "source"
	AssetRoleRenderedExport AssetRole = "rendered_export"
	AssetRoleFreezeFrame    AssetRole = "freeze_frame"
	AssetRoleNarration      AssetRole = "narration"
	AssetRoleSystemLibrary  AssetRole = "system_library"
	AssetRoleLogo           AssetRole = "logo"
)

// ClientUploadable reports whether a client may request an upload grant for this role.
// Rendered exports and freeze frames are produced by workers only.
func (r AssetRole) ClientUploadable() bool {
	switch r {
	case AssetRoleSource, AssetRoleNarration, AssetRoleSystemLibrary, AssetRoleLogo:
		return true
	}
	return false
}

// LegacyRoleFromKey infers a role for rows created before the role column existed.
// Nothing but the repository scan should call it.
func LegacyRoleFromKey(key string) AssetRole {
	switch {
	case strings.Contains(key, "/renders/") || strings.HasPrefix(key, "renders/"):
		return AssetRoleRenderedExport
	case strings.Contains(key, "images/freeze-frames/") || strings.HasPrefix(key, "still/"):
		return AssetRoleFreezeFrame
	default:
		return AssetRoleSource
	}
}

// AssetStatus represents the lifecycle of an asset
type AssetStatus string

const (
	AssetStatusSigned    AssetStatus = "signed"
	AssetStatusUploaded  AssetStatus = "uploaded"
	AssetStatusCompleted AssetStatus = "completed"
)

// Asset represents one uploaded or derived media object
type Asset struct {
	ID              int64
	OwnerID         *int64
	Kind            AssetKind
	Role            AssetRole
	Bucket          string
	Key             string
	Filename        string
	ContentType     string
	SizeBytes       int64
	Status          AssetStatus
	IsSystem        bool
	SourceAssetID   *int64
	SourceDeletedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UploadedAt      *time.Time
}

// Tombstoned reports whether the primary blob was purged
func (a Asset) Tombstoned() bool {
	return a.SourceDeletedAt != nil
}

// Dispatchable reports whether the source blob is in place for workers to read
func (a Asset) Dispatchable() bool {
	return !a.Tombstoned() && (a.Status == AssetStatusUploaded || a.Status == AssetStatusCompleted)
}

// OwnedBy reports whether actorID owns the asset
func (a Asset) OwnedBy(actorID int64) bool {
	return a.OwnerID != nil && *a.OwnerID == actorID
}

// Location returns the asset's own object pointer
func (a Asset) Location() ObjectPointer {
	return ObjectPointer{Bucket: a.Bucket, Key: a.Key}
}
