package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"media-pipeline/internal/config"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ingestionService struct {
	uow       port.UnitOfWork
	gate      port.AccessGate
	store     port.ObjectStore
	queue     port.JobQueue
	audit     port.AuditLog
	bucket    string
	uploadCfg config.UploadConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewIngestionService creates a new ingestion gateway writing into bucket
func NewIngestionService(uow port.UnitOfWork, gate port.AccessGate, store port.ObjectStore, queue port.JobQueue, audit port.AuditLog, bucket string, cfg config.UploadConfig, logger *slog.Logger) port.IngestionService {
	return &ingestionService{
		uow:       uow,
		gate:      gate,
		store:     store,
		queue:     queue,
		audit:     audit,
		bucket:    bucket,
		uploadCfg: cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// AllowedMediaMimeTypes is a whitelist of supported MIME types and their extensions, per kind.
// This is deterministic and does NOT rely on OS mime databases (Docker-safe).
var AllowedMediaMimeTypes = map[domain.AssetKind]map[string][]string{
	domain.AssetKindImage: {
		"image/jpeg": {".jpg", ".jpeg"},
		"image/png":  {".png"},
		"image/webp": {".webp"},
		"image/gif":  {".gif"},
		"image/bmp":  {".bmp"},
		"image/tiff": {".tif", ".tiff"},
		"image/heic": {".heic"},
		"image/heif": {".heif"},
	},
	domain.AssetKindVideo: {
		"video/mp4":        {".mp4", ".m4v"},
		"video/webm":       {".webm"},
		"video/quicktime":  {".mov"},
		"video/x-msvideo":  {".avi"},
		"video/x-matroska": {".mkv"},
		"video/ogg":        {".ogv"},
		"video/3gpp":       {".3gp"},
	},
	domain.AssetKindAudio: {
		"audio/mpeg":  {".mp3"},
		"audio/wav":   {".wav"},
		"audio/x-wav": {".wav"},
		"audio/aac":   {".aac"},
		"audio/mp4":   {".m4a"},
		"audio/ogg":   {".ogg", ".oga"},
		"audio/flac":  {".flac"},
		"audio/webm":  {".weba", ".webm"},
	},
}

const svgMimeType = "image/svg+xml"

func validateMediaFile(kind domain.AssetKind, filename, contentType string) (string, error) {
	mimeType := extractMimeType(contentType)
	if mimeType == "" {
		return "", fmt.Errorf("%w: invalid content type: %s", domain.ErrInvalidFileType, contentType)
	}

	// 1. SVG is never accepted, whatever the declared kind
	if mimeType == svgMimeType || strings.EqualFold(filepath.Ext(filename), ".svg") {
		return "", fmt.Errorf("%w: %s", domain.ErrSVGRejected, filename)
	}

	// 2. MIME must be explicitly allowed for the kind
	allowed, ok := AllowedMediaMimeTypes[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidFileType, kind)
	}
	allowedExts, ok := allowed[mimeType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported MIME type for %s: %s", domain.ErrInvalidFileType, kind, mimeType)
	}

	// 3. Validate extension against allowed extensions
	if err := validateExtension(filename, allowedExts); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidFileType, err)
	}

	return mimeType, nil
}

func validateExtension(filename string, allowedExts []string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fmt.Errorf("no file extension found")
	}

	for _, allowed := range allowedExts {
		if ext == allowed {
			return nil
		}
	}

	return fmt.Errorf(
		"extension %s is not allowed (expected one of: %v)",
		ext, allowedExts,
	)
}

func extractMimeType(contentType string) string {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mimeType
}

// validateRole checks the role may be uploaded by a client and fits the kind
func validateRole(role domain.AssetRole, kind domain.AssetKind) error {
	if !role.ClientUploadable() {
		return fmt.Errorf("%w: %s", domain.ErrRoleNotAllowed, role)
	}
	switch role {
	case domain.AssetRoleNarration:
		if kind != domain.AssetKindAudio {
			return fmt.Errorf("%w: narration must be audio", domain.ErrRoleNotAllowed)
		}
	case domain.AssetRoleLogo:
		if kind != domain.AssetKindImage {
			return fmt.Errorf("%w: logo must be an image", domain.ErrRoleNotAllowed)
		}
	}
	return nil
}

const maxFilenameLength = 128

// sanitizeFilename keeps the base name and replaces anything outside [A-Za-z0-9._-]
func sanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), ".")
	if len(name) > maxFilenameLength {
		name = name[len(name)-maxFilenameLength:]
	}
	if name == "" {
		return "file"
	}
	return name
}

func (s *ingestionService) resolveActor(ctx context.Context, actorID int64) (*domain.Actor, error) {
	if actorID <= 0 {
		return nil, fmt.Errorf("%w: anonymous upload", domain.ErrAccessDenied)
	}
	actor, err := s.uow.ActorRepo().FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown actor %d", domain.ErrAccessDenied, actorID)
		}
		return nil, fmt.Errorf("%w: find actor %d: %w", domain.ErrUpstreamUnavailable, actorID, err)
	}
	return actor, nil
}

func (s *ingestionService) record(ctx context.Context, action string, actorID, assetID int64, outcome domain.AuditOutcome, detail map[string]any) {
	s.audit.Record(ctx, domain.AuditEvent{
		ID:         uuid.NewString(),
		Action:     action,
		ActorID:    actorID,
		AssetID:    assetID,
		Outcome:    outcome,
		Detail:     detail,
		OccurredAt: s.now().UTC(),
	})
}
