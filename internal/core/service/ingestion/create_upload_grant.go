package ingestion

import (
	"context"
	"fmt"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// CreateUploadGrant validates the declared upload, inserts a signed asset row and returns
// a presigned POST scoped to its key
func (s *ingestionService) CreateUploadGrant(ctx context.Context, req domain.UploadGrantRequest) (*domain.UploadGrant, error) {
	actor, err := s.resolveActor(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}

	if req.SizeBytes <= 0 {
		return nil, fmt.Errorf("%w: size must be positive", domain.ErrFileSizeTooSmall)
	}
	if req.SizeBytes > s.uploadCfg.MaxSizeBytes {
		return nil, fmt.Errorf("%w: %s exceeds the %s limit", domain.ErrFileSizeTooBig,
			humanize.Bytes(uint64(req.SizeBytes)), humanize.Bytes(uint64(s.uploadCfg.MaxSizeBytes)))
	}

	mimeType, err := validateMediaFile(req.Kind, req.Filename, req.ContentType)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = domain.AssetRoleSource
	}
	if err := validateRole(role, req.Kind); err != nil {
		return nil, err
	}

	manageAny := actor.Has(domain.PermissionManageAnyAsset)
	ownerID := &actor.ID
	isSystem := false

	if role == domain.AssetRoleSystemLibrary {
		if !actor.Has(domain.PermissionManageLibrary) && !manageAny {
			return nil, fmt.Errorf("%w: system library uploads need %s", domain.ErrElevatedCapabilityRequired, domain.PermissionManageLibrary)
		}
		ownerID = nil
		isSystem = true
	} else if req.OwnerUserID != nil && *req.OwnerUserID != actor.ID {
		if !manageAny {
			return nil, fmt.Errorf("%w: uploading for another user", domain.ErrElevatedCapabilityRequired)
		}
		ownerID = req.OwnerUserID
	}

	now := s.now().UTC()
	key := fmt.Sprintf("%s%s/%s/%s", s.uploadCfg.Prefix, now.Format("2006-01-02"), uuid.NewString(), sanitizeFilename(req.Filename))
	expiresAt := now.Add(s.uploadCfg.GrantTTL)

	var assetID int64
	var post *domain.PresignedPost

	txErr := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		var err error
		assetID, err = uow.AssetRepo().Create(ctx, domain.Asset{
			OwnerID:     ownerID,
			Kind:        req.Kind,
			Role:        role,
			Bucket:      s.bucket,
			Key:         key,
			Filename:    req.Filename,
			ContentType: mimeType,
			SizeBytes:   req.SizeBytes,
			Status:      domain.AssetStatusSigned,
			IsSystem:    isSystem,
		})
		if err != nil {
			return err
		}

		post, err = s.store.PresignPost(ctx, domain.PostPolicy{
			Bucket:            s.bucket,
			Key:               key,
			ContentTypePrefix: mimeType,
			MinSizeBytes:      1,
			MaxSizeBytes:      req.SizeBytes,
			ExpiresAt:         expiresAt,
		})
		return err
	})
	if txErr != nil {
		return nil, fmt.Errorf("could not create upload grant: %w", txErr)
	}

	s.logger.Info("upload grant issued", "asset_id", assetID, "actor_id", actor.ID, "key", key, "size", humanize.Bytes(uint64(req.SizeBytes)))
	s.record(ctx, domain.AuditActionUploadGrant, actor.ID, assetID, domain.AuditOutcomeOK, map[string]any{
		"key":  key,
		"kind": req.Kind,
		"role": role,
	})

	return &domain.UploadGrant{
		AssetID:   assetID,
		Bucket:    s.bucket,
		Key:       key,
		URL:       post.URL,
		Fields:    post.Fields,
		ExpiresAt: expiresAt,
	}, nil
}
