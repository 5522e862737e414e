package asset

import (
	"encoding/json"
	"media-pipeline/internal/adapters/handlers/http/chi/auth"
	"media-pipeline/internal/core/domain"
	"net/http"
	"time"
)

// V1UploadGrantRequest is the request to upload a media file
type V1UploadGrantRequest struct {
	FileName    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Kind        string `json:"kind"`
	Role        string `json:"role,omitempty"`
	OwnerUserID *int64 `json:"owner_user_id,omitempty"`
}

// V1UploadGrantResponse is the presigned form the client posts the file with
type V1UploadGrantResponse struct {
	AssetID   int64             `json:"asset_id"`
	Bucket    string            `json:"bucket"`
	Key       string            `json:"key"`
	URL       string            `json:"url"`
	Fields    map[string]string `json:"fields"`
	ExpiresAt time.Time         `json:"expires_at"`
}

func (h *HandlerV1) CreateUploadGrantV1(w http.ResponseWriter, r *http.Request) {
	var req V1UploadGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.FileName == "" || req.ContentType == "" || req.Kind == "" {
		http.Error(w, "missing param", http.StatusBadRequest)
		return
	}

	grant, err := h.ingestion.CreateUploadGrant(r.Context(), domain.UploadGrantRequest{
		ActorID:     auth.ActorIDFromContext(r.Context()),
		OwnerUserID: req.OwnerUserID,
		Filename:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		Kind:        domain.AssetKind(req.Kind),
		Role:        domain.AssetRole(req.Role),
	})
	if err != nil {
		h.writeError(w, "create_upload_grant", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, V1UploadGrantResponse{
		AssetID:   grant.AssetID,
		Bucket:    grant.Bucket,
		Key:       grant.Key,
		URL:       grant.URL,
		Fields:    grant.Fields,
		ExpiresAt: grant.ExpiresAt,
	})
}
