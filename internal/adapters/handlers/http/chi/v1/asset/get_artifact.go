package asset

import (
	"media-pipeline/internal/adapters/handlers/http/chi/auth"
	"media-pipeline/internal/core/domain"
	"net/http"
)

// V1ArtifactResponse is the cache lookup outcome. Pending responses carry the job id.
type V1ArtifactResponse struct {
	Status   string `json:"status"`
	AssetID  int64  `json:"asset_id"`
	Type     string `json:"type"`
	Key      string `json:"key"`
	Size     int64  `json:"size,omitempty"`
	ETag     string `json:"etag,omitempty"`
	JobID    int64  `json:"job_id,omitempty"`
	Enqueued bool   `json:"enqueued"`
}

func (h *HandlerV1) GetArtifactV1(w http.ResponseWriter, r *http.Request) {
	assetID, err := assetIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	artifactType, params, err := artifactParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.artifacts.GetOrQueueArtifact(r.Context(), auth.ActorIDFromContext(r.Context()), assetID, artifactType, params)
	if err != nil {
		h.writeError(w, "get_artifact", err)
		return
	}

	resp := V1ArtifactResponse{
		Status:   string(result.Status),
		AssetID:  result.AssetID,
		Type:     string(result.Type),
		Key:      result.Key,
		JobID:    result.JobID,
		Enqueued: result.Enqueued,
	}
	if result.Info != nil {
		resp.Size = result.Info.Size
		resp.ETag = result.Info.ETag
	}

	status := http.StatusOK
	if result.Status == domain.ArtifactStatusPending {
		status = http.StatusAccepted
	}
	h.writeJSON(w, status, resp)
}
