package asset

import (
	"encoding/json"
	"errors"
	"io"
	"media-pipeline/internal/adapters/handlers/http/chi/auth"
	"media-pipeline/internal/core/domain"
	"net/http"
)

// V1CompleteUploadRequest is what the client reports once the transfer is done
type V1CompleteUploadRequest struct {
	SizeBytes int64  `json:"size_bytes"`
	ETag      string `json:"etag"`
}

type V1Job struct {
	ID     int64  `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// V1CompleteUploadResponse lists the generation jobs queued for the asset
type V1CompleteUploadResponse struct {
	AssetID int64   `json:"asset_id"`
	Status  string  `json:"status"`
	Jobs    []V1Job `json:"jobs"`
}

func (h *HandlerV1) CompleteUploadV1(w http.ResponseWriter, r *http.Request) {
	assetID, err := assetIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// the body is optional
	var req V1CompleteUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.ingestion.MarkUploadComplete(r.Context(), auth.ActorIDFromContext(r.Context()), assetID, domain.UploadCompletion{
		SizeBytes: req.SizeBytes,
		ETag:      req.ETag,
	})
	if err != nil {
		h.writeError(w, "complete_upload", err)
		return
	}

	resp := V1CompleteUploadResponse{AssetID: result.AssetID, Status: string(result.Status), Jobs: []V1Job{}}
	for _, job := range result.Jobs {
		resp.Jobs = append(resp.Jobs, V1Job{ID: job.ID, Type: string(job.Type), Status: string(job.Status)})
	}
	h.writeJSON(w, http.StatusOK, resp)
}
