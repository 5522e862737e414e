package asset

import (
	"io"
	"media-pipeline/internal/adapters/handlers/http/chi/auth"
	"net/http"
	"strconv"
)

// OpenArtifactV1 streams the artifact body, honoring Range
func (h *HandlerV1) OpenArtifactV1(w http.ResponseWriter, r *http.Request) {
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

	stream, err := h.artifacts.OpenArtifact(r.Context(), auth.ActorIDFromContext(r.Context()), assetID, artifactType, params, r.Header.Get("Range"))
	if err != nil {
		h.writeError(w, "open_artifact", err)
		return
	}
	defer stream.Body.Close()

	header := w.Header()
	header.Set("Accept-Ranges", "bytes")
	if stream.ContentType != "" {
		header.Set("Content-Type", stream.ContentType)
	}
	if stream.Size > 0 {
		header.Set("Content-Length", strconv.FormatInt(stream.Size, 10))
	}
	if stream.ETag != "" {
		header.Set("ETag", `"`+stream.ETag+`"`)
	}
	if !stream.LastModified.IsZero() {
		header.Set("Last-Modified", stream.LastModified.UTC().Format(http.TimeFormat))
	}

	status := http.StatusOK
	if stream.Partial {
		header.Set("Content-Range", stream.ContentRange)
		status = http.StatusPartialContent
	}
	w.WriteHeader(status)

	if _, err := io.Copy(w, stream.Body); err != nil {
		h.logger.Warn("artifact stream interrupted", "asset_id", assetID, "type", artifactType, "error", err)
	}
}
