package asset

import (
	"errors"
	"media-pipeline/internal/adapters/handlers/http/chi/auth"
	"media-pipeline/internal/core/domain"
	"net/http"
)

func (h *HandlerV1) DeleteAssetV1(w http.ResponseWriter, r *http.Request) {
	assetID, err := assetIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.deletion.DeleteAsset(r.Context(), auth.ActorIDFromContext(r.Context()), assetID)
	h.writeDeletion(w, "delete_asset", report, err)
}

func (h *HandlerV1) PurgeSourceV1(w http.ResponseWriter, r *http.Request) {
	assetID, err := assetIDParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.deletion.PurgeSource(r.Context(), auth.ActorIDFromContext(r.Context()), assetID)
	h.writeDeletion(w, "purge_source", report, err)
}

// writeDeletion returns the report on success and on partial failure
func (h *HandlerV1) writeDeletion(w http.ResponseWriter, op string, report *domain.DeletionReport, err error) {
	switch {
	case errors.Is(err, domain.ErrPartialDeletion) && report != nil:
		h.logger.Warn("partial deletion", "op", op, "asset_id", report.AssetID, "errors", len(report.Errors))
		h.writeJSON(w, http.StatusServiceUnavailable, report)
	case err != nil:
		h.writeError(w, op, err)
	default:
		h.writeJSON(w, http.StatusOK, report)
	}
}
