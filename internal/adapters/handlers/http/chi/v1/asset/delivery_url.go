package asset

import (
	"media-pipeline/internal/adapters/handlers/http/chi/auth"
	"net/http"
	"time"
)

type V1DeliveryURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *HandlerV1) DeliveryURLV1(w http.ResponseWriter, r *http.Request) {
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

	delivery, err := h.artifacts.IssueDeliveryURL(r.Context(), auth.ActorIDFromContext(r.Context()), assetID, artifactType, params)
	if err != nil {
		h.writeError(w, "delivery_url", err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1DeliveryURLResponse{URL: delivery.URL, ExpiresAt: delivery.ExpiresAt})
}
