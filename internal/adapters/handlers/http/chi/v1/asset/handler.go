package asset

import (
	"encoding/json"
	"errors"
	"log/slog"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// RequestTimeout bounds every route but the content stream
	RequestTimeout = 60 * time.Second
	// StreamTimeout bounds un-ranged artifact downloads
	StreamTimeout = time.Hour
)

// HandlerV1 is the handler for v1 asset routes
type HandlerV1 struct {
	artifacts port.ArtifactService
	ingestion port.IngestionService
	deletion  port.DeletionService
	logger    *slog.Logger
}

// NewAssetHandlerV1 creates HandlerV1
func NewAssetHandlerV1(artifacts port.ArtifactService, ingestion port.IngestionService, deletion port.DeletionService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		artifacts: artifacts,
		ingestion: ingestion,
		deletion:  deletion,
		logger:    logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.Timeout(RequestTimeout)).Post("/uploads", h.CreateUploadGrantV1)
	router.Route("/{assetID}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(RequestTimeout))
			r.Delete("/", h.DeleteAssetV1)
			r.Post("/complete", h.CompleteUploadV1)
			r.Post("/purge-source", h.PurgeSourceV1)
			r.Get("/artifacts/{type}", h.GetArtifactV1)
			r.Get("/artifacts/{type}/delivery-url", h.DeliveryURLV1)
		})
		r.With(middleware.Timeout(StreamTimeout)).Get("/artifacts/{type}/content", h.OpenArtifactV1)
	})

	return router
}

func assetIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "assetID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid asset id")
	}
	return id, nil
}

// artifactParams reads px, at and interval. Absent values stay zero so defaults apply.
func artifactParams(r *http.Request) (domain.ArtifactType, domain.ArtifactParams, error) {
	var params domain.ArtifactParams
	q := r.URL.Query()

	if v := q.Get("px"); v != "" {
		px, err := strconv.Atoi(v)
		if err != nil {
			return "", params, errors.New("invalid px")
		}
		params.LongEdgePx = px
	}
	if v := q.Get("at"); v != "" {
		at, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", params, errors.New("invalid at")
		}
		params.AtSeconds = at
	}
	if v := q.Get("interval"); v != "" {
		interval, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", params, errors.New("invalid interval")
		}
		params.IntervalSeconds = interval
	}

	return domain.ArtifactType(chi.URLParam(r, "type")), params, nil
}

// writeError maps the domain error classes to status codes
func (h *HandlerV1) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("request failed", "op", op, "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}
}

func (h *HandlerV1) writeJSON(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
