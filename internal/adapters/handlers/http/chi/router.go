package chi

import (
	"encoding/json"
	"log/slog"
	"media-pipeline/internal/adapters/handlers/http/chi/auth"
	"media-pipeline/internal/adapters/handlers/http/chi/v1/asset"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const maxBodyBytes = 1 << 20 // uploads go straight to the object store

// NewRouter wires the middleware stack, the authenticated /api/v1 tree and /health.
// Request timeouts are set per route by the resource handlers.
func NewRouter(logger *slog.Logger, assetHandler *asset.HandlerV1, jwtSecret []byte, env string) http.Handler {
	r := chi.NewRouter()

	// X-Request-ID is reused when the caller sends one
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxBodyBytes))

	if env != "prod" {
		r.Use(devCORS())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(auth.Authenticator(jwtSecret, logger))
		api.Mount("/assets", assetHandler.Routes())
	})
	r.Get("/health", health(env))

	return r
}

func devCORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Range", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Range", "Accept-Ranges", "ETag"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Env       string    `json:"env,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func health(env string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(HealthResponse{Status: "ok", Env: env, Timestamp: time.Now().UTC()})
	}
}
