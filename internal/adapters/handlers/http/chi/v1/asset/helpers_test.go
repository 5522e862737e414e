package asset_test

import (
	"io"
	"log/slog"
	"media-pipeline/internal/adapters/handlers/http/chi"
	"media-pipeline/internal/adapters/handlers/http/chi/auth"
	"media-pipeline/internal/adapters/handlers/http/chi/v1/asset"
	"media-pipeline/internal/core/service/artifact"
	"media-pipeline/internal/core/service/deletion"
	"media-pipeline/internal/core/service/ingestion"
	http2 "net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("handler-secret")

type services struct {
	artifacts *artifact.MockArtifactService
	ingestion *ingestion.MockIngestionService
	deletion  *deletion.MockDeletionService
}

func newServices() services {
	return services{
		artifacts: artifact.NewMockArtifactService(),
		ingestion: ingestion.NewMockIngestionService(),
		deletion:  deletion.NewMockDeletionService(),
	}
}

func (s services) router() http2.Handler {
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := asset.NewAssetHandlerV1(s.artifacts, s.ingestion, s.deletion, discardLogger)
	return chi.NewRouter(discardLogger, handler, testSecret, "")
}

func (s services) assertExpectations(t *testing.T) {
	s.artifacts.AssertExpectations(t)
	s.ingestion.AssertExpectations(t)
	s.deletion.AssertExpectations(t)
}

func authorize(t *testing.T, req *http2.Request, actorID int64) *http2.Request {
	t.Helper()
	token, err := auth.IssueToken(testSecret, actorID, time.Minute)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
