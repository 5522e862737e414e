package asset_test

import (
	"context"
	"io"
	"media-pipeline/internal/adapters/handlers/http/chi/v1/asset"
	"media-pipeline/internal/core/domain"
	http2 "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func deadlineWithin(lo, hi time.Duration) func(context.Context) bool {
	return func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		left := time.Until(deadline)
		return ok && left > lo && left <= hi
	}
}

func TestOpenArtifactV1_StreamOutlivesRequestTimeout(t *testing.T) {
	// Arrange
	s := newServices()
	s.artifacts.On("OpenArtifact", mock.MatchedBy(deadlineWithin(asset.RequestTimeout, asset.StreamTimeout)), int64(1), int64(5), domain.ArtifactEditProxy, domain.ArtifactParams{}, "").
		Return(&domain.ObjectStream{Body: io.NopCloser(strings.NewReader("mp4-bytes")), Size: 9}, nil)
	s.artifacts.On("GetOrQueueArtifact", mock.MatchedBy(deadlineWithin(0, asset.RequestTimeout)), int64(1), int64(5), domain.ArtifactEditProxy, domain.ArtifactParams{}).
		Return(&domain.ArtifactResult{Status: domain.ArtifactStatusReady, Key: "proxy/5/edit_540.mp4"}, nil)

	// Act
	content := httptest.NewRecorder()
	s.router().ServeHTTP(content, authorize(t, httptest.NewRequest(http2.MethodGet, "/api/v1/assets/5/artifacts/edit_proxy/content", nil), 1))
	status := httptest.NewRecorder()
	s.router().ServeHTTP(status, authorize(t, httptest.NewRequest(http2.MethodGet, "/api/v1/assets/5/artifacts/edit_proxy", nil), 1))

	// Assert
	assert.Equal(t, http2.StatusOK, content.Code)
	assert.Equal(t, http2.StatusOK, status.Code)
	s.assertExpectations(t)
}

func TestOpenArtifactV1(t *testing.T) {
	t.Run("full body is 200", func(t *testing.T) {
		// Arrange
		s := newServices()
		s.artifacts.On("OpenArtifact", mock.Anything, int64(1), int64(5), domain.ArtifactEditProxy, domain.ArtifactParams{}, "").
			Return(&domain.ObjectStream{Body: io.NopCloser(strings.NewReader("mp4-bytes")), Size: 9, ContentType: "video/mp4", ETag: "e1"}, nil)
		w := httptest.NewRecorder()
		req := authorize(t, httptest.NewRequest(http2.MethodGet, "/api/v1/assets/5/artifacts/edit_proxy/content", nil), 1)

		// Act
		s.router().ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		assert.Equal(t, "mp4-bytes", w.Body.String())
		assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
		assert.Equal(t, "9", w.Header().Get("Content-Length"))
		assert.Equal(t, `"e1"`, w.Header().Get("ETag"))
		assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
		s.assertExpectations(t)
	})

	t.Run("range is forwarded and answered with 206", func(t *testing.T) {
		// Arrange
		s := newServices()
		s.artifacts.On("OpenArtifact", mock.Anything, int64(1), int64(5), domain.ArtifactEditProxy, domain.ArtifactParams{}, "bytes=0-3").
			Return(&domain.ObjectStream{Body: io.NopCloser(strings.NewReader("mp4-")), Size: 4, ContentRange: "bytes 0-3/9", Partial: true}, nil)
		w := httptest.NewRecorder()
		req := authorize(t, httptest.NewRequest(http2.MethodGet, "/api/v1/assets/5/artifacts/edit_proxy/content", nil), 1)
		req.Header.Set("Range", "bytes=0-3")

		// Act
		s.router().ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusPartialContent, w.Code)
		assert.Equal(t, "bytes 0-3/9", w.Header().Get("Content-Range"))
		assert.Equal(t, "mp4-", w.Body.String())
		s.assertExpectations(t)
	})

	t.Run("not generated yet is 404", func(t *testing.T) {
		// Arrange
		s := newServices()
		s.artifacts.On("OpenArtifact", mock.Anything, int64(1), int64(5), domain.ArtifactEditProxy, domain.ArtifactParams{}, "").
			Return((*domain.ObjectStream)(nil), domain.ErrArtifactNotReady)
		w := httptest.NewRecorder()
		req := authorize(t, httptest.NewRequest(http2.MethodGet, "/api/v1/assets/5/artifacts/edit_proxy/content", nil), 1)

		// Act
		s.router().ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusNotFound, w.Code)
	})
}
