package asset_test

import (
	"encoding/json"
	"media-pipeline/internal/adapters/handlers/http/chi/v1/asset"
	"media-pipeline/internal/core/domain"
	http2 "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeliveryURLV1(t *testing.T) {
	t.Run("signed url", func(t *testing.T) {
		// Arrange
		expires := time.Now().Add(15 * time.Minute)
		s := newServices()
		s.artifacts.On("IssueDeliveryURL", mock.Anything, int64(3), int64(9), domain.ArtifactAudioEnvelope, domain.ArtifactParams{IntervalSeconds: 0.5}).
			Return(&domain.DeliveryURL{URL: "https://cdn.example.com/proxy/9/audio/envelope_i500.json?Signature=x", ExpiresAt: expires}, nil)
		w := httptest.NewRecorder()
		req := authorize(t, httptest.NewRequest(http2.MethodGet, "/api/v1/assets/9/artifacts/audio_envelope/delivery-url?interval=0.5", nil), 3)

		// Act
		s.router().ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusOK, w.Code)
		var resp asset.V1DeliveryURLResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Contains(t, resp.URL, "Signature=")
		assert.WithinDuration(t, expires, resp.ExpiresAt, time.Second)
		s.assertExpectations(t)
	})

	t.Run("miss is 404", func(t *testing.T) {
		// Arrange
		s := newServices()
		s.artifacts.On("IssueDeliveryURL", mock.Anything, int64(3), int64(9), domain.ArtifactThumbnail, domain.ArtifactParams{}).
			Return((*domain.DeliveryURL)(nil), domain.ErrArtifactNotReady)
		w := httptest.NewRecorder()
		req := authorize(t, httptest.NewRequest(http2.MethodGet, "/api/v1/assets/9/artifacts/thumbnail/delivery-url", nil), 3)

		// Act
		s.router().ServeHTTP(w, req)

		// Assert
		assert.Equal(t, http2.StatusNotFound, w.Code)
	})
}
