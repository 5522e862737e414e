package presign_test

import (
	"context"
	"media-pipeline/internal/adapters/signer/presign"
	"media-pipeline/internal/adapters/storage"
	"media-pipeline/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSigner_Sign(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to presigned get with the remaining ttl", func(t *testing.T) {
		// Arrange
		store := storage.NewMockStorage()
		store.On("PresignGet", ctx, "media", "thumb/1/640.jpg", 10*time.Minute).Return("http://minio/media/thumb/1/640.jpg?X-Amz-Signature=x", nil)
		signer := presign.NewSigner(store)

		// Act
		signed, err := signer.Sign(ctx, "media", "thumb/1/640.jpg", time.Now().Add(10*time.Minute))

		// Assert
		require.NoError(t, err)
		assert.Contains(t, signed, "X-Amz-Signature")
		store.AssertExpectations(t)
	})

	t.Run("past expiry still signs for a second", func(t *testing.T) {
		// Arrange
		store := storage.NewMockStorage()
		store.On("PresignGet", ctx, "media", "k", time.Second).Return("u", nil)
		signer := presign.NewSigner(store)

		// Act
		_, err := signer.Sign(ctx, "media", "k", time.Now().Add(-time.Hour))

		// Assert
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("store errors are returned", func(t *testing.T) {
		// Arrange
		store := storage.NewMockStorage()
		store.On("PresignGet", ctx, "media", "k", mock.Anything).Return("", domain.ErrUpstreamUnavailable)
		signer := presign.NewSigner(store)

		// Act
		_, err := signer.Sign(ctx, "media", "k", time.Now().Add(time.Minute))

		// Assert
		require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	})
}
