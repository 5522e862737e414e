package postgres_test

import (
	"context"
	"media-pipeline/internal/adapters/repository/postgres"
	"media-pipeline/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func thumbInput(assetID int64, key string) domain.JobInput {
	return domain.JobInput{
		AssetID: assetID,
		UserID:  1,
		Source:  domain.ObjectPointer{Bucket: "media", Key: "uploads/x.mp4"},
		Output:  domain.ObjectPointer{Bucket: "media", Key: key},
		Params:  domain.ArtifactParams{LongEdgePx: 640},
	}
}

func TestSqlJobRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()
	repo := postgres.NewSqlJobRepository(dbConnection)

	t.Run("Enqueue - Success", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		job, err := repo.Enqueue(ctx, domain.JobTypeUploadThumb, thumbInput(42, "thumb/42/640.jpg"))

		// Assert
		require.NoError(t, err)
		require.Equal(t, domain.JobStatusPending, job.Status)
		require.Equal(t, domain.DefaultJobMaxAttempts, job.MaxAttempts)
		found, err := repo.FindByID(ctx, job.ID)
		require.NoError(t, err)
		require.Equal(t, "thumb/42/640.jpg", found.Input.Output.Key)
		require.Equal(t, 640, found.Input.Params.LongEdgePx)
	})

	t.Run("FindPending - Matches the tuple only", func(t *testing.T) {
		// Arrange
		truncate()
		job, err := repo.Enqueue(ctx, domain.JobTypeUploadThumb, thumbInput(42, "thumb/42/640.jpg"))
		require.NoError(t, err)

		// Act
		same, err := repo.FindPending(ctx, domain.JobMatch{Type: domain.JobTypeUploadThumb, AssetID: 42, OutputKey: "thumb/42/640.jpg"})
		require.NoError(t, err)
		otherKey, err := repo.FindPending(ctx, domain.JobMatch{Type: domain.JobTypeUploadThumb, AssetID: 42, OutputKey: "thumb/42/320.jpg"})
		require.NoError(t, err)
		otherAsset, err := repo.FindPending(ctx, domain.JobMatch{Type: domain.JobTypeUploadThumb, AssetID: 4, OutputKey: "thumb/42/640.jpg"})
		require.NoError(t, err)
		otherType, err := repo.FindPending(ctx, domain.JobMatch{Type: domain.JobTypeUploadEditProxy, AssetID: 42, OutputKey: "thumb/42/640.jpg"})
		require.NoError(t, err)

		// Assert
		require.NotNil(t, same)
		require.Equal(t, job.ID, same.ID)
		require.Nil(t, otherKey)
		require.Nil(t, otherAsset)
		require.Nil(t, otherType)
	})

	t.Run("CancelActiveForAsset - Finished jobs are untouched", func(t *testing.T) {
		// Arrange
		truncate()
		active, _ := repo.Enqueue(ctx, domain.JobTypeUploadThumb, thumbInput(42, "thumb/42/640.jpg"))
		done, _ := repo.Enqueue(ctx, domain.JobTypeUploadThumb, thumbInput(42, "thumb/42/320.jpg"))
		other, _ := repo.Enqueue(ctx, domain.JobTypeUploadThumb, thumbInput(7, "thumb/7/640.jpg"))
		_, err := dbConnection.Exec(`UPDATE media_jobs SET status = 'completed' WHERE id = $1`, done.ID)
		require.NoError(t, err)

		// Act
		cancelled, err := repo.CancelActiveForAsset(ctx, 42, "asset_deleted")

		// Assert
		require.NoError(t, err)
		require.Equal(t, int64(1), cancelled)
		found, _ := repo.FindByID(ctx, active.ID)
		require.Equal(t, domain.JobStatusDead, found.Status)
		require.Equal(t, "asset_deleted", found.ErrorCode)
		found, _ = repo.FindByID(ctx, done.ID)
		require.Equal(t, domain.JobStatusCompleted, found.Status)
		found, _ = repo.FindByID(ctx, other.ID)
		require.Equal(t, domain.JobStatusPending, found.Status)
		pending, _ := repo.FindPending(ctx, domain.MatchFor(domain.JobTypeUploadThumb, thumbInput(42, "thumb/42/640.jpg")))
		require.Nil(t, pending)
	})

	t.Run("FindByID - Not Found", func(t *testing.T) {
		truncate()
		_, err := repo.FindByID(ctx, 999)
		require.ErrorIs(t, err, domain.ErrJobNotFound)
	})
}
