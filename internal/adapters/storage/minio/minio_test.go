package minio_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"media-pipeline/internal/adapters/storage/minio"
	"media-pipeline/internal/config"
	"media-pipeline/internal/core/domain"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testAccessKey    = "minioadmin"
	testSecretKey    = "minioadmin"
	testBucket       = "test-uploads"
	testOutputBucket = "test-output"
)

func setupContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     testAccessKey,
			"MINIO_ROOT_PASSWORD": testSecretKey,
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000"),
	}
	minioContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := minioContainer.Host(ctx)
	require.NoError(t, err)

	port, err := minioContainer.MappedPort(ctx, "9000")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("%s:%s", host, port.Port())

	cleanup := func() {
		if err := minioContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	time.Sleep(500 * time.Millisecond) // wait for container to be up
	return endpoint, cleanup
}

func createAdapter(t *testing.T, endpoint string, ctx context.Context) *minio.Adapter {
	t.Helper()
	cfg := config.MinioConfig{
		Endpoint:    endpoint,
		AccessKey:   testAccessKey,
		SecretKey:   testSecretKey,
		UseSSL:      false,
		CallTimeout: 5 * time.Second,
		MaxTries:    2,
	}

	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	adapter, err := minio.NewAdapter(ctx, cfg, []string{testBucket, testOutputBucket}, discardLogger)

	require.NoError(t, err)
	require.NotNil(t, adapter)

	return adapter
}

// rawClient writes fixtures the adapter itself never writes
func rawClient(t *testing.T, endpoint string) *miniogo.Client {
	t.Helper()
	client, err := miniogo.New(endpoint, &miniogo.Options{
		Creds: credentials.NewStaticV4(testAccessKey, testSecretKey, ""),
	})
	require.NoError(t, err)
	return client
}

func putObject(t *testing.T, client *miniogo.Client, bucket, key, content string) {
	t.Helper()
	_, err := client.PutObject(context.Background(), bucket, key, strings.NewReader(content), int64(len(content)),
		miniogo.PutObjectOptions{ContentType: "application/octet-stream"})
	require.NoError(t, err)
}

func TestAdapter(t *testing.T) {
	endpoint, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()
	adapter := createAdapter(t, endpoint, ctx)
	client := rawClient(t, endpoint)

	t.Run("head missing object is not found", func(t *testing.T) {
		// Act
		info, err := adapter.Head(ctx, testBucket, "thumb/1/640.jpg")

		// Assert
		require.ErrorIs(t, err, domain.ErrObjectNotFound)
		assert.Nil(t, info)
	})

	t.Run("head existing object", func(t *testing.T) {
		// Arrange
		putObject(t, client, testBucket, "thumb/2/640.jpg", "jpeg-bytes")

		// Act
		info, err := adapter.Head(ctx, testBucket, "thumb/2/640.jpg")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(len("jpeg-bytes")), info.Size)
		assert.Equal(t, "thumb/2/640.jpg", info.Key)
		assert.Equal(t, testBucket, info.Bucket)
		assert.NotEmpty(t, info.ETag)
		assert.NotContains(t, info.ETag, "\"")
	})

	t.Run("open full and ranged", func(t *testing.T) {
		// Arrange
		putObject(t, client, testBucket, "proxy/3/edit_540.mp4", "0123456789")

		// Act
		full, err := adapter.Open(ctx, testBucket, "proxy/3/edit_540.mp4", "")
		require.NoError(t, err)
		fullBody, _ := io.ReadAll(full.Body)
		_ = full.Body.Close()

		ranged, err := adapter.Open(ctx, testBucket, "proxy/3/edit_540.mp4", "bytes=2-5")
		require.NoError(t, err)
		rangedBody, _ := io.ReadAll(ranged.Body)
		_ = ranged.Body.Close()

		// Assert
		assert.Equal(t, "0123456789", string(fullBody))
		assert.False(t, full.Partial)
		assert.Equal(t, "2345", string(rangedBody))
		assert.True(t, ranged.Partial)
		assert.Equal(t, "bytes 2-5/10", ranged.ContentRange)
	})

	t.Run("open missing object is not found", func(t *testing.T) {
		_, err := adapter.Open(ctx, testBucket, "proxy/404/edit_540.mp4", "")

		require.ErrorIs(t, err, domain.ErrObjectNotFound)
	})

	t.Run("list pages and batch delete", func(t *testing.T) {
		// Arrange
		for i := 0; i < 5; i++ {
			putObject(t, client, testBucket, fmt.Sprintf("still/9/t_%d_le1080.png", i), "png")
		}
		putObject(t, client, testBucket, "still/90/t_0_le1080.png", "png")

		// Act
		var keys []string
		token := ""
		pages := 0
		for {
			page, err := adapter.ListPage(ctx, testBucket, "still/9/", token, 2)
			require.NoError(t, err)
			keys = append(keys, page.Keys...)
			pages++
			if !page.Truncated {
				break
			}
			token = page.NextContinuationToken
		}
		err := adapter.DeleteBatch(ctx, testBucket, keys)

		// Assert
		require.NoError(t, err)
		assert.Len(t, keys, 5)
		assert.Equal(t, 3, pages)

		remaining, err := adapter.ListPage(ctx, testBucket, "still/9", "", 100)
		require.NoError(t, err)
		assert.Equal(t, []string{"still/90/t_0_le1080.png"}, remaining.Keys)
	})

	t.Run("delete batch ignores missing keys", func(t *testing.T) {
		err := adapter.DeleteBatch(ctx, testOutputBucket, []string{"renders/1/nothing.mp4"})

		require.NoError(t, err)
	})

	t.Run("delete object", func(t *testing.T) {
		// Arrange
		putObject(t, client, testBucket, "uploads/2026-01-01/x/clip.mp4", "video")

		// Act
		err := adapter.DeleteObject(ctx, testBucket, "uploads/2026-01-01/x/clip.mp4")

		// Assert
		require.NoError(t, err)
		_, err = adapter.Head(ctx, testBucket, "uploads/2026-01-01/x/clip.mp4")
		require.ErrorIs(t, err, domain.ErrObjectNotFound)
	})

	t.Run("presigned get downloads the object", func(t *testing.T) {
		// Arrange
		putObject(t, client, testOutputBucket, "renders/4/out.mp4", "rendered")

		// Act
		signed, err := adapter.PresignGet(ctx, testOutputBucket, "renders/4/out.mp4", 5*time.Minute)
		require.NoError(t, err)
		resp, err := http.Get(signed)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		// Assert
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "rendered", string(body))
		assert.Contains(t, signed, "X-Amz-Signature")
	})

	t.Run("presigned post accepts only the exact size range", func(t *testing.T) {
		// Arrange
		policy := domain.PostPolicy{
			Bucket:            testBucket,
			Key:               "uploads/2026-10-14/abc/clip.mp4",
			ContentTypePrefix: "video/",
			MinSizeBytes:      1,
			MaxSizeBytes:      5,
			ExpiresAt:         time.Now().Add(10 * time.Minute),
		}
		post, err := adapter.PresignPost(ctx, policy)
		require.NoError(t, err)

		submit := func(content string) int {
			var buf bytes.Buffer
			w := multipart.NewWriter(&buf)
			for k, v := range post.Fields {
				require.NoError(t, w.WriteField(k, v))
			}
			require.NoError(t, w.WriteField("Content-Type", "video/mp4"))
			part, err := w.CreateFormFile("file", "clip.mp4")
			require.NoError(t, err)
			_, _ = part.Write([]byte(content))
			require.NoError(t, w.Close())

			resp, err := http.Post(post.URL, w.FormDataContentType(), &buf)
			require.NoError(t, err)
			defer resp.Body.Close()
			return resp.StatusCode
		}

		// Act
		tooBig := submit("0123456789")
		ok := submit("01234")

		// Assert
		assert.Equal(t, "uploads/2026-10-14/abc/clip.mp4", post.Fields["key"])
		assert.GreaterOrEqual(t, tooBig, 400)
		assert.Less(t, ok, 300)

		info, err := adapter.Head(ctx, testBucket, policy.Key)
		require.NoError(t, err)
		assert.Equal(t, int64(5), info.Size)
	})
}
