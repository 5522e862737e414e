package redis_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"media-pipeline/internal/adapters/dispatchguard/redis"
	"media-pipeline/internal/config"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return fmt.Sprintf("%s:%s", host, port.Port()), cleanup
}

func TestGuard(t *testing.T) {
	addr, cleanup := setupRedis(t)
	defer cleanup()
	ctx := context.Background()
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	guard, err := redis.NewGuard(ctx, config.RedisConfig{Addr: addr}, discardLogger)
	require.NoError(t, err)
	defer guard.Close()

	t.Run("second acquire fails until release", func(t *testing.T) {
		// Act
		first, err := guard.Acquire(ctx, "dispatch:upload_thumb:1:thumb/1/640.jpg", time.Minute)
		require.NoError(t, err)
		second, err := guard.Acquire(ctx, "dispatch:upload_thumb:1:thumb/1/640.jpg", time.Minute)
		require.NoError(t, err)
		require.NoError(t, guard.Release(ctx, "dispatch:upload_thumb:1:thumb/1/640.jpg"))
		third, err := guard.Acquire(ctx, "dispatch:upload_thumb:1:thumb/1/640.jpg", time.Minute)
		require.NoError(t, err)

		// Assert
		assert.True(t, first)
		assert.False(t, second)
		assert.True(t, third)
	})

	t.Run("marker expires", func(t *testing.T) {
		// Arrange
		ok, err := guard.Acquire(ctx, "short", 200*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		// Act & Assert
		assert.Eventually(t, func() bool {
			ok, err := guard.Acquire(ctx, "short", time.Minute)
			return err == nil && ok
		}, 3*time.Second, 100*time.Millisecond)
	})

	t.Run("exactly one concurrent winner", func(t *testing.T) {
		// Arrange
		var wins atomic.Int32
		var wg sync.WaitGroup

		// Act
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := guard.Acquire(ctx, "race", time.Minute)
				if err == nil && ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		// Assert
		assert.Equal(t, int32(1), wins.Load())
	})

	t.Run("release of a missing key is fine", func(t *testing.T) {
		assert.NoError(t, guard.Release(ctx, "never-acquired"))
	})
}
