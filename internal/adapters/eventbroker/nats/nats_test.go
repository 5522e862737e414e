package nats_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	nats2 "media-pipeline/internal/adapters/eventbroker/nats"
	"media-pipeline/internal/config"
	"media-pipeline/internal/core/domain"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type mockHandler struct {
	messages [][]byte
	received chan struct{}
	err      error
	mu       sync.Mutex
}

func (m *mockHandler) HandleMessage(ctx context.Context, data []byte) error {
	m.mu.Lock()
	m.messages = append(m.messages, data)
	m.mu.Unlock()

	if m.received != nil {
		m.received <- struct{}{}
	}
	return m.err
}

func (m *mockHandler) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

func setupNATSContainer(t *testing.T) (string, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "nats:2.10-alpine",
		ExposedPorts: []string{"4222/tcp"},
		Cmd:          []string{"-js"},
		WaitingFor:   wait.ForLog("Server is ready"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "4222")
	require.NoError(t, err)

	cleanup := func() {
		_ = container.Terminate(ctx)
	}

	return "nats://" + host + ":" + port.Port(), cleanup
}

func setupStream(t *testing.T, natsURL, streamName, subject string) (*nats.Conn, jetstream.JetStream) {
	t.Helper()
	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	js, err := jetstream.New(nc)
	require.NoError(t, err)
	_, err = js.CreateStream(context.Background(), jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subject},
	})
	require.NoError(t, err)
	return nc, js
}

func TestConsumer(t *testing.T) {
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("acks handled messages", func(t *testing.T) {
		// Arrange
		nc, js := setupStream(t, natsURL, "ok-stream", "ok.subject")
		defer nc.Close()
		handler := &mockHandler{received: make(chan struct{}, 1)}
		cfg := config.NATSConfig{URL: natsURL, StreamName: "ok-stream", Subject: "ok.subject", ConsumerName: "ok-consumer"}
		consumer, err := nats2.NewNATSConsumer(cfg, logger)
		require.NoError(t, err)
		defer consumer.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Act
		require.NoError(t, consumer.Subscribe(ctx, handler))
		_, err = js.Publish(ctx, "ok.subject", []byte(`{"Records":[]}`))
		require.NoError(t, err)

		// Assert
		select {
		case <-handler.received:
		case <-time.After(3 * time.Second):
			t.Fatal("message not received")
		}
		assert.Equal(t, []byte(`{"Records":[]}`), handler.messages[0])
	})

	t.Run("redelivers on transient failure", func(t *testing.T) {
		// Arrange
		nc, js := setupStream(t, natsURL, "retry-stream", "retry.subject")
		defer nc.Close()
		handler := &mockHandler{received: make(chan struct{}, 4), err: fmt.Errorf("%w: db down", domain.ErrUpstreamUnavailable)}
		cfg := config.NATSConfig{URL: natsURL, StreamName: "retry-stream", Subject: "retry.subject", ConsumerName: "retry-consumer"}
		consumer, err := nats2.NewNATSConsumer(cfg, logger)
		require.NoError(t, err)
		defer consumer.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Act
		require.NoError(t, consumer.Subscribe(ctx, handler))
		_, err = js.Publish(ctx, "retry.subject", []byte("retry"))
		require.NoError(t, err)

		// Assert
		for i := 0; i < 2; i++ {
			select {
			case <-handler.received:
			case <-time.After(5 * time.Second):
				t.Fatalf("delivery %d not received", i+1)
			}
		}
		assert.GreaterOrEqual(t, handler.count(), 2)
	})

	t.Run("terminates malformed messages", func(t *testing.T) {
		// Arrange
		nc, js := setupStream(t, natsURL, "bad-stream", "bad.subject")
		defer nc.Close()
		handler := &mockHandler{received: make(chan struct{}, 4), err: fmt.Errorf("%w: not json", domain.ErrValidation)}
		cfg := config.NATSConfig{URL: natsURL, StreamName: "bad-stream", Subject: "bad.subject", ConsumerName: "bad-consumer"}
		consumer, err := nats2.NewNATSConsumer(cfg, logger)
		require.NoError(t, err)
		defer consumer.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Act
		require.NoError(t, consumer.Subscribe(ctx, handler))
		_, err = js.Publish(ctx, "bad.subject", []byte("{"))
		require.NoError(t, err)

		// Assert
		select {
		case <-handler.received:
		case <-time.After(3 * time.Second):
			t.Fatal("message not received")
		}
		time.Sleep(3 * time.Second)
		assert.Equal(t, 1, handler.count())
	})

	t.Run("nothing is handled after close", func(t *testing.T) {
		// Arrange
		nc, js := setupStream(t, natsURL, "shutdown-stream", "shutdown.subject")
		defer nc.Close()
		handler := &mockHandler{received: make(chan struct{}, 1)}
		cfg := config.NATSConfig{URL: natsURL, StreamName: "shutdown-stream", Subject: "shutdown.subject", ConsumerName: "shutdown-consumer"}
		consumer, err := nats2.NewNATSConsumer(cfg, logger)
		require.NoError(t, err)

		// Act
		require.NoError(t, consumer.Subscribe(context.Background(), handler))
		require.NoError(t, consumer.Close())
		_, err = js.Publish(context.Background(), "shutdown.subject", []byte("late"))
		require.NoError(t, err)

		// Assert
		select {
		case <-handler.received:
			t.Fatal("message should not have been processed after Close")
		case <-time.After(500 * time.Millisecond):
		}
	})
}

func TestConsumer_EnsureStream(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.NATSConfig{URL: natsURL, StreamName: "MINIO_EVENTS", Subject: "minio.events.uploads", ConsumerName: "upload-events"}
	consumer, err := nats2.NewNATSConsumer(cfg, logger)
	require.NoError(t, err)
	defer consumer.Close()

	// Act
	first := consumer.EnsureStream(ctx)
	second := consumer.EnsureStream(ctx)

	// Assert
	require.NoError(t, first)
	require.NoError(t, second)
	require.NoError(t, consumer.Subscribe(ctx, &mockHandler{}))
}

func TestPublisher(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.NATSConfig{URL: natsURL, JobsSubjectPrefix: "media.jobs", AuditSubject: "media.audit"}

	publisher, err := nats2.NewNATSPublisher(ctx, cfg, logger)
	require.NoError(t, err)
	defer publisher.Close()

	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	defer nc.Close()
	js, err := jetstream.New(nc)
	require.NoError(t, err)

	// Act
	require.NoError(t, publisher.Publish(ctx, "media.jobs.upload_thumb", "job-1", []byte(`{"id":1}`)))
	require.NoError(t, publisher.Publish(ctx, "media.jobs.upload_thumb", "job-1", []byte(`{"id":1}`)))
	require.NoError(t, publisher.Publish(ctx, "media.jobs.upload_edit_proxy", "job-2", []byte(`{"id":2}`)))
	require.NoError(t, publisher.Publish(ctx, "media.audit", "a-1", []byte(`{}`)))

	// Assert
	jobs, err := js.Stream(ctx, "MEDIA_JOBS")
	require.NoError(t, err)
	info, err := jobs.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), info.State.Msgs)

	audit, err := js.Stream(ctx, "MEDIA_AUDIT")
	require.NoError(t, err)
	info, err = audit.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.State.Msgs)
}
