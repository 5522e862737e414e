package nats

import (
	"context"
	"fmt"
	"log/slog"
	"media-pipeline/internal/config"
	"media-pipeline/internal/core/domain"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// duplicateWindow bounds how long JetStream remembers message ids
const duplicateWindow = 10 * time.Minute

// Publisher publishes job wake-ups and audit events with JetStream message-id deduplication
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
}

// NewNATSPublisher connects and makes sure a stream captures every subject it publishes on
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(cfg.URL, "media-pipeline-publisher", logger)
	if err != nil {
		return nil, err
	}

	streams := map[string]string{
		"MEDIA_JOBS":  strings.TrimSuffix(cfg.JobsSubjectPrefix, ".") + ".>",
		"MEDIA_AUDIT": cfg.AuditSubject,
	}
	for name, subject := range streams {
		_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
			Name:       name,
			Subjects:   []string{subject},
			Duplicates: duplicateWindow,
			MaxAge:     7 * 24 * time.Hour,
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to ensure stream %s: %w", name, err)
		}
	}

	return &Publisher{conn: conn, js: js, logger: logger}, nil
}

// Publish sends payload on subject. A repeated msgID inside the duplicate window is dropped by the server.
func (p *Publisher) Publish(ctx context.Context, subject, msgID string, payload []byte) error {
	ack, err := p.js.Publish(ctx, subject, payload, jetstream.WithMsgID(msgID))
	if err != nil {
		return fmt.Errorf("%w: publish %s: %w", domain.ErrUpstreamUnavailable, subject, err)
	}
	if ack.Duplicate {
		p.logger.Debug("duplicate publish dropped", "subject", subject, "msg_id", msgID)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.conn != nil {
		return p.conn.Drain()
	}
	return nil
}
