package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
	"time"

	"github.com/google/uuid"
)

// Log writes every audit event to the structured log and, when a publisher is set, to the
// audit subject
type Log struct {
	publisher port.EventPublisher
	subject   string
	logger    *slog.Logger
}

// NewLog creates audit Log. publisher may be nil.
func NewLog(publisher port.EventPublisher, subject string, logger *slog.Logger) *Log {
	return &Log{publisher: publisher, subject: subject, logger: logger}
}

// Record logs and publishes event
func (l *Log) Record(ctx context.Context, event domain.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	level := slog.LevelInfo
	if event.Outcome != domain.AuditOutcomeOK {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, "audit",
		"audit_id", event.ID,
		"action", event.Action,
		"actor_id", event.ActorID,
		"asset_id", event.AssetID,
		"outcome", event.Outcome,
		"detail", event.Detail,
	)

	if l.publisher == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		l.logger.Error("failed to encode audit event", "error", err, "audit_id", event.ID)
		return
	}
	if err := l.publisher.Publish(ctx, l.subject, event.ID, payload); err != nil {
		l.logger.Error("failed to publish audit event", "error", err, "audit_id", event.ID, "action", event.Action)
	}
}
