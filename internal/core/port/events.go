package port

import (
	"context"
	"media-pipeline/internal/core/domain"
)

// EventConsumer is an interface to define an event consumer (kafka, nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}

// EventPublisher publishes deduplicated messages
type EventPublisher interface {
	Publish(ctx context.Context, subject, msgID string, payload []byte) error
}

// AuditLog records state-mutating outcomes. Delivery failures are logged by the implementation.
type AuditLog interface {
	Record(ctx context.Context, event domain.AuditEvent)
}
