package audit

import (
	"context"
	"media-pipeline/internal/core/domain"
	"sync"
)

// Recorder keeps audit events in memory
type Recorder struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

// NewRecorder creates a Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Record(_ context.Context, event domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of recorded events
func (r *Recorder) Events() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEvent(nil), r.events...)
}

// Actions returns recorded actions in order
func (r *Recorder) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]string, 0, len(r.events))
	for _, e := range r.events {
		actions = append(actions, e.Action)
	}
	return actions
}
