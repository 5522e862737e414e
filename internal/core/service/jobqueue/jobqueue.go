package jobqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
	"time"

	"github.com/google/uuid"
)

// Config holds the job queue settings
type Config struct {
	CallTimeout   time.Duration
	SubjectPrefix string
}

type queueService struct {
	uow       port.UnitOfWork
	publisher port.EventPublisher
	audit     port.AuditLog
	cfg       Config
	logger    *slog.Logger
}

// NewJobQueue creates the job queue client. publisher may be nil, notifications are then skipped.
func NewJobQueue(uow port.UnitOfWork, publisher port.EventPublisher, audit port.AuditLog, cfg Config, logger *slog.Logger) port.JobQueue {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 3 * time.Second
	}
	return &queueService{uow: uow, publisher: publisher, audit: audit, cfg: cfg, logger: logger}
}

// Enqueue inserts a job and notifies workers
func (q *queueService) Enqueue(ctx context.Context, jobType domain.JobType, input domain.JobInput) (*domain.Job, error) {
	callCtx, cancel := context.WithTimeout(ctx, q.cfg.CallTimeout)
	defer cancel()

	job, err := q.uow.JobRepo().Enqueue(callCtx, jobType, input)
	if err != nil {
		return nil, classify(fmt.Sprintf("enqueue %s", jobType), err)
	}

	q.Notify(ctx, *job)
	return job, nil
}

// FindPending returns the active job matching the tuple, or nil
func (q *queueService) FindPending(ctx context.Context, match domain.JobMatch) (*domain.Job, error) {
	callCtx, cancel := context.WithTimeout(ctx, q.cfg.CallTimeout)
	defer cancel()

	job, err := q.uow.JobRepo().FindPending(callCtx, match)
	if err != nil {
		return nil, classify(fmt.Sprintf("find pending %s", match.Type), err)
	}
	return job, nil
}

// EnqueueIfAbsent runs the lookup and the insert on repo, which is usually bound to a
// transaction. Notification is left to the caller once the transaction is committed.
func (q *queueService) EnqueueIfAbsent(ctx context.Context, repo port.JobRepository, jobType domain.JobType, input domain.JobInput) (*domain.Job, bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, q.cfg.CallTimeout)
	defer cancel()

	existing, err := repo.FindPending(callCtx, domain.MatchFor(jobType, input))
	if err != nil {
		return nil, false, classify(fmt.Sprintf("find pending %s", jobType), err)
	}
	if existing != nil {
		return existing, false, nil
	}

	job, err := repo.Enqueue(callCtx, jobType, input)
	if err != nil {
		return nil, false, classify(fmt.Sprintf("enqueue %s", jobType), err)
	}
	return job, true, nil
}

// Notify publishes one wake-up message per job. The job row is the source of truth, so a
// failed publish is logged and audited but not returned.
func (q *queueService) Notify(ctx context.Context, jobs ...domain.Job) {
	if q.publisher == nil {
		return
	}

	for _, job := range jobs {
		payload, err := json.Marshal(domain.JobNotification{
			JobID:      job.ID,
			Type:       job.Type,
			AssetID:    job.Input.AssetID,
			OutputKey:  job.Input.Output.Key,
			EnqueuedAt: job.CreatedAt,
		})
		if err != nil {
			q.logger.Error("failed to encode job notification", "error", err, "job_id", job.ID)
			continue
		}

		subject := fmt.Sprintf("%s.%s", q.cfg.SubjectPrefix, job.Type)
		if err := q.publisher.Publish(ctx, subject, fmt.Sprintf("job-%d", job.ID), payload); err != nil {
			q.logger.Error("failed to notify job", "error", err, "job_id", job.ID, "subject", subject)
			q.audit.Record(ctx, domain.AuditEvent{
				ID:         uuid.NewString(),
				Action:     domain.AuditActionJobNotify,
				AssetID:    job.Input.AssetID,
				Outcome:    domain.AuditOutcomeError,
				Detail:     map[string]any{"job_id": job.ID, "error": err.Error()},
				OccurredAt: time.Now(),
			})
		}
	}
}

func classify(op string, err error) error {
	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrUpstreamUnavailable, op, err)
}
