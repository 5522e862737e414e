package port

import (
	"context"
	"media-pipeline/internal/core/domain"
)

// JobRepository is an interface to define media job table interactions
type JobRepository interface {
	Enqueue(ctx context.Context, jobType domain.JobType, input domain.JobInput) (*domain.Job, error)
	// FindPending returns nil, nil when no active job matches
	FindPending(ctx context.Context, match domain.JobMatch) (*domain.Job, error)
	FindByID(ctx context.Context, id int64) (*domain.Job, error)
	CancelActiveForAsset(ctx context.Context, assetID int64, reason string) (int64, error)
}

// JobQueue is the capability wrapper every caller goes through to reach the job table
type JobQueue interface {
	Enqueue(ctx context.Context, jobType domain.JobType, input domain.JobInput) (*domain.Job, error)
	FindPending(ctx context.Context, match domain.JobMatch) (*domain.Job, error)
	// EnqueueIfAbsent enqueues inside a transaction, returning the existing job when one is active
	EnqueueIfAbsent(ctx context.Context, repo JobRepository, jobType domain.JobType, input domain.JobInput) (*domain.Job, bool, error)
	// Notify wakes workers up for already committed jobs
	Notify(ctx context.Context, jobs ...domain.Job)
}
