package artifact_test

import (
	"context"
	"io"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
	"strings"
	"sync"
	"time"
)

// memStore is an in-memory object store keyed by bucket/key
type memStore struct {
	mu      sync.Mutex
	objects map[string]string
	headErr error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string]string{}}
}

func (s *memStore) put(bucket, key, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = body
}

func (s *memStore) Head(_ context.Context, bucket, key string) (*domain.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.headErr != nil {
		return nil, s.headErr
	}
	body, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, domain.ErrObjectNotFound
	}
	return &domain.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(body))}, nil
}

func (s *memStore) Open(_ context.Context, bucket, key, rangeHeader string) (*domain.ObjectStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, domain.ErrObjectNotFound
	}
	return &domain.ObjectStream{
		Body:    io.NopCloser(strings.NewReader(body)),
		Size:    int64(len(body)),
		Partial: rangeHeader != "",
	}, nil
}

func (s *memStore) PresignPost(context.Context, domain.PostPolicy) (*domain.PresignedPost, error) {
	return &domain.PresignedPost{}, nil
}

func (s *memStore) PresignGet(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "http://store/" + bucket + "/" + key, nil
}

func (s *memStore) ListPage(context.Context, string, string, string, int) (*domain.ObjectPage, error) {
	return &domain.ObjectPage{}, nil
}

func (s *memStore) DeleteBatch(context.Context, string, []string) error { return nil }

func (s *memStore) DeleteObject(context.Context, string, string) error { return nil }

// memQueue is an in-memory job table with the same non-atomic find and insert as the real one
type memQueue struct {
	mu   sync.Mutex
	jobs []domain.Job
}

func (q *memQueue) Enqueue(_ context.Context, jobType domain.JobType, input domain.JobInput) (*domain.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job := domain.Job{
		ID:          int64(len(q.jobs) + 1),
		Type:        jobType,
		Status:      domain.JobStatusPending,
		MaxAttempts: domain.DefaultJobMaxAttempts,
		Input:       input,
	}
	q.jobs = append(q.jobs, job)
	return &job, nil
}

func (q *memQueue) FindPending(_ context.Context, match domain.JobMatch) (*domain.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		if match.Matches(job) {
			return &job, nil
		}
	}
	return nil, nil
}

func (q *memQueue) EnqueueIfAbsent(ctx context.Context, _ port.JobRepository, jobType domain.JobType, input domain.JobInput) (*domain.Job, bool, error) {
	existing, err := q.FindPending(ctx, domain.MatchFor(jobType, input))
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	job, err := q.Enqueue(ctx, jobType, input)
	return job, true, err
}

// finish moves a job out of the active set, like a worker giving up on it
func (q *memQueue) finish(id int64, status domain.JobStatus) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.jobs {
		if q.jobs[i].ID == id {
			q.jobs[i].Status = status
		}
	}
}

func (q *memQueue) Notify(context.Context, ...domain.Job) {}

func (q *memQueue) all() []domain.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.Job(nil), q.jobs...)
}

// memGuard is a SET NX style marker
type memGuard struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemGuard() *memGuard {
	return &memGuard{held: map[string]bool{}}
}

func (g *memGuard) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held[key] {
		return false, nil
	}
	g.held[key] = true
	return true, nil
}

func (g *memGuard) isHeld(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held[key]
}

func (g *memGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}
