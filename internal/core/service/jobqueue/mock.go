package jobqueue

import (
	"context"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"

	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of port.JobQueue
type MockJobQueue struct {
	mock.Mock
}

// NewMockJobQueue creates a new MockJobQueue
func NewMockJobQueue() *MockJobQueue {
	return &MockJobQueue{}
}

func (m *MockJobQueue) Enqueue(ctx context.Context, jobType domain.JobType, input domain.JobInput) (*domain.Job, error) {
	args := m.Called(ctx, jobType, input)
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobQueue) FindPending(ctx context.Context, match domain.JobMatch) (*domain.Job, error) {
	args := m.Called(ctx, match)
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobQueue) EnqueueIfAbsent(ctx context.Context, repo port.JobRepository, jobType domain.JobType, input domain.JobInput) (*domain.Job, bool, error) {
	args := m.Called(ctx, repo, jobType, input)
	return args.Get(0).(*domain.Job), args.Bool(1), args.Error(2)
}

func (m *MockJobQueue) Notify(ctx context.Context, jobs ...domain.Job) {
	m.Called(ctx, jobs)
}
