package ingestion

import (
	"context"
	"media-pipeline/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockIngestionService is a mock implementation of port.IngestionService
type MockIngestionService struct {
	mock.Mock
}

// NewMockIngestionService creates a new MockIngestionService
func NewMockIngestionService() *MockIngestionService {
	return &MockIngestionService{}
}

func (m *MockIngestionService) CreateUploadGrant(ctx context.Context, req domain.UploadGrantRequest) (*domain.UploadGrant, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*domain.UploadGrant), args.Error(1)
}

func (m *MockIngestionService) MarkUploadComplete(ctx context.Context, actorID, assetID int64, completion domain.UploadCompletion) (*domain.CompletionResult, error) {
	args := m.Called(ctx, actorID, assetID, completion)
	return args.Get(0).(*domain.CompletionResult), args.Error(1)
}

func (m *MockIngestionService) CompleteFromStorageEvent(ctx context.Context, notification domain.UploadNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}
