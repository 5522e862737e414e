package deletion

import (
	"context"
	"media-pipeline/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockDeletionService is a mock implementation of port.DeletionService
type MockDeletionService struct {
	mock.Mock
}

// NewMockDeletionService creates a new MockDeletionService
func NewMockDeletionService() *MockDeletionService {
	return &MockDeletionService{}
}

func (m *MockDeletionService) DeleteAssetTree(ctx context.Context, asset domain.Asset) (*domain.DeletionReport, error) {
	args := m.Called(ctx, asset)
	return args.Get(0).(*domain.DeletionReport), args.Error(1)
}

func (m *MockDeletionService) DeleteAsset(ctx context.Context, actorID, assetID int64) (*domain.DeletionReport, error) {
	args := m.Called(ctx, actorID, assetID)
	return args.Get(0).(*domain.DeletionReport), args.Error(1)
}

func (m *MockDeletionService) PurgeSource(ctx context.Context, actorID, assetID int64) (*domain.DeletionReport, error) {
	args := m.Called(ctx, actorID, assetID)
	return args.Get(0).(*domain.DeletionReport), args.Error(1)
}
