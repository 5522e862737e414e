package artifact

import (
	"context"
	"media-pipeline/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockArtifactService is a mock implementation of port.ArtifactService
type MockArtifactService struct {
	mock.Mock
}

// NewMockArtifactService creates a new MockArtifactService
func NewMockArtifactService() *MockArtifactService {
	return &MockArtifactService{}
}

func (m *MockArtifactService) GetOrQueueArtifact(ctx context.Context, actorID, assetID int64, artifactType domain.ArtifactType, params domain.ArtifactParams) (*domain.ArtifactResult, error) {
	args := m.Called(ctx, actorID, assetID, artifactType, params)
	return args.Get(0).(*domain.ArtifactResult), args.Error(1)
}

func (m *MockArtifactService) OpenArtifact(ctx context.Context, actorID, assetID int64, artifactType domain.ArtifactType, params domain.ArtifactParams, rangeHeader string) (*domain.ObjectStream, error) {
	args := m.Called(ctx, actorID, assetID, artifactType, params, rangeHeader)
	return args.Get(0).(*domain.ObjectStream), args.Error(1)
}

func (m *MockArtifactService) IssueDeliveryURL(ctx context.Context, actorID, assetID int64, artifactType domain.ArtifactType, params domain.ArtifactParams) (*domain.DeliveryURL, error) {
	args := m.Called(ctx, actorID, assetID, artifactType, params)
	return args.Get(0).(*domain.DeliveryURL), args.Error(1)
}

func (m *MockArtifactService) Backfill(ctx context.Context, actorID int64, artifactType domain.ArtifactType, limit int) (*domain.BackfillReport, error) {
	args := m.Called(ctx, actorID, artifactType, limit)
	return args.Get(0).(*domain.BackfillReport), args.Error(1)
}
