package access

import (
	"context"
	"media-pipeline/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

// MockAccessGate is a mock implementation of port.AccessGate
type MockAccessGate struct {
	mock.Mock
}

// NewMockAccessGate creates a new MockAccessGate
func NewMockAccessGate() *MockAccessGate {
	return &MockAccessGate{}
}

func (m *MockAccessGate) Authorize(ctx context.Context, actorID int64, asset domain.Asset, need domain.Capability) (domain.Grant, error) {
	args := m.Called(ctx, actorID, asset, need)
	return args.Get(0).(domain.Grant), args.Error(1)
}

func (m *MockAccessGate) HasPermission(ctx context.Context, actorID int64, permission string) (bool, error) {
	args := m.Called(ctx, actorID, permission)
	return args.Bool(0), args.Error(1)
}
