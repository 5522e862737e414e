package eventbroker

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, subject, msgID string, payload []byte) error {
	args := m.Called(ctx, subject, msgID, payload)
	return args.Error(0)
}
