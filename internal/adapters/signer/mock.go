package signer

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockSigner struct {
	mock.Mock
}

func NewMockSigner() *MockSigner {
	return &MockSigner{}
}

func (m *MockSigner) Sign(ctx context.Context, bucket, key string, expiresAt time.Time) (string, error) {
	args := m.Called(ctx, bucket, key, expiresAt)
	return args.String(0), args.Error(1)
}
