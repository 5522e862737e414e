package storage

import (
	"context"
	"media-pipeline/internal/core/domain"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) Head(ctx context.Context, bucket, key string) (*domain.ObjectInfo, error) {
	args := m.Called(ctx, bucket, key)
	return args.Get(0).(*domain.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Open(ctx context.Context, bucket, key, rangeHeader string) (*domain.ObjectStream, error) {
	args := m.Called(ctx, bucket, key, rangeHeader)
	return args.Get(0).(*domain.ObjectStream), args.Error(1)
}

func (m *MockStorage) PresignPost(ctx context.Context, policy domain.PostPolicy) (*domain.PresignedPost, error) {
	args := m.Called(ctx, policy)
	return args.Get(0).(*domain.PresignedPost), args.Error(1)
}

func (m *MockStorage) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) ListPage(ctx context.Context, bucket, prefix, continuationToken string, maxKeys int) (*domain.ObjectPage, error) {
	args := m.Called(ctx, bucket, prefix, continuationToken, maxKeys)
	return args.Get(0).(*domain.ObjectPage), args.Error(1)
}

func (m *MockStorage) DeleteBatch(ctx context.Context, bucket string, keys []string) error {
	args := m.Called(ctx, bucket, keys)
	return args.Error(0)
}

func (m *MockStorage) DeleteObject(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}
