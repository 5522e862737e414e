package repository

import (
	"context"
	"media-pipeline/internal/core/domain"
	"media-pipeline/internal/core/port"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockAssetRepository struct {
	mock.Mock
}

func NewMockAssetRepository() *MockAssetRepository {
	return &MockAssetRepository{}
}

func (m *MockAssetRepository) Create(ctx context.Context, asset domain.Asset) (int64, error) {
	args := m.Called(ctx, asset)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssetRepository) FindByID(ctx context.Context, id int64) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindByLocation(ctx context.Context, bucket, key string) (*domain.Asset, error) {
	args := m.Called(ctx, bucket, key)
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) MarkUploaded(ctx context.Context, id int64, sizeBytes int64) error {
	args := m.Called(ctx, id, sizeBytes)
	return args.Error(0)
}

func (m *MockAssetRepository) MarkSourceDeleted(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockAssetRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssetRepository) FindStaleSigned(ctx context.Context, before time.Time) ([]domain.Asset, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) ListDispatchable(ctx context.Context, kind domain.AssetKind, afterID int64, limit int) ([]domain.Asset, error) {
	args := m.Called(ctx, kind, afterID, limit)
	return args.Get(0).([]domain.Asset), args.Error(1)
}

type MockJobRepository struct {
	mock.Mock
}

func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{}
}

func (m *MockJobRepository) Enqueue(ctx context.Context, jobType domain.JobType, input domain.JobInput) (*domain.Job, error) {
	args := m.Called(ctx, jobType, input)
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepository) FindPending(ctx context.Context, match domain.JobMatch) (*domain.Job, error) {
	args := m.Called(ctx, match)
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepository) FindByID(ctx context.Context, id int64) (*domain.Job, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepository) CancelActiveForAsset(ctx context.Context, assetID int64, reason string) (int64, error) {
	args := m.Called(ctx, assetID, reason)
	return args.Get(0).(int64), args.Error(1)
}

type MockActorRepository struct {
	mock.Mock
}

func NewMockActorRepository() *MockActorRepository {
	return &MockActorRepository{}
}

func (m *MockActorRepository) FindByID(ctx context.Context, id int64) (*domain.Actor, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.Actor), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
	assetRepo *MockAssetRepository
	jobRepo   *MockJobRepository
	actorRepo *MockActorRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		assetRepo: &MockAssetRepository{},
		jobRepo:   &MockJobRepository{},
		actorRepo: &MockActorRepository{},
	}
}

func (m *MockUnitOfWork) AssetRepo() port.AssetRepository {
	return m.assetRepo
}

func (m *MockUnitOfWork) JobRepo() port.JobRepository {
	return m.jobRepo
}

func (m *MockUnitOfWork) ActorRepo() port.ActorRepository {
	return m.actorRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetAssetRepoMock() *MockAssetRepository {
	return m.assetRepo
}

func (m *MockUnitOfWork) GetJobRepoMock() *MockJobRepository {
	return m.jobRepo
}

func (m *MockUnitOfWork) GetActorRepoMock() *MockActorRepository {
	return m.actorRepo
}
