package repository

import (
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockMediaAssetRepository struct {
	mock.Mock
}

func NewMockMediaAssetRepository() *MockMediaAssetRepository {
	return &MockMediaAssetRepository{}
}

func (m *MockMediaAssetRepository) Create(ctx context.Context, asset domain.MediaAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockMediaAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.MediaAsset, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*domain.MediaAsset), args.Error(1)
}

func (m *MockMediaAssetRepository) FindBySessionID(ctx context.Context, sessionID string) (*domain.MediaAsset, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(*domain.MediaAsset), args.Error(1)
}

func (m *MockMediaAssetRepository) UpdateHLSMasterKey(ctx context.Context, id uuid.UUID, masterKey string) error {
	args := m.Called(ctx, id, masterKey)
	return args.Error(0)
}

type MockHLSRenditionRepository struct {
	mock.Mock
}

func NewMockHLSRenditionRepository() *MockHLSRenditionRepository {
	return &MockHLSRenditionRepository{}
}

func (m *MockHLSRenditionRepository) CreateMany(ctx context.Context, renditions []domain.HLSRendition) (int, error) {
	args := m.Called(ctx, renditions)
	return args.Int(0), args.Error(1)
}

func (m *MockHLSRenditionRepository) FindByAssetID(ctx context.Context, assetID uuid.UUID) ([]domain.HLSRendition, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).([]domain.HLSRendition), args.Error(1)
}

func (m *MockHLSRenditionRepository) DeleteByAssetID(ctx context.Context, assetID uuid.UUID) error {
	args := m.Called(ctx, assetID)
	return args.Error(0)
}

type MockUnitOfWork struct {
	mock.Mock
	mediaAssetRepo   *MockMediaAssetRepository
	hlsRenditionRepo *MockHLSRenditionRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		mediaAssetRepo:   &MockMediaAssetRepository{},
		hlsRenditionRepo: &MockHLSRenditionRepository{},
	}
}

func (m *MockUnitOfWork) MediaAssetRepo() port.MediaAssetRepository {
	return m.mediaAssetRepo
}

func (m *MockUnitOfWork) HLSRenditionRepo() port.HLSRenditionRepository {
	return m.hlsRenditionRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetMediaAssetRepoMock() *MockMediaAssetRepository {
	return m.mediaAssetRepo
}

func (m *MockUnitOfWork) GetHLSRenditionRepoMock() *MockHLSRenditionRepository {
	return m.hlsRenditionRepo
}
