package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"khushi/internal/domain"
)

// MockFeeCategoryRepo is a mock implementation of port.FeeCategoryRepository.
type MockFeeCategoryRepo struct {
	mock.Mock
}

func (m *MockFeeCategoryRepo) Create(ctx context.Context, category *domain.FeeCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockFeeCategoryRepo) GetByID(ctx context.Context, tenantID, categoryID uuid.UUID) (*domain.FeeCategory, error) {
	args := m.Called(ctx, tenantID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryRepo) GetActiveByName(ctx context.Context, tenantID uuid.UUID, name string) (*domain.FeeCategory, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryRepo) List(ctx context.Context, tenantID uuid.UUID, includeArchived bool) ([]domain.FeeCategory, error) {
	args := m.Called(ctx, tenantID, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryRepo) Update(ctx context.Context, category *domain.FeeCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockFeeCategoryRepo) SetArchived(ctx context.Context, tenantID, categoryID uuid.UUID, archived bool) error {
	args := m.Called(ctx, tenantID, categoryID, archived)
	return args.Error(0)
}

func (m *MockFeeCategoryRepo) Delete(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Error(0)
}

// MockSnapshotRepo is a mock implementation of port.SnapshotRepository.
type MockSnapshotRepo struct {
	mock.Mock
}

func (m *MockSnapshotRepo) Create(ctx context.Context, snapshot *domain.CategorySnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepo) GetByID(ctx context.Context, tenantID, snapshotID uuid.UUID) (*domain.CategorySnapshot, error) {
	args := m.Called(ctx, tenantID, snapshotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategorySnapshot), args.Error(1)
}

func (m *MockSnapshotRepo) ListByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) ([]domain.CategorySnapshot, error) {
	args := m.Called(ctx, tenantID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategorySnapshot), args.Error(1)
}

func (m *MockSnapshotRepo) CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Int(0), args.Error(1)
}

func (m *MockSnapshotRepo) LatestByCategory(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]domain.CategorySnapshot, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]domain.CategorySnapshot), args.Error(1)
}

// MockClassFeeAssignmentRepo is a mock implementation of port.ClassFeeAssignmentRepository.
type MockClassFeeAssignmentRepo struct {
	mock.Mock
}

func (m *MockClassFeeAssignmentRepo) Replace(ctx context.Context, a *domain.ClassFeeAssignment) (int, error) {
	args := m.Called(ctx, a)
	return args.Int(0), args.Error(1)
}

func (m *MockClassFeeAssignmentRepo) GetActive(ctx context.Context, tenantID, classID uuid.UUID) (*domain.ClassFeeAssignment, error) {
	args := m.Called(ctx, tenantID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClassFeeAssignment), args.Error(1)
}

func (m *MockClassFeeAssignmentRepo) ListHistory(ctx context.Context, tenantID, classID uuid.UUID) ([]domain.ClassFeeAssignment, error) {
	args := m.Called(ctx, tenantID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassFeeAssignment), args.Error(1)
}

func (m *MockClassFeeAssignmentRepo) ListActiveByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) ([]domain.ClassFeeAssignment, error) {
	args := m.Called(ctx, tenantID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassFeeAssignment), args.Error(1)
}

func (m *MockClassFeeAssignmentRepo) ListActive(ctx context.Context, tenantID uuid.UUID) ([]domain.ClassFeeAssignment, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassFeeAssignment), args.Error(1)
}

func (m *MockClassFeeAssignmentRepo) Deactivate(ctx context.Context, tenantID, classID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID, classID)
	return args.Int(0), args.Error(1)
}
