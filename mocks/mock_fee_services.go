package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"khushi/internal/domain"
	"khushi/internal/service"
)

// MockFeeCategoryService is a mock implementation of service.FeeCategoryService.
type MockFeeCategoryService struct {
	mock.Mock
}

func (m *MockFeeCategoryService) Create(ctx context.Context, input *service.CreateCategoryInput) (*domain.FeeCategory, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryService) GetByID(ctx context.Context, tenantID, categoryID uuid.UUID) (*domain.FeeCategory, error) {
	args := m.Called(ctx, tenantID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryService) List(ctx context.Context, tenantID uuid.UUID, includeArchived bool) ([]domain.FeeCategory, error) {
	args := m.Called(ctx, tenantID, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryService) Update(ctx context.Context, input *service.UpdateCategoryInput) (*domain.FeeCategory, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryService) Archive(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Error(0)
}

func (m *MockFeeCategoryService) Unarchive(ctx context.Context, tenantID, categoryID uuid.UUID) (*domain.FeeCategory, error) {
	args := m.Called(ctx, tenantID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryService) Duplicate(ctx context.Context, tenantID, categoryID uuid.UUID, newName string, createdBy uuid.UUID) (*domain.FeeCategory, error) {
	args := m.Called(ctx, tenantID, categoryID, newName, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeCategory), args.Error(1)
}

func (m *MockFeeCategoryService) Delete(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	args := m.Called(ctx, tenantID, categoryID)
	return args.Error(0)
}

func (m *MockFeeCategoryService) CreateSnapshot(ctx context.Context, tenantID, categoryID uuid.UUID) (*domain.CategorySnapshot, error) {
	args := m.Called(ctx, tenantID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategorySnapshot), args.Error(1)
}

func (m *MockFeeCategoryService) ListSnapshots(ctx context.Context, tenantID, categoryID uuid.UUID) ([]domain.CategorySnapshot, error) {
	args := m.Called(ctx, tenantID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategorySnapshot), args.Error(1)
}

func (m *MockFeeCategoryService) GetSnapshot(ctx context.Context, tenantID, snapshotID uuid.UUID) (*domain.CategorySnapshot, error) {
	args := m.Called(ctx, tenantID, snapshotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategorySnapshot), args.Error(1)
}

// MockClassFeeService is a mock implementation of service.ClassFeeService.
type MockClassFeeService struct {
	mock.Mock
}

func (m *MockClassFeeService) Assign(ctx context.Context, input *service.AssignCategoryInput) (*service.AssignmentResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AssignmentResult), args.Error(1)
}

func (m *MockClassFeeService) GetActiveCategoryForClass(ctx context.Context, tenantID, classID uuid.UUID) (*domain.FeeCategory, error) {
	args := m.Called(ctx, tenantID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeCategory), args.Error(1)
}

func (m *MockClassFeeService) GetHistory(ctx context.Context, tenantID, classID uuid.UUID) ([]domain.ClassFeeAssignment, error) {
	args := m.Called(ctx, tenantID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassFeeAssignment), args.Error(1)
}

func (m *MockClassFeeService) ListClassesUsingCategory(ctx context.Context, tenantID, categoryID uuid.UUID) ([]domain.ClassFeeAssignment, error) {
	args := m.Called(ctx, tenantID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClassFeeAssignment), args.Error(1)
}

func (m *MockClassFeeService) Remove(ctx context.Context, tenantID, classID uuid.UUID) error {
	args := m.Called(ctx, tenantID, classID)
	return args.Error(0)
}

// MockStatsService is a mock implementation of service.StatsService.
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetFeeStats(ctx context.Context, tenantID uuid.UUID, classID *uuid.UUID) (*domain.FeeStats, error) {
	args := m.Called(ctx, tenantID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeStats), args.Error(1)
}
