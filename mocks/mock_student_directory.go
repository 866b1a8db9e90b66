package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"khushi/internal/domain"
)

// MockStudentDirectory is a mock implementation of port.StudentDirectory.
type MockStudentDirectory struct {
	mock.Mock
}

func (m *MockStudentDirectory) GetStudent(ctx context.Context, tenantID, studentID uuid.UUID) (*domain.Student, error) {
	args := m.Called(ctx, tenantID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentDirectory) GetStudentByAdmissionNo(ctx context.Context, tenantID uuid.UUID, admissionNo string) (*domain.Student, error) {
	args := m.Called(ctx, tenantID, admissionNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentDirectory) GetClass(ctx context.Context, tenantID, classID uuid.UUID) (*domain.Class, error) {
	args := m.Called(ctx, tenantID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Class), args.Error(1)
}

func (m *MockStudentDirectory) GetClassByName(ctx context.Context, tenantID uuid.UUID, name string) (*domain.Class, error) {
	args := m.Called(ctx, tenantID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Class), args.Error(1)
}

func (m *MockStudentDirectory) ListStudents(ctx context.Context, tenantID uuid.UUID, classID *uuid.UUID) ([]domain.Student, error) {
	args := m.Called(ctx, tenantID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentDirectory) ListClasses(ctx context.Context, tenantID uuid.UUID) ([]domain.Class, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Class), args.Error(1)
}
