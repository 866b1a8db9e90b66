package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"khushi/internal/domain"
)

// MockChallanRepo is a mock implementation of port.ChallanRepository.
type MockChallanRepo struct {
	mock.Mock
}

func (m *MockChallanRepo) Create(ctx context.Context, challan *domain.Challan) error {
	args := m.Called(ctx, challan)
	return args.Error(0)
}

func (m *MockChallanRepo) GetByID(ctx context.Context, tenantID, challanID uuid.UUID) (*domain.Challan, error) {
	args := m.Called(ctx, tenantID, challanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Challan), args.Error(1)
}

func (m *MockChallanRepo) List(ctx context.Context, filter domain.ChallanFilter) ([]domain.Challan, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Challan), args.Int(1), args.Error(2)
}

func (m *MockChallanRepo) UpdateDetails(ctx context.Context, challan *domain.Challan) error {
	args := m.Called(ctx, challan)
	return args.Error(0)
}

func (m *MockChallanRepo) UpdateSettlement(ctx context.Context, tenantID, challanID uuid.UUID, s domain.Settlement, expectedVersion int64) error {
	args := m.Called(ctx, tenantID, challanID, s, expectedVersion)
	return args.Error(0)
}

func (m *MockChallanRepo) Reprice(ctx context.Context, challan *domain.Challan, expectedVersion int64) error {
	args := m.Called(ctx, challan, expectedVersion)
	return args.Error(0)
}

func (m *MockChallanRepo) Delete(ctx context.Context, tenantID, challanID uuid.UUID) error {
	args := m.Called(ctx, tenantID, challanID)
	return args.Error(0)
}

// MockPaymentRepo is a mock implementation of port.PaymentRepository.
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) ListByChallan(ctx context.Context, tenantID, challanID uuid.UUID) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, challanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) ListByCollector(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) CountByChallan(ctx context.Context, tenantID, challanID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID, challanID)
	return args.Int(0), args.Error(1)
}

func (m *MockPaymentRepo) Update(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepo) Delete(ctx context.Context, tenantID, paymentID uuid.UUID) error {
	args := m.Called(ctx, tenantID, paymentID)
	return args.Error(0)
}

// MockPaymentMethodRepo is a mock implementation of port.PaymentMethodRepository.
type MockPaymentMethodRepo struct {
	mock.Mock
}

func (m *MockPaymentMethodRepo) Upsert(ctx context.Context, tenantID uuid.UUID, name string) error {
	args := m.Called(ctx, tenantID, name)
	return args.Error(0)
}

func (m *MockPaymentMethodRepo) List(ctx context.Context, tenantID uuid.UUID) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethod), args.Error(1)
}
