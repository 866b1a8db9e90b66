package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"khushi/internal/domain"
	"khushi/internal/service"
)

// MockChallanService is a mock implementation of service.ChallanService.
type MockChallanService struct {
	mock.Mock
}

func (m *MockChallanService) CreateFromCategory(ctx context.Context, input *service.CreateChallanInput) (*domain.Challan, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Challan), args.Error(1)
}

func (m *MockChallanService) CreateBulk(ctx context.Context, input *service.BulkChallanInput) (*service.BulkChallanResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BulkChallanResult), args.Error(1)
}

func (m *MockChallanService) GetByID(ctx context.Context, tenantID, challanID uuid.UUID) (*domain.Challan, error) {
	args := m.Called(ctx, tenantID, challanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Challan), args.Error(1)
}

func (m *MockChallanService) GetWithPayments(ctx context.Context, tenantID, challanID uuid.UUID) (*service.ChallanWithPayments, error) {
	args := m.Called(ctx, tenantID, challanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChallanWithPayments), args.Error(1)
}

func (m *MockChallanService) ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]domain.Challan, error) {
	args := m.Called(ctx, tenantID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Challan), args.Error(1)
}

func (m *MockChallanService) ListByClass(ctx context.Context, tenantID, classID uuid.UUID) ([]domain.Challan, error) {
	args := m.Called(ctx, tenantID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Challan), args.Error(1)
}

func (m *MockChallanService) ListByStatus(ctx context.Context, tenantID uuid.UUID, status domain.ChallanStatus) ([]domain.Challan, error) {
	args := m.Called(ctx, tenantID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Challan), args.Error(1)
}

func (m *MockChallanService) Search(ctx context.Context, filter domain.ChallanFilter) ([]domain.Challan, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Challan), args.Int(1), args.Error(2)
}

func (m *MockChallanService) Update(ctx context.Context, input *service.UpdateChallanInput) (*domain.Challan, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Challan), args.Error(1)
}

func (m *MockChallanService) Delete(ctx context.Context, tenantID, challanID uuid.UUID) error {
	args := m.Called(ctx, tenantID, challanID)
	return args.Error(0)
}

// MockStatusEngine is a mock implementation of service.StatusEngine.
type MockStatusEngine struct {
	mock.Mock
}

func (m *MockStatusEngine) Recompute(ctx context.Context, tenantID, challanID uuid.UUID) (*domain.Challan, error) {
	args := m.Called(ctx, tenantID, challanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Challan), args.Error(1)
}

// MockPaymentService is a mock implementation of service.PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Record(ctx context.Context, input *service.RecordPaymentInput) (*service.PaymentResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentResult), args.Error(1)
}

func (m *MockPaymentService) GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, tenantID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ListByChallan(ctx context.Context, tenantID, challanID uuid.UUID) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, challanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentService) ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]domain.Payment, error) {
	args := m.Called(ctx, tenantID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentService) Update(ctx context.Context, input *service.UpdatePaymentInput) (*service.PaymentResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentResult), args.Error(1)
}

func (m *MockPaymentService) Delete(ctx context.Context, tenantID, paymentID uuid.UUID) error {
	args := m.Called(ctx, tenantID, paymentID)
	return args.Error(0)
}

func (m *MockPaymentService) GetSummaryForStudent(ctx context.Context, tenantID, studentID uuid.UUID) (*domain.StudentPaymentSummary, error) {
	args := m.Called(ctx, tenantID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StudentPaymentSummary), args.Error(1)
}

func (m *MockPaymentService) ListMethods(ctx context.Context, tenantID uuid.UUID) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethod), args.Error(1)
}
