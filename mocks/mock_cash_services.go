package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"khushi/internal/domain"
	"khushi/internal/service"
)

// MockCashSessionService is a mock implementation of service.CashSessionService.
type MockCashSessionService struct {
	mock.Mock
}

func (m *MockCashSessionService) GetOrCreate(ctx context.Context, tenantID, userID uuid.UUID) (*domain.CashSession, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockCashSessionService) RecordTransaction(ctx context.Context, input *service.RecordTransactionInput) (*domain.CashTransaction, *domain.CashSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.CashTransaction), args.Get(1).(*domain.CashSession), args.Error(2)
}

func (m *MockCashSessionService) Close(ctx context.Context, input *service.CloseSessionInput) (*service.CloseSessionResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CloseSessionResult), args.Error(1)
}

func (m *MockCashSessionService) GetByID(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.CashSession, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockCashSessionService) GetSummary(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.SessionSummary, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionSummary), args.Error(1)
}

func (m *MockCashSessionService) ListTransactions(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.CashTransaction, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashTransaction), args.Error(1)
}

func (m *MockCashSessionService) ListHistory(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.CashSession, int, error) {
	args := m.Called(ctx, tenantID, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.CashSession), args.Int(1), args.Error(2)
}

func (m *MockCashSessionService) ListActive(ctx context.Context, tenantID uuid.UUID) ([]domain.CashSession, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashSession), args.Error(1)
}

// MockAccountantService is a mock implementation of service.AccountantService.
type MockAccountantService struct {
	mock.Mock
}

func (m *MockAccountantService) UpdateBalance(ctx context.Context, input *service.UpdateBalanceInput) (*domain.AccountantProfile, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountantProfile), args.Error(1)
}

func (m *MockAccountantService) GetProfile(ctx context.Context, tenantID, userID uuid.UUID) (*domain.AccountantProfile, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountantProfile), args.Error(1)
}

func (m *MockAccountantService) ListTransactions(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.BalanceTransaction, int, error) {
	args := m.Called(ctx, tenantID, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BalanceTransaction), args.Int(1), args.Error(2)
}

func (m *MockAccountantService) SetOpeningBalance(ctx context.Context, tenantID, userID uuid.UUID, amount decimal.Decimal) (*domain.AccountantProfile, error) {
	args := m.Called(ctx, tenantID, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountantProfile), args.Error(1)
}

func (m *MockAccountantService) GetDailySummary(ctx context.Context, tenantID, userID uuid.UUID, date time.Time) (*domain.DailySummary, error) {
	args := m.Called(ctx, tenantID, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailySummary), args.Error(1)
}

func (m *MockAccountantService) VerifyDailySummary(ctx context.Context, tenantID, summaryID, verifiedBy uuid.UUID) (*domain.DailySummary, error) {
	args := m.Called(ctx, tenantID, summaryID, verifiedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailySummary), args.Error(1)
}
