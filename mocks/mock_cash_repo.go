package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"khushi/internal/domain"
)

// MockCashSessionRepo is a mock implementation of port.CashSessionRepository.
type MockCashSessionRepo struct {
	mock.Mock
}

func (m *MockCashSessionRepo) Create(ctx context.Context, session *domain.CashSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockCashSessionRepo) GetByID(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.CashSession, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockCashSessionRepo) GetOpenForDate(ctx context.Context, tenantID, userID uuid.UUID, day time.Time) (*domain.CashSession, error) {
	args := m.Called(ctx, tenantID, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockCashSessionRepo) GetLatestClosed(ctx context.Context, tenantID, userID uuid.UUID) (*domain.CashSession, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockCashSessionRepo) PostTransaction(ctx context.Context, tx *domain.CashTransaction) (*domain.CashSession, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockCashSessionRepo) Close(ctx context.Context, session *domain.CashSession, expectedVersion int64) error {
	args := m.Called(ctx, session, expectedVersion)
	return args.Error(0)
}

func (m *MockCashSessionRepo) ListTransactions(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.CashTransaction, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashTransaction), args.Error(1)
}

func (m *MockCashSessionRepo) SummarizeTransactions(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.MethodBreakdown, error) {
	args := m.Called(ctx, tenantID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MethodBreakdown), args.Error(1)
}

func (m *MockCashSessionRepo) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.CashSession, int, error) {
	args := m.Called(ctx, tenantID, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.CashSession), args.Int(1), args.Error(2)
}

func (m *MockCashSessionRepo) ListActive(ctx context.Context, tenantID uuid.UUID) ([]domain.CashSession, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashSession), args.Error(1)
}

// MockAccountantRepo is a mock implementation of port.AccountantRepository.
type MockAccountantRepo struct {
	mock.Mock
}

func (m *MockAccountantRepo) GetProfile(ctx context.Context, tenantID, userID uuid.UUID) (*domain.AccountantProfile, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountantProfile), args.Error(1)
}

func (m *MockAccountantRepo) ApplyTransaction(ctx context.Context, tx *domain.BalanceTransaction) (*domain.AccountantProfile, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountantProfile), args.Error(1)
}

func (m *MockAccountantRepo) SetOpeningBalance(ctx context.Context, tenantID, userID uuid.UUID, amount decimal.Decimal) (*domain.AccountantProfile, error) {
	args := m.Called(ctx, tenantID, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountantProfile), args.Error(1)
}

func (m *MockAccountantRepo) ListTransactions(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.BalanceTransaction, int, error) {
	args := m.Called(ctx, tenantID, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BalanceTransaction), args.Int(1), args.Error(2)
}

// MockDailySummaryRepo is a mock implementation of port.DailySummaryRepository.
type MockDailySummaryRepo struct {
	mock.Mock
}

func (m *MockDailySummaryRepo) Upsert(ctx context.Context, summary *domain.DailySummary) (*domain.DailySummary, error) {
	args := m.Called(ctx, summary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailySummary), args.Error(1)
}

func (m *MockDailySummaryRepo) GetByID(ctx context.Context, tenantID, summaryID uuid.UUID) (*domain.DailySummary, error) {
	args := m.Called(ctx, tenantID, summaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailySummary), args.Error(1)
}

func (m *MockDailySummaryRepo) GetByDate(ctx context.Context, tenantID, userID uuid.UUID, day time.Time) (*domain.DailySummary, error) {
	args := m.Called(ctx, tenantID, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailySummary), args.Error(1)
}

func (m *MockDailySummaryRepo) GetLatestBefore(ctx context.Context, tenantID, userID uuid.UUID, day time.Time) (*domain.DailySummary, error) {
	args := m.Called(ctx, tenantID, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailySummary), args.Error(1)
}

func (m *MockDailySummaryRepo) Verify(ctx context.Context, tenantID, summaryID, verifiedBy uuid.UUID, at time.Time) error {
	args := m.Called(ctx, tenantID, summaryID, verifiedBy, at)
	return args.Error(0)
}
