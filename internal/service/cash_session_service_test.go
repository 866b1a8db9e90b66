package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"khushi/internal/domain"
	"khushi/internal/service"
	"khushi/mocks"
)

func setupCashSessionService() (service.CashSessionService, *mocks.MockCashSessionRepo) {
	sessionRepo := new(mocks.MockCashSessionRepo)
	svc := service.NewCashSessionService(sessionRepo, 3, time.UTC, zap.NewNop())
	return svc, sessionRepo
}

var anyDay = mock.AnythingOfType("time.Time")

func activeSession(tenantID, userID uuid.UUID, version int64, byMethod domain.MethodBalances) *domain.CashSession {
	return &domain.CashSession{
		ID:                     uuid.New(),
		TenantID:               tenantID,
		UserID:                 userID,
		OpeningBalance:         decimal.Zero,
		OpeningBalanceByMethod: domain.MethodBalances{},
		CurrentBalance:         byMethod.Total(),
		CurrentBalanceByMethod: byMethod,
		Status:                 domain.SessionStatusActive,
		Version:                version,
	}
}

// --- GetOrCreate ---

func TestCashSessionService_GetOrCreate_ReturnsOpenSession(t *testing.T) {
	svc, repo := setupCashSessionService()
	tenantID, userID := uuid.New(), uuid.New()
	open := activeSession(tenantID, userID, 1, domain.MethodBalances{})

	repo.On("GetOpenForDate", mock.Anything, tenantID, userID, anyDay).Return(open, nil)

	session, err := svc.GetOrCreate(context.Background(), tenantID, userID)

	require.NoError(t, err)
	assert.Equal(t, open, session)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCashSessionService_GetOrCreate_CarriesForwardClosingBalance(t *testing.T) {
	svc, repo := setupCashSessionService()
	tenantID, userID := uuid.New(), uuid.New()
	previous := activeSession(tenantID, userID, 5, domain.MethodBalances{})
	previous.Status = domain.SessionStatusClosed
	previous.ClosingBalance = decimal.NewNullDecimal(amt("900"))
	previous.ClosingBalanceByMethod = domain.MethodBalances{"cash": amt("700"), "upi": amt("200")}

	repo.On("GetOpenForDate", mock.Anything, tenantID, userID, anyDay).Return(nil, domain.ErrSessionNotFound)
	repo.On("GetLatestClosed", mock.Anything, tenantID, userID).Return(previous, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CashSession")).Return(nil)

	session, err := svc.GetOrCreate(context.Background(), tenantID, userID)

	require.NoError(t, err)
	assert.True(t, session.OpeningBalance.Equal(amt("900")))
	assert.True(t, session.CurrentBalance.Equal(amt("900")))
	assert.True(t, session.OpeningBalanceByMethod.Get("cash").Equal(amt("700")))
	assert.True(t, session.CurrentBalanceByMethod.Get("upi").Equal(amt("200")))
	assert.Equal(t, domain.SessionStatusActive, session.Status)
	assert.Equal(t, time.UTC, session.SessionDate.Location())
	assert.Zero(t, session.SessionDate.Hour())
}

func TestCashSessionService_GetOrCreate_FirstSessionOpensAtZero(t *testing.T) {
	svc, repo := setupCashSessionService()
	tenantID, userID := uuid.New(), uuid.New()

	repo.On("GetOpenForDate", mock.Anything, tenantID, userID, anyDay).Return(nil, domain.ErrSessionNotFound)
	repo.On("GetLatestClosed", mock.Anything, tenantID, userID).Return(nil, domain.ErrSessionNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CashSession")).Return(nil)

	session, err := svc.GetOrCreate(context.Background(), tenantID, userID)

	require.NoError(t, err)
	assert.True(t, session.OpeningBalance.IsZero())
	assert.Empty(t, session.OpeningBalanceByMethod)
}

func TestCashSessionService_GetOrCreate_LostRaceRereads(t *testing.T) {
	svc, repo := setupCashSessionService()
	tenantID, userID := uuid.New(), uuid.New()
	winner := activeSession(tenantID, userID, 1, domain.MethodBalances{})

	repo.On("GetOpenForDate", mock.Anything, tenantID, userID, anyDay).Return(nil, domain.ErrSessionNotFound).Once()
	repo.On("GetLatestClosed", mock.Anything, tenantID, userID).Return(nil, domain.ErrSessionNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.CashSession")).Return(domain.ErrOpenSessionExists)
	repo.On("GetOpenForDate", mock.Anything, tenantID, userID, anyDay).Return(winner, nil).Once()

	session, err := svc.GetOrCreate(context.Background(), tenantID, userID)

	require.NoError(t, err)
	assert.Equal(t, winner.ID, session.ID)
	repo.AssertNumberOfCalls(t, "GetOpenForDate", 2)
}

// --- RecordTransaction ---

func TestCashSessionService_RecordTransaction(t *testing.T) {
	svc, repo := setupCashSessionService()
	tenantID, userID := uuid.New(), uuid.New()
	after := activeSession(tenantID, userID, 2, domain.MethodBalances{"cash": amt("150")})

	repo.On("PostTransaction", mock.Anything, mock.MatchedBy(func(tx *domain.CashTransaction) bool {
		return tx.SessionID == after.ID && tx.Method == "cash" && tx.Amount.Equal(amt("150"))
	})).Return(after, nil)

	tx, session, err := svc.RecordTransaction(context.Background(), &service.RecordTransactionInput{
		TenantID:  tenantID,
		SessionID: after.ID,
		UserID:    userID,
		Amount:    amt("150"),
		Method:    "Cash",
	})

	require.NoError(t, err)
	assert.Equal(t, after.ID, tx.SessionID)
	assert.True(t, session.CurrentBalanceByMethod.Get("cash").Equal(amt("150")))
}

func TestCashSessionService_RecordTransaction_ClosedSession(t *testing.T) {
	svc, repo := setupCashSessionService()

	repo.On("PostTransaction", mock.Anything, mock.Anything).Return(nil, domain.ErrSessionClosed)

	_, _, err := svc.RecordTransaction(context.Background(), &service.RecordTransactionInput{
		TenantID:  uuid.New(),
		SessionID: uuid.New(),
		UserID:    uuid.New(),
		Amount:    amt("10"),
		Method:    "cash",
	})

	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCashSessionService_RecordTransaction_ZeroAmount(t *testing.T) {
	svc, repo := setupCashSessionService()

	_, _, err := svc.RecordTransaction(context.Background(), &service.RecordTransactionInput{
		TenantID:  uuid.New(),
		SessionID: uuid.New(),
		UserID:    uuid.New(),
		Amount:    decimal.Zero,
		Method:    "cash",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	repo.AssertNotCalled(t, "PostTransaction", mock.Anything, mock.Anything)
}

// --- Close ---

func TestCashSessionService_Close_Reconciles(t *testing.T) {
	svc, repo := setupCashSessionService()
	tenantID, userID, verifier := uuid.New(), uuid.New(), uuid.New()
	session := activeSession(tenantID, userID, 4, domain.MethodBalances{"cash": amt("1000"), "upi": amt("250")})

	repo.On("GetByID", mock.Anything, tenantID, session.ID).Return(session, nil)
	repo.On("Close", mock.Anything, mock.AnythingOfType("*domain.CashSession"), int64(4)).Return(nil)

	result, err := svc.Close(context.Background(), &service.CloseSessionInput{
		TenantID:               tenantID,
		SessionID:              session.ID,
		ClosingBalanceByMethod: domain.MethodBalances{"cash": amt("950"), "upi": amt("250")},
		DiscrepancyNotes:       "short 50",
		VerifiedBy:             verifier,
	})

	require.NoError(t, err)
	assert.True(t, result.Reconciliation.Expected.Equal(amt("1250")))
	assert.True(t, result.Reconciliation.Actual.Equal(amt("1200")))
	assert.True(t, result.Reconciliation.Discrepancy.Equal(amt("-50")))
	assert.True(t, result.Reconciliation.DiscrepancyByMethod.Get("cash").Equal(amt("-50")))
	assert.True(t, result.Session.IsClosed())
	assert.Equal(t, verifier, *result.Session.VerifiedBy)
	assert.Equal(t, "short 50", result.Session.DiscrepancyNotes)
}

func TestCashSessionService_Close_AlreadyClosed(t *testing.T) {
	svc, repo := setupCashSessionService()
	tenantID := uuid.New()
	session := activeSession(tenantID, uuid.New(), 7, domain.MethodBalances{})
	session.Status = domain.SessionStatusClosed

	repo.On("GetByID", mock.Anything, tenantID, session.ID).Return(session, nil)

	_, err := svc.Close(context.Background(), &service.CloseSessionInput{TenantID: tenantID, SessionID: session.ID, VerifiedBy: uuid.New()})

	assert.ErrorIs(t, err, domain.ErrSessionAlreadyClosed)
	assert.ErrorIs(t, err, domain.ErrConflict)
	repo.AssertNotCalled(t, "Close", mock.Anything, mock.Anything, mock.Anything)
}

func TestCashSessionService_Close_RetriesWhenPostLandsFirst(t *testing.T) {
	svc, repo := setupCashSessionService()
	tenantID, userID := uuid.New(), uuid.New()
	before := activeSession(tenantID, userID, 2, domain.MethodBalances{"cash": amt("100")})
	after := activeSession(tenantID, userID, 3, domain.MethodBalances{"cash": amt("160")})
	after.ID = before.ID

	repo.On("GetByID", mock.Anything, tenantID, before.ID).Return(before, nil).Once()
	repo.On("GetByID", mock.Anything, tenantID, before.ID).Return(after, nil).Once()
	repo.On("Close", mock.Anything, mock.Anything, int64(2)).Return(domain.ErrStaleVersion)
	repo.On("Close", mock.Anything, mock.Anything, int64(3)).Return(nil)

	result, err := svc.Close(context.Background(), &service.CloseSessionInput{
		TenantID:               tenantID,
		SessionID:              before.ID,
		ClosingBalanceByMethod: domain.MethodBalances{"cash": amt("160")},
		VerifiedBy:             userID,
	})

	require.NoError(t, err)
	assert.True(t, result.Reconciliation.Expected.Equal(amt("160")))
	assert.True(t, result.Reconciliation.Discrepancy.IsZero())
	repo.AssertNumberOfCalls(t, "Close", 2)
}

func TestCashSessionService_Close_NegativeAmount(t *testing.T) {
	svc, repo := setupCashSessionService()

	_, err := svc.Close(context.Background(), &service.CloseSessionInput{
		TenantID:               uuid.New(),
		SessionID:              uuid.New(),
		ClosingBalanceByMethod: domain.MethodBalances{"cash": amt("-1")},
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

// --- Summary ---

func TestCashSessionService_GetSummary(t *testing.T) {
	svc, repo := setupCashSessionService()
	tenantID := uuid.New()
	session := activeSession(tenantID, uuid.New(), 1, domain.MethodBalances{})

	repo.On("GetByID", mock.Anything, tenantID, session.ID).Return(session, nil)
	repo.On("SummarizeTransactions", mock.Anything, tenantID, session.ID).Return([]domain.MethodBreakdown{
		{Method: "cash", Count: 3, Total: amt("450")},
		{Method: "upi", Count: 1, Total: amt("200")},
	}, nil)

	summary, err := svc.GetSummary(context.Background(), tenantID, session.ID)

	require.NoError(t, err)
	assert.Equal(t, 4, summary.TransactionCount)
	assert.True(t, summary.TransactionTotal.Equal(amt("650")))
	assert.Len(t, summary.ByMethod, 2)
}
