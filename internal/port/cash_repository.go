package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"khushi/internal/domain"
)

// CashSessionRepository defines the contract for cash sessions and their
// append-only transaction ledger.
type CashSessionRepository interface {
	// Create returns domain.ErrOpenSessionExists when the collector already
	// has an open session for the same day.
	Create(ctx context.Context, session *domain.CashSession) error
	GetByID(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.CashSession, error)
	GetOpenForDate(ctx context.Context, tenantID, userID uuid.UUID, day time.Time) (*domain.CashSession, error)
	GetLatestClosed(ctx context.Context, tenantID, userID uuid.UUID) (*domain.CashSession, error)
	// PostTransaction inserts tx and increments the session balances in one
	// database transaction. A closed session yields domain.ErrSessionClosed.
	PostTransaction(ctx context.Context, tx *domain.CashTransaction) (*domain.CashSession, error)
	// Close persists the closing fields of session when its version still
	// equals expectedVersion.
	Close(ctx context.Context, session *domain.CashSession, expectedVersion int64) error
	ListTransactions(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.CashTransaction, error)
	SummarizeTransactions(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.MethodBreakdown, error)
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.CashSession, int, error)
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]domain.CashSession, error)
}

// AccountantRepository defines the contract for collector balance profiles.
type AccountantRepository interface {
	GetProfile(ctx context.Context, tenantID, userID uuid.UUID) (*domain.AccountantProfile, error)
	// ApplyTransaction creates the profile if missing, applies the signed
	// deltas of tx atomically and appends tx with its resulting balance.
	ApplyTransaction(ctx context.Context, tx *domain.BalanceTransaction) (*domain.AccountantProfile, error)
	SetOpeningBalance(ctx context.Context, tenantID, userID uuid.UUID, amount decimal.Decimal) (*domain.AccountantProfile, error)
	ListTransactions(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.BalanceTransaction, int, error)
}

// DailySummaryRepository defines the contract for per-day collector summaries.
type DailySummaryRepository interface {
	// Upsert writes the summary keyed by (tenant, user, date). A verified row
	// is returned unchanged.
	Upsert(ctx context.Context, summary *domain.DailySummary) (*domain.DailySummary, error)
	GetByID(ctx context.Context, tenantID, summaryID uuid.UUID) (*domain.DailySummary, error)
	GetByDate(ctx context.Context, tenantID, userID uuid.UUID, day time.Time) (*domain.DailySummary, error)
	GetLatestBefore(ctx context.Context, tenantID, userID uuid.UUID, day time.Time) (*domain.DailySummary, error)
	Verify(ctx context.Context, tenantID, summaryID, verifiedBy uuid.UUID, at time.Time) error
}
