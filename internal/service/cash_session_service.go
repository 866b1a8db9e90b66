package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"khushi/internal/domain"
	"khushi/internal/port"
)

// RecordTransactionInput is the DTO for posting cash to a session.
type RecordTransactionInput struct {
	TenantID  uuid.UUID
	SessionID uuid.UUID
	UserID    uuid.UUID
	PaymentID *uuid.UUID
	StudentID *uuid.UUID
	Amount    decimal.Decimal
	Method    string
	Reference string
}

// CloseSessionInput is the DTO for closing a session with declared amounts.
type CloseSessionInput struct {
	TenantID               uuid.UUID
	SessionID              uuid.UUID
	ClosingBalanceByMethod domain.MethodBalances
	DiscrepancyNotes       string
	VerifiedBy             uuid.UUID
}

// CloseSessionResult carries the closed session and how it reconciled.
type CloseSessionResult struct {
	Session        *domain.CashSession   `json:"session"`
	Reconciliation domain.Reconciliation `json:"reconciliation"`
}

// CashSessionService defines the per-collector daily cash session contract.
type CashSessionService interface {
	GetOrCreate(ctx context.Context, tenantID, userID uuid.UUID) (*domain.CashSession, error)
	RecordTransaction(ctx context.Context, input *RecordTransactionInput) (*domain.CashTransaction, *domain.CashSession, error)
	Close(ctx context.Context, input *CloseSessionInput) (*CloseSessionResult, error)
	GetByID(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.CashSession, error)
	GetSummary(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.SessionSummary, error)
	ListTransactions(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.CashTransaction, error)
	ListHistory(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.CashSession, int, error)
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]domain.CashSession, error)
}

type cashSessionService struct {
	sessionRepo port.CashSessionRepository
	maxRetries  int
	loc         *time.Location
	log         *zap.Logger
	now         func() time.Time
}

// NewCashSessionService creates a new CashSessionService implementation.
// Session dates are calendar days in loc.
func NewCashSessionService(sessionRepo port.CashSessionRepository, maxRetries int, loc *time.Location, log *zap.Logger) CashSessionService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if loc == nil {
		loc = time.UTC
	}
	return &cashSessionService{
		sessionRepo: sessionRepo,
		maxRetries:  maxRetries,
		loc:         loc,
		log:         log.Named("cashSessionService"),
		now:         time.Now,
	}
}

// GetOrCreate returns the collector's open session for today, opening one
// seeded from the last closed session when none exists. Two concurrent
// callers converge on the same session.
func (s *cashSessionService) GetOrCreate(ctx context.Context, tenantID, userID uuid.UUID) (*domain.CashSession, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	now := s.now()
	day := domain.StartOfDay(now, s.loc)

	session, err := s.sessionRepo.GetOpenForDate(ctx, tenantID, userID, day)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, err
	}

	previous, err := s.sessionRepo.GetLatestClosed(ctx, tenantID, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		previous = nil
	}

	session = domain.NewCashSession(tenantID, userID, day, previous, now)
	err = s.sessionRepo.Create(ctx, session)
	if errors.Is(err, domain.ErrOpenSessionExists) {
		return s.sessionRepo.GetOpenForDate(ctx, tenantID, userID, day)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("cash session opened",
		zap.Stringer("tenant_id", tenantID),
		zap.Stringer("user_id", userID),
		zap.Stringer("session_id", session.ID),
		zap.String("opening_balance", session.OpeningBalance.StringFixed(2)))
	return session, nil
}

// RecordTransaction appends a transaction and applies it to the session
// balances atomically. A closed session rejects the post.
func (s *cashSessionService) RecordTransaction(ctx context.Context, input *RecordTransactionInput) (*domain.CashTransaction, *domain.CashSession, error) {
	if err := requireTenant(input.TenantID); err != nil {
		return nil, nil, err
	}
	tx, err := domain.NewCashTransaction(input.TenantID, input.SessionID, input.UserID, input.PaymentID, input.StudentID,
		input.Amount, input.Method, input.Reference, s.now())
	if err != nil {
		return nil, nil, err
	}
	session, err := s.sessionRepo.PostTransaction(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	return tx, session, nil
}

// Close reconciles the declared closing amounts against the tracked balances
// and closes the session exactly once. A post landing between read and write
// moves the version and forces a fresh reconciliation.
func (s *cashSessionService) Close(ctx context.Context, input *CloseSessionInput) (*CloseSessionResult, error) {
	if err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}
	for method, amount := range input.ClosingBalanceByMethod {
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: closing balance for %q must not be negative", domain.ErrValidation, method)
		}
	}

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		session, err := s.sessionRepo.GetByID(ctx, input.TenantID, input.SessionID)
		if err != nil {
			return nil, err
		}
		if session.IsClosed() {
			return nil, domain.ErrSessionAlreadyClosed
		}

		expectedVersion := session.Version
		rec := domain.Reconcile(session.CurrentBalanceByMethod, input.ClosingBalanceByMethod)
		session.ApplyClose(rec, input.DiscrepancyNotes, input.VerifiedBy, s.now())

		err = s.sessionRepo.Close(ctx, session, expectedVersion)
		if errors.Is(err, domain.ErrStaleVersion) {
			s.log.Debug("cashSessionService.Close: version moved, retrying",
				zap.Stringer("session_id", input.SessionID),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		s.log.Info("cash session closed",
			zap.Stringer("tenant_id", input.TenantID),
			zap.Stringer("session_id", session.ID),
			zap.String("expected", rec.Expected.StringFixed(2)),
			zap.String("actual", rec.Actual.StringFixed(2)),
			zap.String("discrepancy", rec.Discrepancy.StringFixed(2)))
		return &CloseSessionResult{Session: session, Reconciliation: rec}, nil
	}
	return nil, domain.ErrConcurrentUpdate
}

func (s *cashSessionService) GetByID(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.CashSession, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, tenantID, sessionID)
}

func (s *cashSessionService) GetSummary(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.SessionSummary, error) {
	session, err := s.GetByID(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.sessionRepo.SummarizeTransactions(ctx, tenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("cashSessionService.GetSummary: %w", err)
	}
	summary := &domain.SessionSummary{
		Session:          session,
		TransactionTotal: decimal.Zero,
		ByMethod:         breakdown,
	}
	for _, b := range breakdown {
		summary.TransactionCount += b.Count
		summary.TransactionTotal = summary.TransactionTotal.Add(b.Total)
	}
	return summary, nil
}

func (s *cashSessionService) ListTransactions(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.CashTransaction, error) {
	if _, err := s.GetByID(ctx, tenantID, sessionID); err != nil {
		return nil, err
	}
	return s.sessionRepo.ListTransactions(ctx, tenantID, sessionID)
}

func (s *cashSessionService) ListHistory(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.CashSession, int, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, 0, err
	}
	return s.sessionRepo.ListByUser(ctx, tenantID, userID, offset, limit)
}

func (s *cashSessionService) ListActive(ctx context.Context, tenantID uuid.UUID) ([]domain.CashSession, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.sessionRepo.ListActive(ctx, tenantID)
}
