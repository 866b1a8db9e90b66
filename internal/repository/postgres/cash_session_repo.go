package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"khushi/internal/domain"
	"khushi/internal/port"
)

const openSessionPerDayIndex = "uq_cash_sessions_open_per_day"

type cashSessionRepo struct {
	db *sqlx.DB
}

// NewCashSessionRepo creates a new PostgreSQL-backed CashSessionRepository.
func NewCashSessionRepo(db *sqlx.DB) port.CashSessionRepository {
	return &cashSessionRepo{db: db}
}

func (r *cashSessionRepo) Create(ctx context.Context, s *domain.CashSession) error {
	s.UpdatedAt = time.Now().UTC()
	s.Version = 0

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cash_sessions (id, tenant_id, user_id, session_date, opening_balance, opening_balance_by_method,
			current_balance, current_balance_by_method, status, started_at, version, updated_at)
		 VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.TenantID, s.UserID, dateOnly(s.SessionDate), s.OpeningBalance, s.OpeningBalanceByMethod,
		s.CurrentBalance, s.CurrentBalanceByMethod, s.Status, s.StartedAt, s.Version, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, openSessionPerDayIndex) {
			return domain.ErrOpenSessionExists
		}
		return fmt.Errorf("cashSessionRepo.Create: %w", err)
	}
	return nil
}

func (r *cashSessionRepo) GetByID(ctx context.Context, tenantID, sessionID uuid.UUID) (*domain.CashSession, error) {
	var s domain.CashSession
	err := r.db.GetContext(ctx, &s,
		"SELECT * FROM cash_sessions WHERE id = $1 AND tenant_id = $2", sessionID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("cashSessionRepo.GetByID: %w", err)
	}
	return &s, nil
}

func (r *cashSessionRepo) GetOpenForDate(ctx context.Context, tenantID, userID uuid.UUID, day time.Time) (*domain.CashSession, error) {
	var s domain.CashSession
	err := r.db.GetContext(ctx, &s,
		`SELECT * FROM cash_sessions
		 WHERE tenant_id = $1 AND user_id = $2 AND session_date = $3::date AND status <> 'closed'`,
		tenantID, userID, dateOnly(day))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("cashSessionRepo.GetOpenForDate: %w", err)
	}
	return &s, nil
}

func (r *cashSessionRepo) GetLatestClosed(ctx context.Context, tenantID, userID uuid.UUID) (*domain.CashSession, error) {
	var s domain.CashSession
	err := r.db.GetContext(ctx, &s,
		`SELECT * FROM cash_sessions
		 WHERE tenant_id = $1 AND user_id = $2 AND status = 'closed'
		 ORDER BY closed_at DESC LIMIT 1`,
		tenantID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("cashSessionRepo.GetLatestClosed: %w", err)
	}
	return &s, nil
}

// PostTransaction increments the session balances in place and appends the
// transaction row. Concurrent posts serialize on the session row lock, so no
// increment is lost.
func (r *cashSessionRepo) PostTransaction(ctx context.Context, t *domain.CashTransaction) (*domain.CashSession, error) {
	var session domain.CashSession
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &session,
			`UPDATE cash_sessions
			 SET current_balance = current_balance + $1::numeric,
			     current_balance_by_method = jsonb_set(
			         current_balance_by_method,
			         ARRAY[$2::text],
			         to_jsonb(COALESCE((current_balance_by_method ->> $2::text)::numeric, 0) + $1::numeric)
			     ),
			     version = version + 1,
			     updated_at = NOW()
			 WHERE id = $3 AND tenant_id = $4 AND status <> 'closed'
			 RETURNING *`,
			t.Amount, t.Method, t.SessionID, t.TenantID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return r.closedOrMissing(ctx, tx, t.TenantID, t.SessionID)
			}
			return fmt.Errorf("cashSessionRepo.PostTransaction balance: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO cash_transactions (id, session_id, user_id, tenant_id, payment_id, student_id, amount, method, reference, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			t.ID, t.SessionID, t.UserID, t.TenantID, t.PaymentID, t.StudentID, t.Amount, t.Method, t.Reference, t.CreatedAt)
		if err != nil {
			return fmt.Errorf("cashSessionRepo.PostTransaction insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *cashSessionRepo) closedOrMissing(ctx context.Context, tx *sqlx.Tx, tenantID, sessionID uuid.UUID) error {
	var status domain.SessionStatus
	err := tx.GetContext(ctx, &status,
		"SELECT status FROM cash_sessions WHERE id = $1 AND tenant_id = $2", sessionID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("cashSessionRepo.closedOrMissing: %w", err)
	}
	return domain.ErrSessionClosed
}

// Close writes the reconciliation of s when the row is still open at
// expectedVersion.
func (r *cashSessionRepo) Close(ctx context.Context, s *domain.CashSession, expectedVersion int64) error {
	s.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE cash_sessions
		 SET closing_balance = $1, closing_balance_by_method = $2, discrepancy = $3, discrepancy_by_method = $4,
		     discrepancy_notes = $5, status = $6, closed_at = $7, verified_by = $8,
		     version = version + 1, updated_at = $9
		 WHERE id = $10 AND tenant_id = $11 AND version = $12 AND status <> 'closed'`,
		s.ClosingBalance, s.ClosingBalanceByMethod, s.Discrepancy, s.DiscrepancyByMethod,
		s.DiscrepancyNotes, s.Status, s.ClosedAt, s.VerifiedBy, s.UpdatedAt,
		s.ID, s.TenantID, expectedVersion)
	if err != nil {
		return fmt.Errorf("cashSessionRepo.Close: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		s.Version = expectedVersion + 1
		return nil
	}

	current, err := r.GetByID(ctx, s.TenantID, s.ID)
	if err != nil {
		return err
	}
	if current.IsClosed() {
		return domain.ErrSessionAlreadyClosed
	}
	return domain.ErrStaleVersion
}

func (r *cashSessionRepo) ListTransactions(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.CashTransaction, error) {
	var txs []domain.CashTransaction
	err := r.db.SelectContext(ctx, &txs,
		`SELECT * FROM cash_transactions WHERE tenant_id = $1 AND session_id = $2
		 ORDER BY created_at`, tenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("cashSessionRepo.ListTransactions: %w", err)
	}
	return txs, nil
}

func (r *cashSessionRepo) SummarizeTransactions(ctx context.Context, tenantID, sessionID uuid.UUID) ([]domain.MethodBreakdown, error) {
	var breakdown []domain.MethodBreakdown
	err := r.db.SelectContext(ctx, &breakdown,
		`SELECT method, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total
		 FROM cash_transactions WHERE tenant_id = $1 AND session_id = $2
		 GROUP BY method ORDER BY method`, tenantID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("cashSessionRepo.SummarizeTransactions: %w", err)
	}
	return breakdown, nil
}

func (r *cashSessionRepo) ListByUser(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.CashSession, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM cash_sessions WHERE tenant_id = $1 AND user_id = $2", tenantID, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("cashSessionRepo.ListByUser count: %w", err)
	}

	var sessions []domain.CashSession
	err = r.db.SelectContext(ctx, &sessions,
		`SELECT * FROM cash_sessions WHERE tenant_id = $1 AND user_id = $2
		 ORDER BY session_date DESC, started_at DESC LIMIT $3 OFFSET $4`,
		tenantID, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("cashSessionRepo.ListByUser: %w", err)
	}
	return sessions, total, nil
}

func (r *cashSessionRepo) ListActive(ctx context.Context, tenantID uuid.UUID) ([]domain.CashSession, error) {
	var sessions []domain.CashSession
	err := r.db.SelectContext(ctx, &sessions,
		`SELECT * FROM cash_sessions WHERE tenant_id = $1 AND status <> 'closed'
		 ORDER BY session_date DESC, started_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("cashSessionRepo.ListActive: %w", err)
	}
	return sessions, nil
}
