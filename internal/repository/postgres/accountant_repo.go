package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"khushi/internal/domain"
	"khushi/internal/port"
)

type accountantRepo struct {
	db *sqlx.DB
}

// NewAccountantRepo creates a new PostgreSQL-backed AccountantRepository.
func NewAccountantRepo(db *sqlx.DB) port.AccountantRepository {
	return &accountantRepo{db: db}
}

func (r *accountantRepo) GetProfile(ctx context.Context, tenantID, userID uuid.UUID) (*domain.AccountantProfile, error) {
	var p domain.AccountantProfile
	err := r.db.GetContext(ctx, &p,
		"SELECT * FROM accountant_profiles WHERE tenant_id = $1 AND user_id = $2", tenantID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("accountantRepo.GetProfile: %w", err)
	}
	return &p, nil
}

// ApplyTransaction upserts the profile with the signed deltas of t and
// appends t stamped with the resulting balance, in one transaction.
func (r *accountantRepo) ApplyTransaction(ctx context.Context, t *domain.BalanceTransaction) (*domain.AccountantProfile, error) {
	var profile domain.AccountantProfile
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &profile,
			`INSERT INTO accountant_profiles (id, tenant_id, user_id, opening_balance, current_balance, total_collected, created_at, updated_at)
			 VALUES ($1, $2, $3, 0, $4, $5, NOW(), NOW())
			 ON CONFLICT (tenant_id, user_id) DO UPDATE
			 SET current_balance = accountant_profiles.current_balance + EXCLUDED.current_balance,
			     total_collected = accountant_profiles.total_collected + EXCLUDED.total_collected,
			     updated_at = NOW()
			 RETURNING *`,
			uuid.New(), t.TenantID, t.UserID, t.BalanceDelta(), t.CollectedDelta())
		if err != nil {
			return fmt.Errorf("accountantRepo.ApplyTransaction profile: %w", err)
		}

		t.BalanceAfter = profile.CurrentBalance
		_, err = tx.ExecContext(ctx,
			`INSERT INTO accountant_transactions (id, tenant_id, user_id, type, amount, balance_after, description, recorded_by, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.ID, t.TenantID, t.UserID, t.Type, t.Amount, t.BalanceAfter, t.Description, t.RecordedBy, t.CreatedAt)
		if err != nil {
			return fmt.Errorf("accountantRepo.ApplyTransaction insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetOpeningBalance replaces the opening balance and shifts the current
// balance by the same difference.
func (r *accountantRepo) SetOpeningBalance(ctx context.Context, tenantID, userID uuid.UUID, amount decimal.Decimal) (*domain.AccountantProfile, error) {
	var p domain.AccountantProfile
	err := r.db.GetContext(ctx, &p,
		`INSERT INTO accountant_profiles (id, tenant_id, user_id, opening_balance, current_balance, total_collected, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4, 0, NOW(), NOW())
		 ON CONFLICT (tenant_id, user_id) DO UPDATE
		 SET current_balance = accountant_profiles.current_balance - accountant_profiles.opening_balance + EXCLUDED.opening_balance,
		     opening_balance = EXCLUDED.opening_balance,
		     updated_at = NOW()
		 RETURNING *`,
		uuid.New(), tenantID, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("accountantRepo.SetOpeningBalance: %w", err)
	}
	return &p, nil
}

func (r *accountantRepo) ListTransactions(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.BalanceTransaction, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM accountant_transactions WHERE tenant_id = $1 AND user_id = $2", tenantID, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("accountantRepo.ListTransactions count: %w", err)
	}

	var txs []domain.BalanceTransaction
	err = r.db.SelectContext(ctx, &txs,
		`SELECT * FROM accountant_transactions WHERE tenant_id = $1 AND user_id = $2
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		tenantID, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("accountantRepo.ListTransactions: %w", err)
	}
	return txs, total, nil
}
