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

type dailySummaryRepo struct {
	db *sqlx.DB
}

// NewDailySummaryRepo creates a new PostgreSQL-backed DailySummaryRepository.
func NewDailySummaryRepo(db *sqlx.DB) port.DailySummaryRepository {
	return &dailySummaryRepo{db: db}
}

// Upsert leaves a verified row untouched; the conflict update is skipped and
// the stored row is read back.
func (r *dailySummaryRepo) Upsert(ctx context.Context, s *domain.DailySummary) (*domain.DailySummary, error) {
	var out domain.DailySummary
	err := r.db.GetContext(ctx, &out,
		`INSERT INTO daily_summaries (id, tenant_id, user_id, summary_date, opening_balance, total_collected,
			collections_by_method, payment_count, closing_balance, created_at, updated_at)
		 VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, NOW(), NOW())
		 ON CONFLICT (tenant_id, user_id, summary_date) DO UPDATE
		 SET opening_balance = EXCLUDED.opening_balance,
		     total_collected = EXCLUDED.total_collected,
		     collections_by_method = EXCLUDED.collections_by_method,
		     payment_count = EXCLUDED.payment_count,
		     closing_balance = EXCLUDED.closing_balance,
		     updated_at = NOW()
		 WHERE NOT daily_summaries.verified
		 RETURNING *`,
		s.ID, s.TenantID, s.UserID, dateOnly(s.SummaryDate), s.OpeningBalance, s.TotalCollected,
		s.CollectionsByMethod, s.PaymentCount, s.ClosingBalance)
	if errors.Is(err, sql.ErrNoRows) {
		return r.GetByDate(ctx, s.TenantID, s.UserID, s.SummaryDate)
	}
	if err != nil {
		return nil, fmt.Errorf("dailySummaryRepo.Upsert: %w", err)
	}
	return &out, nil
}

func (r *dailySummaryRepo) GetByID(ctx context.Context, tenantID, summaryID uuid.UUID) (*domain.DailySummary, error) {
	var s domain.DailySummary
	err := r.db.GetContext(ctx, &s,
		"SELECT * FROM daily_summaries WHERE id = $1 AND tenant_id = $2", summaryID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("dailySummaryRepo.GetByID: %w", err)
	}
	return &s, nil
}

func (r *dailySummaryRepo) GetByDate(ctx context.Context, tenantID, userID uuid.UUID, day time.Time) (*domain.DailySummary, error) {
	var s domain.DailySummary
	err := r.db.GetContext(ctx, &s,
		`SELECT * FROM daily_summaries
		 WHERE tenant_id = $1 AND user_id = $2 AND summary_date = $3::date`, tenantID, userID, dateOnly(day))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("dailySummaryRepo.GetByDate: %w", err)
	}
	return &s, nil
}

func (r *dailySummaryRepo) GetLatestBefore(ctx context.Context, tenantID, userID uuid.UUID, day time.Time) (*domain.DailySummary, error) {
	var s domain.DailySummary
	err := r.db.GetContext(ctx, &s,
		`SELECT * FROM daily_summaries
		 WHERE tenant_id = $1 AND user_id = $2 AND summary_date < $3::date
		 ORDER BY summary_date DESC LIMIT 1`, tenantID, userID, dateOnly(day))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("dailySummaryRepo.GetLatestBefore: %w", err)
	}
	return &s, nil
}

// Verify flips the verified flag once; a second call yields
// domain.ErrSummaryAlreadyVerified.
func (r *dailySummaryRepo) Verify(ctx context.Context, tenantID, summaryID, verifiedBy uuid.UUID, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE daily_summaries SET verified = true, verified_by = $1, verified_at = $2, updated_at = NOW()
		 WHERE id = $3 AND tenant_id = $4 AND NOT verified`,
		verifiedBy, at, summaryID, tenantID)
	if err != nil {
		return fmt.Errorf("dailySummaryRepo.Verify: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, tenantID, summaryID); err != nil {
		return err
	}
	return domain.ErrSummaryAlreadyVerified
}
