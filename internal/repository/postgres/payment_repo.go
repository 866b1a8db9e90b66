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

type paymentRepo struct {
	db *sqlx.DB
}

// NewPaymentRepo creates a new PostgreSQL-backed PaymentRepository.
func NewPaymentRepo(db *sqlx.DB) port.PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, tenant_id, challan_id, student_id, amount, method, reference, recorded_by, paid_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.TenantID, p.ChallanID, p.StudentID, p.Amount, p.Method, p.Reference, p.RecordedBy,
		p.PaidAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrChallanNotFound
		}
		return fmt.Errorf("paymentRepo.Create: %w", err)
	}
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.GetContext(ctx, &p,
		"SELECT * FROM payments WHERE id = $1 AND tenant_id = $2", paymentID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("paymentRepo.GetByID: %w", err)
	}
	return &p, nil
}

func (r *paymentRepo) ListByChallan(ctx context.Context, tenantID, challanID uuid.UUID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.SelectContext(ctx, &payments,
		`SELECT * FROM payments WHERE tenant_id = $1 AND challan_id = $2
		 ORDER BY paid_at, created_at`, tenantID, challanID)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByChallan: %w", err)
	}
	return payments, nil
}

func (r *paymentRepo) ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.SelectContext(ctx, &payments,
		`SELECT * FROM payments WHERE tenant_id = $1 AND student_id = $2
		 ORDER BY paid_at DESC, created_at DESC`, tenantID, studentID)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByStudent: %w", err)
	}
	return payments, nil
}

// ListByCollector returns the payments recorded by userID with paid_at in [from, to).
func (r *paymentRepo) ListByCollector(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.SelectContext(ctx, &payments,
		`SELECT * FROM payments
		 WHERE tenant_id = $1 AND recorded_by = $2 AND paid_at >= $3 AND paid_at < $4
		 ORDER BY paid_at`, tenantID, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByCollector: %w", err)
	}
	return payments, nil
}

func (r *paymentRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE tenant_id = $1", tenantID)
	if err != nil {
		return nil, fmt.Errorf("paymentRepo.ListByTenant: %w", err)
	}
	return payments, nil
}

func (r *paymentRepo) CountByChallan(ctx context.Context, tenantID, challanID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM payments WHERE tenant_id = $1 AND challan_id = $2", tenantID, challanID)
	if err != nil {
		return 0, fmt.Errorf("paymentRepo.CountByChallan: %w", err)
	}
	return count, nil
}

func (r *paymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	p.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE payments SET challan_id = $1, student_id = $2, amount = $3, method = $4, reference = $5,
			paid_at = $6, updated_at = $7
		 WHERE id = $8 AND tenant_id = $9`,
		p.ChallanID, p.StudentID, p.Amount, p.Method, p.Reference, p.PaidAt, p.UpdatedAt, p.ID, p.TenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrChallanNotFound
		}
		return fmt.Errorf("paymentRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *paymentRepo) Delete(ctx context.Context, tenantID, paymentID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM payments WHERE id = $1 AND tenant_id = $2", paymentID, tenantID)
	if err != nil {
		return fmt.Errorf("paymentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}
