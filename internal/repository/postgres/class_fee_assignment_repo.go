package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"khushi/internal/domain"
	"khushi/internal/port"
)

const activeAssignmentIndex = "uq_class_fee_assignments_active"

type classFeeAssignmentRepo struct {
	db *sqlx.DB
}

// NewClassFeeAssignmentRepo creates a new PostgreSQL-backed ClassFeeAssignmentRepository.
func NewClassFeeAssignmentRepo(db *sqlx.DB) port.ClassFeeAssignmentRepository {
	return &classFeeAssignmentRepo{db: db}
}

func (r *classFeeAssignmentRepo) Replace(ctx context.Context, a *domain.ClassFeeAssignment) (int, error) {
	var deactivated int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE class_fee_assignments SET is_active = false, deactivated_at = $1
			 WHERE tenant_id = $2 AND class_id = $3 AND is_active`,
			a.AssignedAt, a.TenantID, a.ClassID)
		if err != nil {
			return fmt.Errorf("classFeeAssignmentRepo.Replace deactivate: %w", err)
		}
		deactivated, _ = result.RowsAffected()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO class_fee_assignments (id, tenant_id, class_id, category_id, is_active, assigned_by, assigned_at)
			 VALUES ($1, $2, $3, $4, true, $5, $6)`,
			a.ID, a.TenantID, a.ClassID, a.CategoryID, a.AssignedBy, a.AssignedAt)
		if err != nil {
			if isUniqueViolation(err, activeAssignmentIndex) {
				return domain.ErrAssignmentConflict
			}
			if isForeignKeyViolation(err) {
				return domain.ErrCategoryNotFound
			}
			return fmt.Errorf("classFeeAssignmentRepo.Replace insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	a.IsActive = true
	return int(deactivated), nil
}

func (r *classFeeAssignmentRepo) GetActive(ctx context.Context, tenantID, classID uuid.UUID) (*domain.ClassFeeAssignment, error) {
	var a domain.ClassFeeAssignment
	err := r.db.GetContext(ctx, &a,
		`SELECT * FROM class_fee_assignments
		 WHERE tenant_id = $1 AND class_id = $2 AND is_active`, tenantID, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("classFeeAssignmentRepo.GetActive: %w", err)
	}
	return &a, nil
}

func (r *classFeeAssignmentRepo) ListHistory(ctx context.Context, tenantID, classID uuid.UUID) ([]domain.ClassFeeAssignment, error) {
	var assignments []domain.ClassFeeAssignment
	err := r.db.SelectContext(ctx, &assignments,
		`SELECT * FROM class_fee_assignments
		 WHERE tenant_id = $1 AND class_id = $2
		 ORDER BY assigned_at DESC`, tenantID, classID)
	if err != nil {
		return nil, fmt.Errorf("classFeeAssignmentRepo.ListHistory: %w", err)
	}
	return assignments, nil
}

func (r *classFeeAssignmentRepo) ListActiveByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) ([]domain.ClassFeeAssignment, error) {
	var assignments []domain.ClassFeeAssignment
	err := r.db.SelectContext(ctx, &assignments,
		`SELECT * FROM class_fee_assignments
		 WHERE tenant_id = $1 AND category_id = $2 AND is_active`, tenantID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("classFeeAssignmentRepo.ListActiveByCategory: %w", err)
	}
	return assignments, nil
}

func (r *classFeeAssignmentRepo) ListActive(ctx context.Context, tenantID uuid.UUID) ([]domain.ClassFeeAssignment, error) {
	var assignments []domain.ClassFeeAssignment
	err := r.db.SelectContext(ctx, &assignments,
		"SELECT * FROM class_fee_assignments WHERE tenant_id = $1 AND is_active", tenantID)
	if err != nil {
		return nil, fmt.Errorf("classFeeAssignmentRepo.ListActive: %w", err)
	}
	return assignments, nil
}

func (r *classFeeAssignmentRepo) Deactivate(ctx context.Context, tenantID, classID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE class_fee_assignments SET is_active = false, deactivated_at = NOW()
		 WHERE tenant_id = $1 AND class_id = $2 AND is_active`, tenantID, classID)
	if err != nil {
		return 0, fmt.Errorf("classFeeAssignmentRepo.Deactivate: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}
