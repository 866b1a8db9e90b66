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

type challanRepo struct {
	db *sqlx.DB
}

// NewChallanRepo creates a new PostgreSQL-backed ChallanRepository.
func NewChallanRepo(db *sqlx.DB) port.ChallanRepository {
	return &challanRepo{db: db}
}

func (r *challanRepo) Create(ctx context.Context, c *domain.Challan) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Version = 0

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO challans (id, tenant_id, student_id, class_id, snapshot_id, category_name, line_items,
			total_amount, paid_amount, remaining_amount, status, issue_date, due_date, last_payment_date,
			notes, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		c.ID, c.TenantID, c.StudentID, c.ClassID, c.SnapshotID, c.CategoryName, c.LineItems,
		c.TotalAmount, c.PaidAmount, c.RemainingAmount, c.Status, c.IssueDate, c.DueDate, c.LastPaymentDate,
		c.Notes, c.Version, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSnapshotNotFound
		}
		return fmt.Errorf("challanRepo.Create: %w", err)
	}
	return nil
}

func (r *challanRepo) GetByID(ctx context.Context, tenantID, challanID uuid.UUID) (*domain.Challan, error) {
	var c domain.Challan
	err := r.db.GetContext(ctx, &c,
		"SELECT * FROM challans WHERE id = $1 AND tenant_id = $2", challanID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChallanNotFound
		}
		return nil, fmt.Errorf("challanRepo.GetByID: %w", err)
	}
	return &c, nil
}

// buildChallanWhere constructs the WHERE clause for challan searches.
func buildChallanWhere(f domain.ChallanFilter) (clause string, args []interface{}) {
	args = []interface{}{f.TenantID}
	clause = "WHERE tenant_id = $1"
	argN := 2

	if f.StudentID != nil {
		clause += fmt.Sprintf(" AND student_id = $%d", argN)
		args = append(args, *f.StudentID)
		argN++
	}
	if f.ClassID != nil {
		clause += fmt.Sprintf(" AND class_id = $%d", argN)
		args = append(args, *f.ClassID)
		argN++
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		clause += fmt.Sprintf(" AND status = ANY($%d)", argN)
		args = append(args, statuses)
		argN++
	}
	if f.DueFrom != nil {
		clause += fmt.Sprintf(" AND due_date >= $%d", argN)
		args = append(args, *f.DueFrom)
		argN++
	}
	if f.DueTo != nil {
		clause += fmt.Sprintf(" AND due_date <= $%d", argN)
		args = append(args, *f.DueTo)
		argN++ //nolint:ineffassign // argN kept incremented for consistency
	}
	return clause, args
}

func (r *challanRepo) List(ctx context.Context, f domain.ChallanFilter) ([]domain.Challan, int, error) {
	where, args := buildChallanWhere(f)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM challans "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("challanRepo.List count: %w", err)
	}

	query := "SELECT * FROM challans " + where + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, f.Limit, f.Offset)
	}

	var challans []domain.Challan
	if err := r.db.SelectContext(ctx, &challans, query, args...); err != nil {
		return nil, 0, fmt.Errorf("challanRepo.List: %w", err)
	}
	return challans, total, nil
}

func (r *challanRepo) UpdateDetails(ctx context.Context, c *domain.Challan) error {
	c.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE challans SET due_date = $1, notes = $2, status = $3, updated_at = $4
		 WHERE id = $5 AND tenant_id = $6`,
		c.DueDate, c.Notes, c.Status, c.UpdatedAt, c.ID, c.TenantID)
	if err != nil {
		return fmt.Errorf("challanRepo.UpdateDetails: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrChallanNotFound
	}
	return nil
}

// UpdateSettlement writes the derived fields only when the row still carries
// expectedVersion, bumping the version on success.
func (r *challanRepo) UpdateSettlement(ctx context.Context, tenantID, challanID uuid.UUID, s domain.Settlement, expectedVersion int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE challans
		 SET paid_amount = $1, remaining_amount = $2, status = $3, last_payment_date = $4,
		     version = version + 1, updated_at = NOW()
		 WHERE id = $5 AND tenant_id = $6 AND version = $7`,
		s.PaidAmount, s.RemainingAmount, s.Status, s.LastPaymentDate, challanID, tenantID, expectedVersion)
	if err != nil {
		return fmt.Errorf("challanRepo.UpdateSettlement: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return r.missOrStale(ctx, tenantID, challanID)
	}
	return nil
}

func (r *challanRepo) Reprice(ctx context.Context, c *domain.Challan, expectedVersion int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE challans
		 SET snapshot_id = $1, category_name = $2, line_items = $3, total_amount = $4,
		     paid_amount = $5, remaining_amount = $6, status = $7, last_payment_date = $8,
		     version = version + 1, updated_at = NOW()
		 WHERE id = $9 AND tenant_id = $10 AND version = $11`,
		c.SnapshotID, c.CategoryName, c.LineItems, c.TotalAmount,
		c.PaidAmount, c.RemainingAmount, c.Status, c.LastPaymentDate, c.ID, c.TenantID, expectedVersion)
	if err != nil {
		return fmt.Errorf("challanRepo.Reprice: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return r.missOrStale(ctx, c.TenantID, c.ID)
	}
	c.Version = expectedVersion + 1
	return nil
}

// missOrStale distinguishes a vanished challan from a lost version race.
func (r *challanRepo) missOrStale(ctx context.Context, tenantID, challanID uuid.UUID) error {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM challans WHERE id = $1 AND tenant_id = $2)", challanID, tenantID)
	if err != nil {
		return fmt.Errorf("challanRepo.missOrStale: %w", err)
	}
	if !exists {
		return domain.ErrChallanNotFound
	}
	return domain.ErrStaleVersion
}

func (r *challanRepo) Delete(ctx context.Context, tenantID, challanID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM challans WHERE id = $1 AND tenant_id = $2", challanID, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrChallanHasPayments
		}
		return fmt.Errorf("challanRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrChallanNotFound
	}
	return nil
}
