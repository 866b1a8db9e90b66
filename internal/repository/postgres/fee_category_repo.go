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

const activeCategoryNameIndex = "uq_fee_categories_active_name"

type feeCategoryRepo struct {
	db *sqlx.DB
}

// NewFeeCategoryRepo creates a new PostgreSQL-backed FeeCategoryRepository.
func NewFeeCategoryRepo(db *sqlx.DB) port.FeeCategoryRepository {
	return &feeCategoryRepo{db: db}
}

func (r *feeCategoryRepo) Create(ctx context.Context, c *domain.FeeCategory) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fee_categories (id, tenant_id, name, description, components, archived, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.TenantID, c.Name, c.Description, c.Components, c.Archived, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, activeCategoryNameIndex) {
			return domain.ErrDuplicateCategoryName
		}
		return fmt.Errorf("feeCategoryRepo.Create: %w", err)
	}
	return nil
}

func (r *feeCategoryRepo) GetByID(ctx context.Context, tenantID, categoryID uuid.UUID) (*domain.FeeCategory, error) {
	var c domain.FeeCategory
	err := r.db.GetContext(ctx, &c,
		"SELECT * FROM fee_categories WHERE id = $1 AND tenant_id = $2", categoryID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("feeCategoryRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *feeCategoryRepo) GetActiveByName(ctx context.Context, tenantID uuid.UUID, name string) (*domain.FeeCategory, error) {
	var c domain.FeeCategory
	err := r.db.GetContext(ctx, &c,
		`SELECT * FROM fee_categories
		 WHERE tenant_id = $1 AND lower(name) = lower($2) AND NOT archived`, tenantID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("feeCategoryRepo.GetActiveByName: %w", err)
	}
	return &c, nil
}

func (r *feeCategoryRepo) List(ctx context.Context, tenantID uuid.UUID, includeArchived bool) ([]domain.FeeCategory, error) {
	var categories []domain.FeeCategory
	err := r.db.SelectContext(ctx, &categories,
		`SELECT * FROM fee_categories
		 WHERE tenant_id = $1 AND ($2 OR NOT archived)
		 ORDER BY lower(name), created_at`, tenantID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("feeCategoryRepo.List: %w", err)
	}
	return categories, nil
}

func (r *feeCategoryRepo) Update(ctx context.Context, c *domain.FeeCategory) error {
	c.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE fee_categories SET name = $1, description = $2, components = $3, updated_at = $4
		 WHERE id = $5 AND tenant_id = $6`,
		c.Name, c.Description, c.Components, c.UpdatedAt, c.ID, c.TenantID)
	if err != nil {
		if isUniqueViolation(err, activeCategoryNameIndex) {
			return domain.ErrDuplicateCategoryName
		}
		return fmt.Errorf("feeCategoryRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *feeCategoryRepo) SetArchived(ctx context.Context, tenantID, categoryID uuid.UUID, archived bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE fee_categories SET archived = $1, updated_at = NOW()
		 WHERE id = $2 AND tenant_id = $3`,
		archived, categoryID, tenantID)
	if err != nil {
		// Unarchiving collides when another active category took the name.
		if isUniqueViolation(err, activeCategoryNameIndex) {
			return domain.ErrDuplicateCategoryName
		}
		return fmt.Errorf("feeCategoryRepo.SetArchived: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *feeCategoryRepo) Delete(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM fee_categories WHERE id = $1 AND tenant_id = $2",
		categoryID, tenantID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return fmt.Errorf("feeCategoryRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
