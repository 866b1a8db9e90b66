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

type snapshotRepo struct {
	db *sqlx.DB
}

// NewSnapshotRepo creates a new PostgreSQL-backed SnapshotRepository.
func NewSnapshotRepo(db *sqlx.DB) port.SnapshotRepository {
	return &snapshotRepo{db: db}
}

func (r *snapshotRepo) Create(ctx context.Context, s *domain.CategorySnapshot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO category_snapshots (id, tenant_id, category_id, category_name, components, total_amount, snapshot_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.TenantID, s.CategoryID, s.CategoryName, s.Components, s.TotalAmount, s.SnapshotDate)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("snapshotRepo.Create: %w", err)
	}
	return nil
}

func (r *snapshotRepo) GetByID(ctx context.Context, tenantID, snapshotID uuid.UUID) (*domain.CategorySnapshot, error) {
	var s domain.CategorySnapshot
	err := r.db.GetContext(ctx, &s,
		"SELECT * FROM category_snapshots WHERE id = $1 AND tenant_id = $2", snapshotID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("snapshotRepo.GetByID: %w", err)
	}
	return &s, nil
}

func (r *snapshotRepo) ListByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) ([]domain.CategorySnapshot, error) {
	var snapshots []domain.CategorySnapshot
	err := r.db.SelectContext(ctx, &snapshots,
		`SELECT * FROM category_snapshots
		 WHERE tenant_id = $1 AND category_id = $2
		 ORDER BY snapshot_date DESC`, tenantID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("snapshotRepo.ListByCategory: %w", err)
	}
	return snapshots, nil
}

func (r *snapshotRepo) CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM category_snapshots WHERE tenant_id = $1 AND category_id = $2",
		tenantID, categoryID)
	if err != nil {
		return 0, fmt.Errorf("snapshotRepo.CountByCategory: %w", err)
	}
	return count, nil
}

func (r *snapshotRepo) LatestByCategory(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]domain.CategorySnapshot, error) {
	var snapshots []domain.CategorySnapshot
	err := r.db.SelectContext(ctx, &snapshots,
		`SELECT DISTINCT ON (category_id) * FROM category_snapshots
		 WHERE tenant_id = $1
		 ORDER BY category_id, snapshot_date DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("snapshotRepo.LatestByCategory: %w", err)
	}
	latest := make(map[uuid.UUID]domain.CategorySnapshot, len(snapshots))
	for i := range snapshots {
		latest[snapshots[i].CategoryID] = snapshots[i]
	}
	return latest, nil
}
