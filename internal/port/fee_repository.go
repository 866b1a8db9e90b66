package port

import (
	"context"

	"github.com/google/uuid"

	"khushi/internal/domain"
)

// FeeCategoryRepository defines the contract for fee category persistence.
// All query methods include tenantID to enforce tenant isolation at the data layer.
type FeeCategoryRepository interface {
	Create(ctx context.Context, category *domain.FeeCategory) error
	GetByID(ctx context.Context, tenantID, categoryID uuid.UUID) (*domain.FeeCategory, error)
	GetActiveByName(ctx context.Context, tenantID uuid.UUID, name string) (*domain.FeeCategory, error)
	List(ctx context.Context, tenantID uuid.UUID, includeArchived bool) ([]domain.FeeCategory, error)
	Update(ctx context.Context, category *domain.FeeCategory) error
	SetArchived(ctx context.Context, tenantID, categoryID uuid.UUID, archived bool) error
	Delete(ctx context.Context, tenantID, categoryID uuid.UUID) error
}

// SnapshotRepository persists immutable category snapshots. There is no
// update or delete.
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *domain.CategorySnapshot) error
	GetByID(ctx context.Context, tenantID, snapshotID uuid.UUID) (*domain.CategorySnapshot, error)
	ListByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) ([]domain.CategorySnapshot, error)
	CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int, error)
	// LatestByCategory returns the newest snapshot of every category, keyed by category id.
	LatestByCategory(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]domain.CategorySnapshot, error)
}

// ClassFeeAssignmentRepository defines the contract for class fee assignments.
type ClassFeeAssignmentRepository interface {
	// Replace deactivates the class's active assignment and inserts a, atomically.
	// It returns how many assignments were deactivated.
	Replace(ctx context.Context, a *domain.ClassFeeAssignment) (int, error)
	GetActive(ctx context.Context, tenantID, classID uuid.UUID) (*domain.ClassFeeAssignment, error)
	ListHistory(ctx context.Context, tenantID, classID uuid.UUID) ([]domain.ClassFeeAssignment, error)
	ListActiveByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) ([]domain.ClassFeeAssignment, error)
	ListActive(ctx context.Context, tenantID uuid.UUID) ([]domain.ClassFeeAssignment, error)
	Deactivate(ctx context.Context, tenantID, classID uuid.UUID) (int, error)
}
