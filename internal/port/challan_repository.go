package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"khushi/internal/domain"
)

// ChallanRepository defines the contract for challan persistence.
// Settlement and repricing writes are guarded by the challan's version and
// return domain.ErrStaleVersion when another writer got there first.
type ChallanRepository interface {
	Create(ctx context.Context, challan *domain.Challan) error
	GetByID(ctx context.Context, tenantID, challanID uuid.UUID) (*domain.Challan, error)
	List(ctx context.Context, filter domain.ChallanFilter) ([]domain.Challan, int, error)
	UpdateDetails(ctx context.Context, challan *domain.Challan) error
	UpdateSettlement(ctx context.Context, tenantID, challanID uuid.UUID, s domain.Settlement, expectedVersion int64) error
	Reprice(ctx context.Context, challan *domain.Challan, expectedVersion int64) error
	Delete(ctx context.Context, tenantID, challanID uuid.UUID) error
}

// PaymentRepository defines the contract for payment persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*domain.Payment, error)
	ListByChallan(ctx context.Context, tenantID, challanID uuid.UUID) ([]domain.Payment, error)
	ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]domain.Payment, error)
	ListByCollector(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]domain.Payment, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Payment, error)
	CountByChallan(ctx context.Context, tenantID, challanID uuid.UUID) (int, error)
	Update(ctx context.Context, payment *domain.Payment) error
	Delete(ctx context.Context, tenantID, paymentID uuid.UUID) error
}

// PaymentMethodRepository remembers payment method names per tenant.
type PaymentMethodRepository interface {
	Upsert(ctx context.Context, tenantID uuid.UUID, name string) error
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.PaymentMethod, error)
}
