package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"khushi/internal/domain"
	"khushi/internal/port"
)

type paymentMethodRepo struct {
	db *sqlx.DB
}

// NewPaymentMethodRepo creates a new PostgreSQL-backed PaymentMethodRepository.
func NewPaymentMethodRepo(db *sqlx.DB) port.PaymentMethodRepository {
	return &paymentMethodRepo{db: db}
}

func (r *paymentMethodRepo) Upsert(ctx context.Context, tenantID uuid.UUID, name string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payment_methods (tenant_id, name, usage_count, last_used_at)
		 VALUES ($1, $2, 1, NOW())
		 ON CONFLICT (tenant_id, name)
		 DO UPDATE SET usage_count = payment_methods.usage_count + 1, last_used_at = NOW()`,
		tenantID, domain.NormalizeMethod(name))
	if err != nil {
		return fmt.Errorf("paymentMethodRepo.Upsert: %w", err)
	}
	return nil
}

func (r *paymentMethodRepo) List(ctx context.Context, tenantID uuid.UUID) ([]domain.PaymentMethod, error) {
	var methods []domain.PaymentMethod
	err := r.db.SelectContext(ctx, &methods,
		`SELECT * FROM payment_methods WHERE tenant_id = $1
		 ORDER BY usage_count DESC, name`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("paymentMethodRepo.List: %w", err)
	}
	return methods, nil
}
