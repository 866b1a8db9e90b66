package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"khushi/internal/domain"
	"khushi/internal/port"
)

// StatusEngine re-derives a challan's paid, remaining, status and last
// payment date from its payment history. It is the only writer of those fields.
type StatusEngine interface {
	Recompute(ctx context.Context, tenantID, challanID uuid.UUID) (*domain.Challan, error)
}

type statusEngine struct {
	challanRepo port.ChallanRepository
	paymentRepo port.PaymentRepository
	maxRetries  int
	log         *zap.Logger
}

// NewStatusEngine creates a StatusEngine that retries lost version races up
// to maxRetries times.
func NewStatusEngine(challanRepo port.ChallanRepository, paymentRepo port.PaymentRepository, maxRetries int, log *zap.Logger) StatusEngine {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &statusEngine{
		challanRepo: challanRepo,
		paymentRepo: paymentRepo,
		maxRetries:  maxRetries,
		log:         log.Named("statusEngine"),
	}
}

// Recompute runs load, sum and compare-and-swap until the write lands on the
// version it read. A concurrent payment forces another pass, so the final
// write always reflects every committed payment.
func (e *statusEngine) Recompute(ctx context.Context, tenantID, challanID uuid.UUID) (*domain.Challan, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		challan, err := e.challanRepo.GetByID(ctx, tenantID, challanID)
		if err != nil {
			return nil, err
		}
		payments, err := e.paymentRepo.ListByChallan(ctx, tenantID, challanID)
		if err != nil {
			return nil, fmt.Errorf("statusEngine.Recompute: %w", err)
		}

		next := domain.ComputeSettlement(challan.TotalAmount, payments, challan.LastPaymentDate)
		if settlementEqual(challan.Settlement(), next) {
			return challan, nil
		}

		err = e.challanRepo.UpdateSettlement(ctx, tenantID, challanID, next, challan.Version)
		if errors.Is(err, domain.ErrStaleVersion) {
			e.log.Debug("statusEngine.Recompute: version moved, retrying",
				zap.Stringer("challan_id", challanID),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		challan.ApplySettlement(next)
		challan.Version++
		e.log.Debug("challan settled",
			zap.Stringer("challan_id", challanID),
			zap.String("status", string(next.Status)),
			zap.String("paid", next.PaidAmount.StringFixed(2)))
		return challan, nil
	}

	e.log.Warn("statusEngine.Recompute: retries exhausted",
		zap.Stringer("tenant_id", tenantID),
		zap.Stringer("challan_id", challanID),
		zap.Int("max_retries", e.maxRetries))
	return nil, domain.ErrConcurrentUpdate
}

func settlementEqual(a, b domain.Settlement) bool {
	if !a.PaidAmount.Equal(b.PaidAmount) || !a.RemainingAmount.Equal(b.RemainingAmount) || a.Status != b.Status {
		return false
	}
	if a.LastPaymentDate == nil || b.LastPaymentDate == nil {
		return a.LastPaymentDate == nil && b.LastPaymentDate == nil
	}
	return a.LastPaymentDate.Equal(*b.LastPaymentDate)
}
