package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"khushi/internal/domain"
	"khushi/internal/effects"
	"khushi/internal/port"
)

// RecordPaymentInput is the DTO for recording one collection. ChallanID is
// optional; without it the payment is attached to the student only.
type RecordPaymentInput struct {
	TenantID   uuid.UUID
	ChallanID  *uuid.UUID
	StudentID  uuid.UUID
	Amount     decimal.Decimal
	Method     string
	Reference  string
	RecordedBy uuid.UUID
}

// UpdatePaymentInput is a correction patch; nil fields are left unchanged.
// A non-nil ChallanID re-targets the payment.
type UpdatePaymentInput struct {
	TenantID  uuid.UUID
	PaymentID uuid.UUID
	ChallanID *uuid.UUID
	Amount    *decimal.Decimal
	Method    *string
	Reference *string
}

// PaymentResult is a payment together with the challan it settled, if any.
// SettlementPending is set when the payment was stored but its challan could
// not be re-settled; the next payment event on that challan settles it.
type PaymentResult struct {
	Payment           *domain.Payment `json:"payment"`
	Challan           *domain.Challan `json:"challan,omitempty"`
	SettlementPending bool            `json:"settlement_pending,omitempty"`
}

// PaymentService defines the payment recording contract.
type PaymentService interface {
	Record(ctx context.Context, input *RecordPaymentInput) (*PaymentResult, error)
	GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*domain.Payment, error)
	ListByChallan(ctx context.Context, tenantID, challanID uuid.UUID) ([]domain.Payment, error)
	ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]domain.Payment, error)
	Update(ctx context.Context, input *UpdatePaymentInput) (*PaymentResult, error)
	Delete(ctx context.Context, tenantID, paymentID uuid.UUID) error
	GetSummaryForStudent(ctx context.Context, tenantID, studentID uuid.UUID) (*domain.StudentPaymentSummary, error)
	ListMethods(ctx context.Context, tenantID uuid.UUID) ([]domain.PaymentMethod, error)
}

type paymentService struct {
	paymentRepo   port.PaymentRepository
	challanRepo   port.ChallanRepository
	methodRepo    port.PaymentMethodRepository
	engine        StatusEngine
	accountantSvc AccountantService
	cashSvc       CashSessionService
	dispatcher    *effects.Dispatcher
	log           *zap.Logger
	now           func() time.Time
}

// NewPaymentService creates a new PaymentService implementation.
func NewPaymentService(
	paymentRepo port.PaymentRepository,
	challanRepo port.ChallanRepository,
	methodRepo port.PaymentMethodRepository,
	engine StatusEngine,
	accountantSvc AccountantService,
	cashSvc CashSessionService,
	dispatcher *effects.Dispatcher,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo:   paymentRepo,
		challanRepo:   challanRepo,
		methodRepo:    methodRepo,
		engine:        engine,
		accountantSvc: accountantSvc,
		cashSvc:       cashSvc,
		dispatcher:    dispatcher,
		log:           log.Named("paymentService"),
		now:           time.Now,
	}
}

// Record stores the payment, settles its challan and then hands the
// collector-side bookkeeping to the effects dispatcher. Once the payment is
// stored the call succeeds; a settlement failure is reported through
// SettlementPending.
func (s *paymentService) Record(ctx context.Context, input *RecordPaymentInput) (*PaymentResult, error) {
	if err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}

	studentID := input.StudentID
	if input.ChallanID != nil {
		challan, err := s.challanRepo.GetByID(ctx, input.TenantID, *input.ChallanID)
		if err != nil {
			return nil, err
		}
		if studentID == uuid.Nil {
			studentID = challan.StudentID
		} else if studentID != challan.StudentID {
			return nil, fmt.Errorf("%w: payment student does not match the challan's student", domain.ErrValidation)
		}
	}

	payment, err := domain.NewPayment(input.TenantID, input.ChallanID, studentID, input.Amount,
		input.Method, input.Reference, input.RecordedBy, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	result := &PaymentResult{Payment: payment}
	if payment.ChallanID != nil {
		result.Challan, result.SettlementPending = s.settle(ctx, "Record", payment.ID, payment.TenantID, *payment.ChallanID)
	}

	s.log.Info("payment recorded",
		zap.Stringer("tenant_id", payment.TenantID),
		zap.Stringer("payment_id", payment.ID),
		zap.Stringer("student_id", payment.StudentID),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("method", payment.Method))

	s.dispatchCollectionEffects(ctx, payment)
	return result, nil
}

func (s *paymentService) dispatchCollectionEffects(ctx context.Context, p *domain.Payment) {
	s.dispatchBalance(ctx, p, domain.BalanceTxCollection, p.Amount, paymentDescription("", p))
	s.dispatchMethod(ctx, p.TenantID, p.Method)
	s.dispatchCashPost(ctx, p, p.Amount, p.Method)
}

// dispatchCorrectionEffects offsets the collector's balance and cash session
// by the difference between the payment as first collected and as corrected.
// Corrections land in the collector's session for today.
func (s *paymentService) dispatchCorrectionEffects(ctx context.Context, before, after *domain.Payment) {
	delta := after.Amount.Sub(before.Amount)
	switch {
	case delta.IsPositive():
		s.dispatchBalance(ctx, after, domain.BalanceTxCollection, delta, paymentDescription("correction of ", after))
	case delta.IsNegative():
		s.dispatchBalance(ctx, after, domain.BalanceTxReversal, delta.Neg(), paymentDescription("correction of ", after))
	}

	if before.Method == after.Method {
		if !delta.IsZero() {
			s.dispatchCashPost(ctx, after, delta, after.Method)
		}
		return
	}
	s.dispatchMethod(ctx, after.TenantID, after.Method)
	s.dispatchCashPost(ctx, before, before.Amount.Neg(), before.Method)
	s.dispatchCashPost(ctx, after, after.Amount, after.Method)
}

func (s *paymentService) dispatchReversalEffects(ctx context.Context, p *domain.Payment) {
	s.dispatchBalance(ctx, p, domain.BalanceTxReversal, p.Amount, paymentDescription("reversal of ", p))
	s.dispatchCashPost(ctx, p, p.Amount.Neg(), p.Method)
}

func (s *paymentService) dispatchBalance(ctx context.Context, p *domain.Payment, txType domain.BalanceTxType, amount decimal.Decimal, description string) {
	input := &UpdateBalanceInput{
		TenantID:    p.TenantID,
		UserID:      p.RecordedBy,
		Amount:      amount,
		Type:        txType,
		Description: description,
		RecordedBy:  p.RecordedBy,
	}
	s.dispatcher.Dispatch(ctx, "accountant."+string(txType), func(ctx context.Context) error {
		_, err := s.accountantSvc.UpdateBalance(ctx, input)
		return err
	})
}

func (s *paymentService) dispatchMethod(ctx context.Context, tenantID uuid.UUID, method string) {
	s.dispatcher.Dispatch(ctx, "payment_method.remember", func(ctx context.Context) error {
		return s.methodRepo.Upsert(ctx, tenantID, method)
	})
}

// dispatchCashPost posts a signed amount to the collector's session for today.
func (s *paymentService) dispatchCashPost(ctx context.Context, p *domain.Payment, amount decimal.Decimal, method string) {
	paymentID, studentID := p.ID, p.StudentID
	input := &RecordTransactionInput{
		TenantID:  p.TenantID,
		UserID:    p.RecordedBy,
		PaymentID: &paymentID,
		StudentID: &studentID,
		Amount:    amount,
		Method:    method,
		Reference: p.Reference,
	}
	s.dispatcher.Dispatch(ctx, "cash_session.post", func(ctx context.Context) error {
		session, err := s.cashSvc.GetOrCreate(ctx, input.TenantID, input.UserID)
		if err != nil {
			return err
		}
		input.SessionID = session.ID
		_, _, err = s.cashSvc.RecordTransaction(ctx, input)
		return err
	})
}

func paymentDescription(prefix string, p *domain.Payment) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString("payment ")
	b.WriteString(p.ID.String())
	if p.ChallanID != nil {
		b.WriteString(" on challan ")
		b.WriteString(p.ChallanID.String())
	}
	return b.String()
}

func (s *paymentService) GetByID(ctx context.Context, tenantID, paymentID uuid.UUID) (*domain.Payment, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByID(ctx, tenantID, paymentID)
}

func (s *paymentService) ListByChallan(ctx context.Context, tenantID, challanID uuid.UUID) ([]domain.Payment, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if _, err := s.challanRepo.GetByID(ctx, tenantID, challanID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByChallan(ctx, tenantID, challanID)
}

func (s *paymentService) ListByStudent(ctx context.Context, tenantID, studentID uuid.UUID) ([]domain.Payment, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByStudent(ctx, tenantID, studentID)
}

// Update corrects a payment and re-settles every challan it touched: the new
// target and, when re-targeted, the old one.
func (s *paymentService) Update(ctx context.Context, input *UpdatePaymentInput) (*PaymentResult, error) {
	if err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}
	payment, err := s.paymentRepo.GetByID(ctx, input.TenantID, input.PaymentID)
	if err != nil {
		return nil, err
	}
	before := *payment
	previousChallan := payment.ChallanID

	if input.ChallanID != nil {
		challan, err := s.challanRepo.GetByID(ctx, input.TenantID, *input.ChallanID)
		if err != nil {
			return nil, err
		}
		target := challan.ID
		payment.ChallanID = &target
		payment.StudentID = challan.StudentID
	}
	if input.Amount != nil {
		payment.Amount = *input.Amount
	}
	if input.Method != nil {
		payment.Method = domain.NormalizeMethod(*input.Method)
	}
	if input.Reference != nil {
		payment.Reference = strings.TrimSpace(*input.Reference)
	}
	if err := payment.Validate(); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	s.log.Info("payment updated", zap.Stringer("tenant_id", payment.TenantID), zap.Stringer("payment_id", payment.ID))
	s.dispatchCorrectionEffects(ctx, &before, payment)

	result := &PaymentResult{Payment: payment}
	if payment.ChallanID != nil {
		result.Challan, result.SettlementPending = s.settle(ctx, "Update", payment.ID, payment.TenantID, *payment.ChallanID)
	}
	if previousChallan != nil && (payment.ChallanID == nil || *previousChallan != *payment.ChallanID) {
		if _, pending := s.settle(ctx, "Update", payment.ID, payment.TenantID, *previousChallan); pending {
			result.SettlementPending = true
		}
	}
	return result, nil
}

// Delete removes a payment, reverses its collection and re-settles its
// challan. A settlement failure after the delete is logged, not returned.
func (s *paymentService) Delete(ctx context.Context, tenantID, paymentID uuid.UUID) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	payment, err := s.paymentRepo.GetByID(ctx, tenantID, paymentID)
	if err != nil {
		return err
	}
	if err := s.paymentRepo.Delete(ctx, tenantID, paymentID); err != nil {
		return err
	}
	s.log.Info("payment deleted", zap.Stringer("tenant_id", tenantID), zap.Stringer("payment_id", paymentID))
	s.dispatchReversalEffects(ctx, payment)

	if payment.ChallanID != nil {
		s.settle(ctx, "Delete", paymentID, tenantID, *payment.ChallanID)
	}
	return nil
}

// settle re-settles a challan after its payments changed. The payment write
// has already committed, so failures are logged and reported as pending. A
// challan that no longer exists has nothing to settle; legacy payments can
// outlive their challan.
func (s *paymentService) settle(ctx context.Context, op string, paymentID, tenantID, challanID uuid.UUID) (*domain.Challan, bool) {
	challan, err := s.engine.Recompute(ctx, tenantID, challanID)
	switch {
	case err == nil:
		return challan, false
	case errors.Is(err, domain.ErrChallanNotFound):
		s.log.Warn("paymentService."+op+": challan gone, nothing to settle",
			zap.Stringer("tenant_id", tenantID),
			zap.Stringer("challan_id", challanID))
		return nil, false
	default:
		s.log.Error("paymentService."+op+": payment stored but challan not settled",
			zap.Stringer("tenant_id", tenantID),
			zap.Stringer("payment_id", paymentID),
			zap.Stringer("challan_id", challanID),
			zap.Error(err))
		return nil, true
	}
}

// GetSummaryForStudent rolls up every challan of the student.
func (s *paymentService) GetSummaryForStudent(ctx context.Context, tenantID, studentID uuid.UUID) (*domain.StudentPaymentSummary, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	challans, _, err := s.challanRepo.List(ctx, domain.ChallanFilter{TenantID: tenantID, StudentID: &studentID})
	if err != nil {
		return nil, err
	}
	return domain.SummarizeChallans(studentID, challans), nil
}

func (s *paymentService) ListMethods(ctx context.Context, tenantID uuid.UUID) ([]domain.PaymentMethod, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.methodRepo.List(ctx, tenantID)
}
