package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"khushi/internal/domain"
	"khushi/internal/port"
)

// UpdateBalanceInput is the DTO for one movement on a collector's balance.
type UpdateBalanceInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Type        domain.BalanceTxType
	Description string
	RecordedBy  uuid.UUID
}

// AccountantService defines the collector running-balance and daily summary contract.
type AccountantService interface {
	UpdateBalance(ctx context.Context, input *UpdateBalanceInput) (*domain.AccountantProfile, error)
	GetProfile(ctx context.Context, tenantID, userID uuid.UUID) (*domain.AccountantProfile, error)
	ListTransactions(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.BalanceTransaction, int, error)
	SetOpeningBalance(ctx context.Context, tenantID, userID uuid.UUID, amount decimal.Decimal) (*domain.AccountantProfile, error)
	GetDailySummary(ctx context.Context, tenantID, userID uuid.UUID, date time.Time) (*domain.DailySummary, error)
	VerifyDailySummary(ctx context.Context, tenantID, summaryID, verifiedBy uuid.UUID) (*domain.DailySummary, error)
}

type accountantService struct {
	accountantRepo port.AccountantRepository
	summaryRepo    port.DailySummaryRepository
	paymentRepo    port.PaymentRepository
	loc            *time.Location
	log            *zap.Logger
	now            func() time.Time
}

// NewAccountantService creates a new AccountantService implementation. Days
// are bounded in loc.
func NewAccountantService(
	accountantRepo port.AccountantRepository,
	summaryRepo port.DailySummaryRepository,
	paymentRepo port.PaymentRepository,
	loc *time.Location,
	log *zap.Logger,
) AccountantService {
	if loc == nil {
		loc = time.UTC
	}
	return &accountantService{
		accountantRepo: accountantRepo,
		summaryRepo:    summaryRepo,
		paymentRepo:    paymentRepo,
		loc:            loc,
		log:            log.Named("accountantService"),
		now:            time.Now,
	}
}

// UpdateBalance appends an immutable balance transaction and applies it to
// the profile, creating the profile on first use.
func (s *accountantService) UpdateBalance(ctx context.Context, input *UpdateBalanceInput) (*domain.AccountantProfile, error) {
	if err := requireTenant(input.TenantID); err != nil {
		return nil, err
	}
	tx, err := domain.NewBalanceTransaction(input.TenantID, input.UserID, input.Type, input.Amount,
		input.Description, input.RecordedBy, s.now())
	if err != nil {
		return nil, err
	}
	profile, err := s.accountantRepo.ApplyTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	s.log.Debug("balance updated",
		zap.Stringer("user_id", input.UserID),
		zap.String("type", string(input.Type)),
		zap.String("amount", input.Amount.StringFixed(2)),
		zap.String("balance_after", profile.CurrentBalance.StringFixed(2)))
	return profile, nil
}

func (s *accountantService) GetProfile(ctx context.Context, tenantID, userID uuid.UUID) (*domain.AccountantProfile, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.accountantRepo.GetProfile(ctx, tenantID, userID)
}

func (s *accountantService) ListTransactions(ctx context.Context, tenantID, userID uuid.UUID, offset, limit int) ([]domain.BalanceTransaction, int, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, 0, err
	}
	return s.accountantRepo.ListTransactions(ctx, tenantID, userID, offset, limit)
}

func (s *accountantService) SetOpeningBalance(ctx context.Context, tenantID, userID uuid.UUID, amount decimal.Decimal) (*domain.AccountantProfile, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", domain.ErrValidation)
	}
	return s.accountantRepo.SetOpeningBalance(ctx, tenantID, userID, amount)
}

// GetDailySummary aggregates the collector's payments for the calendar day of
// date and upserts the summary. The opening balance is the previous summary's
// closing balance, else the profile's opening balance, else zero. A verified
// summary is frozen and returned as stored.
func (s *accountantService) GetDailySummary(ctx context.Context, tenantID, userID uuid.UUID, date time.Time) (*domain.DailySummary, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = s.now()
	}
	day := domain.StartOfDay(date, s.loc)

	existing, err := s.summaryRepo.GetByDate(ctx, tenantID, userID, day)
	switch {
	case err == nil && existing.Verified:
		return existing, nil
	case err != nil && !errors.Is(err, domain.ErrSummaryNotFound):
		return nil, fmt.Errorf("accountantService.GetDailySummary: %w", err)
	}

	payments, err := s.paymentRepo.ListByCollector(ctx, tenantID, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("accountantService.GetDailySummary: %w", err)
	}
	opening, err := s.openingFor(ctx, tenantID, userID, day)
	if err != nil {
		return nil, err
	}

	summary := domain.BuildDailySummary(tenantID, userID, day, opening, payments)
	return s.summaryRepo.Upsert(ctx, summary)
}

func (s *accountantService) openingFor(ctx context.Context, tenantID, userID uuid.UUID, day time.Time) (decimal.Decimal, error) {
	prev, err := s.summaryRepo.GetLatestBefore(ctx, tenantID, userID, day)
	if err == nil {
		return prev.ClosingBalance, nil
	}
	if !errors.Is(err, domain.ErrSummaryNotFound) {
		return decimal.Zero, fmt.Errorf("accountantService.openingFor summary: %w", err)
	}

	profile, err := s.accountantRepo.GetProfile(ctx, tenantID, userID)
	if err == nil {
		return profile.OpeningBalance, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return decimal.Zero, fmt.Errorf("accountantService.openingFor profile: %w", err)
	}
	return decimal.Zero, nil
}

// VerifyDailySummary is a one-way flag flip.
func (s *accountantService) VerifyDailySummary(ctx context.Context, tenantID, summaryID, verifiedBy uuid.UUID) (*domain.DailySummary, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if err := s.summaryRepo.Verify(ctx, tenantID, summaryID, verifiedBy, s.now().UTC()); err != nil {
		return nil, err
	}
	s.log.Info("daily summary verified", zap.Stringer("summary_id", summaryID), zap.Stringer("verified_by", verifiedBy))
	return s.summaryRepo.GetByID(ctx, tenantID, summaryID)
}
