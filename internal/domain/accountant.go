package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountantProfile is a collector's lifetime running balance, independent of
// cash sessions.
type AccountantProfile struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	TenantID       uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	UserID         uuid.UUID       `db:"user_id" json:"user_id"`
	OpeningBalance decimal.Decimal `db:"opening_balance" json:"opening_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance" json:"current_balance"`
	TotalCollected decimal.Decimal `db:"total_collected" json:"total_collected"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// BalanceTransaction is an immutable record of one balance movement.
type BalanceTransaction struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	TenantID     uuid.UUID       `db:"tenant_id" json:"tenant_id" validate:"required"`
	UserID       uuid.UUID       `db:"user_id" json:"user_id" validate:"required"`
	Type         BalanceTxType   `db:"type" json:"type" validate:"required"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	BalanceAfter decimal.Decimal `db:"balance_after" json:"balance_after"`
	Description  string          `db:"description" json:"description" validate:"max=500"`
	RecordedBy   uuid.UUID       `db:"recorded_by" json:"recorded_by"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// NewBalanceTransaction validates the type and amount of a balance movement.
// Amount is always positive; the type decides the sign.
func NewBalanceTransaction(tenantID, userID uuid.UUID, txType BalanceTxType, amount decimal.Decimal,
	description string, recordedBy uuid.UUID, at time.Time) (*BalanceTransaction, error) {
	if !ValidBalanceTxTypes[txType] {
		return nil, ErrInvalidBalanceType
	}
	if err := requirePositive("amount", amount); err != nil {
		return nil, err
	}
	tx := &BalanceTransaction{
		ID:          uuid.New(),
		TenantID:    tenantID,
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		RecordedBy:  recordedBy,
		CreatedAt:   at.UTC(),
	}
	if err := validateStruct(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// BalanceDelta is the signed change to current_balance.
func (t *BalanceTransaction) BalanceDelta() decimal.Decimal {
	switch t.Type {
	case BalanceTxWithdrawal, BalanceTxReversal:
		return t.Amount.Neg()
	default:
		return t.Amount
	}
}

// CollectedDelta is the change to lifetime total_collected.
func (t *BalanceTransaction) CollectedDelta() decimal.Decimal {
	switch t.Type {
	case BalanceTxCollection:
		return t.Amount
	case BalanceTxReversal:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// DailySummary is a collector's opening, collections and closing for one day.
type DailySummary struct {
	ID                  uuid.UUID       `db:"id" json:"id"`
	TenantID            uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	UserID              uuid.UUID       `db:"user_id" json:"user_id"`
	SummaryDate         time.Time       `db:"summary_date" json:"summary_date"`
	OpeningBalance      decimal.Decimal `db:"opening_balance" json:"opening_balance"`
	TotalCollected      decimal.Decimal `db:"total_collected" json:"total_collected"`
	CollectionsByMethod MethodBalances  `db:"collections_by_method" json:"collections_by_method"`
	PaymentCount        int             `db:"payment_count" json:"payment_count"`
	ClosingBalance      decimal.Decimal `db:"closing_balance" json:"closing_balance"`
	Verified            bool            `db:"verified" json:"verified"`
	VerifiedBy          *uuid.UUID      `db:"verified_by" json:"verified_by,omitempty"`
	VerifiedAt          *time.Time      `db:"verified_at" json:"verified_at,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updated_at"`
}

// BuildDailySummary aggregates a collector's payments for one day on top of
// the given opening balance.
func BuildDailySummary(tenantID, userID uuid.UUID, day time.Time, opening decimal.Decimal, payments []Payment) *DailySummary {
	byMethod := MethodBalances{}
	total := decimal.Zero
	for i := range payments {
		byMethod = byMethod.Add(payments[i].Method, payments[i].Amount)
		total = total.Add(payments[i].Amount)
	}
	return &DailySummary{
		ID:                  uuid.New(),
		TenantID:            tenantID,
		UserID:              userID,
		SummaryDate:         day,
		OpeningBalance:      opening,
		TotalCollected:      total,
		CollectionsByMethod: byMethod,
		PaymentCount:        len(payments),
		ClosingBalance:      opening.Add(total),
	}
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
