package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashSession is a collector's working cash balance for one day.
type CashSession struct {
	ID                     uuid.UUID           `db:"id" json:"id"`
	TenantID               uuid.UUID           `db:"tenant_id" json:"tenant_id"`
	UserID                 uuid.UUID           `db:"user_id" json:"user_id"`
	SessionDate            time.Time           `db:"session_date" json:"session_date"`
	OpeningBalance         decimal.Decimal     `db:"opening_balance" json:"opening_balance"`
	OpeningBalanceByMethod MethodBalances      `db:"opening_balance_by_method" json:"opening_balance_by_method"`
	CurrentBalance         decimal.Decimal     `db:"current_balance" json:"current_balance"`
	CurrentBalanceByMethod MethodBalances      `db:"current_balance_by_method" json:"current_balance_by_method"`
	ClosingBalance         decimal.NullDecimal `db:"closing_balance" json:"closing_balance"`
	ClosingBalanceByMethod MethodBalances      `db:"closing_balance_by_method" json:"closing_balance_by_method"`
	Discrepancy            decimal.NullDecimal `db:"discrepancy" json:"discrepancy"`
	DiscrepancyByMethod    MethodBalances      `db:"discrepancy_by_method" json:"discrepancy_by_method"`
	DiscrepancyNotes       string              `db:"discrepancy_notes" json:"discrepancy_notes"`
	Status                 SessionStatus       `db:"status" json:"status"`
	StartedAt              time.Time           `db:"started_at" json:"started_at"`
	ClosedAt               *time.Time          `db:"closed_at" json:"closed_at,omitempty"`
	VerifiedBy             *uuid.UUID          `db:"verified_by" json:"verified_by,omitempty"`
	Version                int64               `db:"version" json:"version"`
	UpdatedAt              time.Time           `db:"updated_at" json:"updated_at"`
}

// NewCashSession opens an active session for sessionDate. The opening balance
// carries forward the closing balance of previous, or zero when previous is nil.
func NewCashSession(tenantID, userID uuid.UUID, sessionDate time.Time, previous *CashSession, now time.Time) *CashSession {
	opening := decimal.Zero
	openingByMethod := MethodBalances{}
	if previous != nil && previous.ClosingBalance.Valid {
		opening = previous.ClosingBalance.Decimal
		openingByMethod = previous.ClosingBalanceByMethod.Clone()
	}
	return &CashSession{
		ID:                     uuid.New(),
		TenantID:               tenantID,
		UserID:                 userID,
		SessionDate:            sessionDate,
		OpeningBalance:         opening,
		OpeningBalanceByMethod: openingByMethod,
		CurrentBalance:         opening,
		CurrentBalanceByMethod: openingByMethod.Clone(),
		Status:                 SessionStatusActive,
		StartedAt:              now.UTC(),
	}
}

// IsClosed reports whether the session no longer accepts transactions.
func (s *CashSession) IsClosed() bool {
	return s.Status == SessionStatusClosed
}

// Post applies a transaction to the in-memory balances. Persistence applies
// the same change with an atomic increment.
func (s *CashSession) Post(amount decimal.Decimal, method string) {
	s.CurrentBalance = s.CurrentBalance.Add(amount)
	s.CurrentBalanceByMethod = s.CurrentBalanceByMethod.Add(method, amount)
}

// ApplyClose stamps the reconciliation result and closes the session.
func (s *CashSession) ApplyClose(rec Reconciliation, notes string, verifiedBy uuid.UUID, at time.Time) {
	closedAt := at.UTC()
	s.ClosingBalance = decimal.NewNullDecimal(rec.Actual)
	s.ClosingBalanceByMethod = rec.ActualByMethod
	s.Discrepancy = decimal.NewNullDecimal(rec.Discrepancy)
	s.DiscrepancyByMethod = rec.DiscrepancyByMethod
	s.DiscrepancyNotes = notes
	s.Status = SessionStatusClosed
	s.ClosedAt = &closedAt
	s.VerifiedBy = &verifiedBy
}

// CashTransaction is an append-only cash movement posted to a session.
type CashTransaction struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	SessionID uuid.UUID       `db:"session_id" json:"session_id" validate:"required"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id" validate:"required"`
	TenantID  uuid.UUID       `db:"tenant_id" json:"tenant_id" validate:"required"`
	PaymentID *uuid.UUID      `db:"payment_id" json:"payment_id,omitempty"`
	StudentID *uuid.UUID      `db:"student_id" json:"student_id,omitempty"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Method    string          `db:"method" json:"method" validate:"required,max=60"`
	Reference string          `db:"reference" json:"reference" validate:"max=200"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// NewCashTransaction validates and builds a transaction row.
func NewCashTransaction(tenantID, sessionID, userID uuid.UUID, paymentID, studentID *uuid.UUID,
	amount decimal.Decimal, method, reference string, at time.Time) (*CashTransaction, error) {
	tx := &CashTransaction{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserID:    userID,
		TenantID:  tenantID,
		PaymentID: paymentID,
		StudentID: studentID,
		Amount:    amount,
		Method:    NormalizeMethod(method),
		Reference: reference,
		CreatedAt: at.UTC(),
	}
	if amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	if tx.Method == "" {
		return nil, ErrInvalidMethod
	}
	if err := validateStruct(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Reconciliation compares the system-tracked balance of a session with the
// amounts the collector declared at close.
type Reconciliation struct {
	Expected            decimal.Decimal `json:"expected"`
	ExpectedByMethod    MethodBalances  `json:"expected_by_method"`
	Actual              decimal.Decimal `json:"actual"`
	ActualByMethod      MethodBalances  `json:"actual_by_method"`
	Discrepancy         decimal.Decimal `json:"discrepancy"`
	DiscrepancyByMethod MethodBalances  `json:"discrepancy_by_method"`
}

// Reconcile computes actual minus expected for every method present on either
// side; a method missing from one side counts as zero there.
func Reconcile(expected, actual MethodBalances) Reconciliation {
	rec := Reconciliation{
		ExpectedByMethod:    MethodBalances{},
		ActualByMethod:      MethodBalances{},
		DiscrepancyByMethod: MethodBalances{},
	}
	for m, v := range expected {
		rec.ExpectedByMethod = rec.ExpectedByMethod.Add(m, v)
	}
	for m, v := range actual {
		rec.ActualByMethod = rec.ActualByMethod.Add(m, v)
	}
	for m := range rec.ExpectedByMethod {
		rec.DiscrepancyByMethod[m] = rec.ActualByMethod.Get(m).Sub(rec.ExpectedByMethod.Get(m))
	}
	for m := range rec.ActualByMethod {
		rec.DiscrepancyByMethod[m] = rec.ActualByMethod.Get(m).Sub(rec.ExpectedByMethod.Get(m))
	}
	rec.Expected = rec.ExpectedByMethod.Total()
	rec.Actual = rec.ActualByMethod.Total()
	rec.Discrepancy = rec.Actual.Sub(rec.Expected)
	return rec
}

// MethodBreakdown is a per-method count and total.
type MethodBreakdown struct {
	Method string          `db:"method" json:"method"`
	Count  int             `db:"count" json:"count"`
	Total  decimal.Decimal `db:"total" json:"total"`
}

// SessionSummary describes a session together with its transaction totals.
type SessionSummary struct {
	Session          *CashSession      `json:"session"`
	TransactionCount int               `json:"transaction_count"`
	TransactionTotal decimal.Decimal   `json:"transaction_total"`
	ByMethod         []MethodBreakdown `json:"by_method"`
}
