package domain

// UserRole is the caller's role as asserted by the identity collaborator.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleAccountant UserRole = "accountant"
	RoleStaff      UserRole = "staff"
)

// ChallanStatus is the derived settlement state of a challan.
type ChallanStatus string

const (
	ChallanStatusPending ChallanStatus = "pending"
	ChallanStatusUnpaid  ChallanStatus = "unpaid"
	ChallanStatusPartial ChallanStatus = "partial"
	ChallanStatusPaid    ChallanStatus = "paid"
)

// ValidChallanStatuses lists the statuses accepted from a manual override.
var ValidChallanStatuses = map[ChallanStatus]bool{
	ChallanStatusPending: true,
	ChallanStatusUnpaid:  true,
	ChallanStatusPartial: true,
	ChallanStatusPaid:    true,
}

// IsOpen reports whether the challan still accepts a re-priced fee template.
func (s ChallanStatus) IsOpen() bool {
	return s == ChallanStatusPending || s == ChallanStatusUnpaid
}

// SessionStatus represents the lifecycle of a cash session.
type SessionStatus string

const (
	SessionStatusActive                SessionStatus = "active"
	SessionStatusPendingReconciliation SessionStatus = "pending_reconciliation"
	SessionStatusClosed                SessionStatus = "closed"
)

// BalanceTxType classifies a movement on an accountant's running balance.
type BalanceTxType string

const (
	BalanceTxCollection BalanceTxType = "collection"
	BalanceTxWithdrawal BalanceTxType = "withdrawal"
	BalanceTxAdjustment BalanceTxType = "adjustment"
	// BalanceTxReversal takes back a collection that was corrected or deleted.
	BalanceTxReversal BalanceTxType = "reversal"
)

// ValidBalanceTxTypes is the set of accepted balance transaction types.
var ValidBalanceTxTypes = map[BalanceTxType]bool{
	BalanceTxCollection: true,
	BalanceTxWithdrawal: true,
	BalanceTxAdjustment: true,
	BalanceTxReversal:   true,
}
