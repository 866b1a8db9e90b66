package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Settlement is the derived state of a challan: everything the status engine
// is allowed to write.
type Settlement struct {
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          ChallanStatus   `json:"status"`
	LastPaymentDate *time.Time      `json:"last_payment_date,omitempty"`
}

// DeriveStatus applies the three-way rule: nothing paid is unpaid, paid at or
// above the total is paid, anything in between is partial.
func DeriveStatus(paid, total decimal.Decimal) ChallanStatus {
	switch {
	case !paid.IsPositive():
		return ChallanStatusUnpaid
	case paid.GreaterThanOrEqual(total):
		return ChallanStatusPaid
	default:
		return ChallanStatusPartial
	}
}

// ComputeSettlement derives paid, remaining, status and last payment date for
// a bill of the given total from its full payment history. Paid is capped at
// the total; any excess is kept on the payments but has no effect here.
// lastPayment is returned unchanged when there are no payments.
func ComputeSettlement(total decimal.Decimal, payments []Payment, lastPayment *time.Time) Settlement {
	sum := decimal.Zero
	var latest *time.Time
	for i := range payments {
		sum = sum.Add(payments[i].Amount)
		paidAt := payments[i].PaidAt
		if latest == nil || paidAt.After(*latest) {
			latest = &paidAt
		}
	}
	if latest == nil {
		latest = lastPayment
	}

	paid := decimal.Min(sum, total)
	if paid.IsNegative() {
		paid = decimal.Zero
	}
	return Settlement{
		PaidAmount:      paid,
		RemainingAmount: remainingFor(total, paid),
		Status:          DeriveStatus(paid, total),
		LastPaymentDate: latest,
	}
}

func remainingFor(total, paid decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, total.Sub(paid))
}

// ApplySettlement copies the derived fields onto the challan.
func (c *Challan) ApplySettlement(s Settlement) {
	c.PaidAmount = s.PaidAmount
	c.RemainingAmount = s.RemainingAmount
	c.Status = s.Status
	c.LastPaymentDate = s.LastPaymentDate
}

// Settlement returns the challan's current derived fields.
func (c *Challan) Settlement() Settlement {
	return Settlement{
		PaidAmount:      c.PaidAmount,
		RemainingAmount: c.RemainingAmount,
		Status:          c.Status,
		LastPaymentDate: c.LastPaymentDate,
	}
}

// Reprice rebinds an open challan to a new snapshot and re-settles it
// against the new total from its payment history, so paid never exceeds
// the new total.
func (c *Challan) Reprice(snap *CategorySnapshot, payments []Payment) {
	c.SnapshotID = snap.ID
	c.CategoryName = snap.CategoryName
	c.LineItems = snap.Components.Clone()
	c.TotalAmount = snap.TotalAmount
	c.ApplySettlement(ComputeSettlement(c.TotalAmount, payments, c.LastPaymentDate))
}

// SummarizeChallans rolls up a student's challans and derives an overall
// status from the summed amounts, independent of the per-challan statuses.
func SummarizeChallans(studentID uuid.UUID, challans []Challan) *StudentPaymentSummary {
	s := &StudentPaymentSummary{
		StudentID:       studentID,
		ChallanCount:    len(challans),
		TotalAmount:     decimal.Zero,
		PaidAmount:      decimal.Zero,
		RemainingAmount: decimal.Zero,
	}
	for i := range challans {
		s.TotalAmount = s.TotalAmount.Add(challans[i].TotalAmount)
		s.PaidAmount = s.PaidAmount.Add(challans[i].PaidAmount)
		s.RemainingAmount = s.RemainingAmount.Add(challans[i].RemainingAmount)
	}
	s.Status = DeriveStatus(s.PaidAmount, s.TotalAmount)
	return s
}
