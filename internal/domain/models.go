package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeeCategory is a named billing template. Its total is never stored; it is
// always the sum of its components.
type FeeCategory struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	TenantID    uuid.UUID     `db:"tenant_id" json:"tenant_id" validate:"required"`
	Name        string        `db:"name" json:"name" validate:"required,max=120"`
	Description string        `db:"description" json:"description" validate:"max=1000"`
	Components  FeeComponents `db:"components" json:"components" validate:"required,min=1,dive"`
	Archived    bool          `db:"archived" json:"archived"`
	CreatedBy   uuid.UUID     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// NewFeeCategory builds an unarchived category and validates it.
func NewFeeCategory(tenantID, createdBy uuid.UUID, name, description string, components FeeComponents) (*FeeCategory, error) {
	c := &FeeCategory{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        strings.TrimSpace(name),
		Description: description,
		Components:  components.Clone(),
		CreatedBy:   createdBy,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks tags and that no component carries a negative amount.
func (c *FeeCategory) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	for i, comp := range c.Components {
		if err := requireNonNegative(fmt.Sprintf("components[%d].amount", i), comp.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Total returns the sum of component amounts.
func (c *FeeCategory) Total() decimal.Decimal {
	return c.Components.Total()
}

// CategorySnapshot is an immutable copy of a category taken when a bill is issued.
type CategorySnapshot struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	TenantID     uuid.UUID       `db:"tenant_id" json:"tenant_id"`
	CategoryID   uuid.UUID       `db:"category_id" json:"category_id"`
	CategoryName string          `db:"category_name" json:"category_name"`
	Components   FeeComponents   `db:"components" json:"components"`
	TotalAmount  decimal.Decimal `db:"total_amount" json:"total_amount"`
	SnapshotDate time.Time       `db:"snapshot_date" json:"snapshot_date"`
}

// NewCategorySnapshot copies the category's components and freezes the total.
func NewCategorySnapshot(c *FeeCategory, at time.Time) *CategorySnapshot {
	components := c.Components.Clone()
	return &CategorySnapshot{
		ID:           uuid.New(),
		TenantID:     c.TenantID,
		CategoryID:   c.ID,
		CategoryName: c.Name,
		Components:   components,
		TotalAmount:  components.Total(),
		SnapshotDate: at.UTC(),
	}
}

// ClassFeeAssignment binds a fee category to a class. At most one row per
// class is active; deactivated rows form the assignment history.
type ClassFeeAssignment struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	TenantID      uuid.UUID  `db:"tenant_id" json:"tenant_id" validate:"required"`
	ClassID       uuid.UUID  `db:"class_id" json:"class_id" validate:"required"`
	CategoryID    uuid.UUID  `db:"category_id" json:"category_id" validate:"required"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	AssignedBy    uuid.UUID  `db:"assigned_by" json:"assigned_by"`
	AssignedAt    time.Time  `db:"assigned_at" json:"assigned_at"`
	DeactivatedAt *time.Time `db:"deactivated_at" json:"deactivated_at,omitempty"`
}

// NewClassFeeAssignment builds an active assignment.
func NewClassFeeAssignment(tenantID, classID, categoryID, assignedBy uuid.UUID, at time.Time) (*ClassFeeAssignment, error) {
	a := &ClassFeeAssignment{
		ID:         uuid.New(),
		TenantID:   tenantID,
		ClassID:    classID,
		CategoryID: categoryID,
		IsActive:   true,
		AssignedBy: assignedBy,
		AssignedAt: at.UTC(),
	}
	if err := validateStruct(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Student is the collaborator-owned student record the core resolves on demand.
type Student struct {
	ID          uuid.UUID `db:"id" json:"id"`
	TenantID    uuid.UUID `db:"tenant_id" json:"tenant_id"`
	ClassID     uuid.UUID `db:"class_id" json:"class_id"`
	AdmissionNo string    `db:"admission_no" json:"admission_no"`
	FullName    string    `db:"full_name" json:"full_name"`
}

// Class is the collaborator-owned class record.
type Class struct {
	ID       uuid.UUID `db:"id" json:"id"`
	TenantID uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name     string    `db:"name" json:"name"`
}

// Challan is a per-student bill. TotalAmount is frozen from the snapshot;
// PaidAmount, RemainingAmount, Status and LastPaymentDate are only written by
// the settlement path. Version guards concurrent settlement writes.
type Challan struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	TenantID        uuid.UUID       `db:"tenant_id" json:"tenant_id" validate:"required"`
	StudentID       uuid.UUID       `db:"student_id" json:"student_id" validate:"required"`
	ClassID         uuid.UUID       `db:"class_id" json:"class_id" validate:"required"`
	SnapshotID      uuid.UUID       `db:"snapshot_id" json:"snapshot_id" validate:"required"`
	CategoryName    string          `db:"category_name" json:"category_name"`
	LineItems       FeeComponents   `db:"line_items" json:"line_items"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaidAmount      decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	RemainingAmount decimal.Decimal `db:"remaining_amount" json:"remaining_amount"`
	Status          ChallanStatus   `db:"status" json:"status"`
	IssueDate       time.Time       `db:"issue_date" json:"issue_date"`
	DueDate         time.Time       `db:"due_date" json:"due_date" validate:"required"`
	LastPaymentDate *time.Time      `db:"last_payment_date" json:"last_payment_date,omitempty"`
	Notes           string          `db:"notes" json:"notes"`
	Version         int64           `db:"version" json:"version"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// NewChallan builds an unpaid challan whose line items and total come from snap.
// A zero issueDate defaults to now.
func NewChallan(tenantID, studentID, classID uuid.UUID, snap *CategorySnapshot, issueDate, dueDate time.Time) (*Challan, error) {
	if snap == nil {
		return nil, ErrSnapshotNotFound
	}
	if issueDate.IsZero() {
		issueDate = time.Now().UTC()
	}
	c := &Challan{
		ID:              uuid.New(),
		TenantID:        tenantID,
		StudentID:       studentID,
		ClassID:         classID,
		SnapshotID:      snap.ID,
		CategoryName:    snap.CategoryName,
		LineItems:       snap.Components.Clone(),
		TotalAmount:     snap.TotalAmount,
		PaidAmount:      decimal.Zero,
		RemainingAmount: snap.TotalAmount,
		Status:          ChallanStatusUnpaid,
		IssueDate:       issueDate.UTC(),
		DueDate:         dueDate.UTC(),
	}
	if err := validateStruct(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Payment is a single collection event. ChallanID is nil on the legacy
// student-only path.
type Payment struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	TenantID   uuid.UUID       `db:"tenant_id" json:"tenant_id" validate:"required"`
	ChallanID  *uuid.UUID      `db:"challan_id" json:"challan_id,omitempty"`
	StudentID  uuid.UUID       `db:"student_id" json:"student_id" validate:"required"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Method     string          `db:"method" json:"method" validate:"required,max=60"`
	Reference  string          `db:"reference" json:"reference" validate:"max=200"`
	RecordedBy uuid.UUID       `db:"recorded_by" json:"recorded_by" validate:"required"`
	PaidAt     time.Time       `db:"paid_at" json:"paid_at"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// NewPayment builds a payment stamped with paidAt.
func NewPayment(tenantID uuid.UUID, challanID *uuid.UUID, studentID uuid.UUID, amount decimal.Decimal,
	method, reference string, recordedBy uuid.UUID, paidAt time.Time) (*Payment, error) {
	p := &Payment{
		ID:         uuid.New(),
		TenantID:   tenantID,
		ChallanID:  challanID,
		StudentID:  studentID,
		Amount:     amount,
		Method:     NormalizeMethod(method),
		Reference:  strings.TrimSpace(reference),
		RecordedBy: recordedBy,
		PaidAt:     paidAt.UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the payment invariants.
func (p *Payment) Validate() error {
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.Method == "" {
		return ErrInvalidMethod
	}
	return validateStruct(p)
}

// PaymentMethod is a remembered payment method name offered on future forms.
type PaymentMethod struct {
	TenantID   uuid.UUID `db:"tenant_id" json:"tenant_id"`
	Name       string    `db:"name" json:"name"`
	UsageCount int       `db:"usage_count" json:"usage_count"`
	LastUsedAt time.Time `db:"last_used_at" json:"last_used_at"`
}

// StudentPaymentSummary rolls up every challan of a student.
type StudentPaymentSummary struct {
	StudentID       uuid.UUID       `json:"student_id"`
	ChallanCount    int             `json:"challan_count"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          ChallanStatus   `json:"status"`
}
