package domain

import (
	"errors"
	"fmt"
)

// Base error kinds. Every specific sentinel below wraps exactly one of them so
// callers can branch on the kind with errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

var (
	ErrMissingTenant = fmt.Errorf("%w: tenant scope is required", ErrValidation)
	ErrInvalidAmount = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrInvalidMethod = fmt.Errorf("%w: payment method is required", ErrValidation)

	ErrCategoryNotFound      = fmt.Errorf("fee category: %w", ErrNotFound)
	ErrSnapshotNotFound      = fmt.Errorf("category snapshot: %w", ErrNotFound)
	ErrDuplicateCategoryName = fmt.Errorf("%w: an active fee category with this name already exists", ErrConflict)
	ErrCategoryInUse         = fmt.Errorf("%w: fee category is referenced by snapshots; archive it instead", ErrConflict)

	ErrAssignmentNotFound = fmt.Errorf("class fee assignment: %w", ErrNotFound)
	ErrAssignmentConflict = fmt.Errorf("%w: class already has an active fee assignment", ErrConflict)

	ErrStudentNotFound = fmt.Errorf("student: %w", ErrNotFound)
	ErrClassNotFound   = fmt.Errorf("class: %w", ErrNotFound)

	ErrChallanNotFound     = fmt.Errorf("challan: %w", ErrNotFound)
	ErrChallanHasPayments  = fmt.Errorf("%w: challan has recorded payments", ErrConflict)
	ErrInvalidChallanState = fmt.Errorf("%w: unknown challan status", ErrValidation)
	ErrPaymentNotFound     = fmt.Errorf("payment: %w", ErrNotFound)
	ErrConcurrentUpdate    = fmt.Errorf("%w: record changed concurrently, retries exhausted", ErrConflict)

	ErrSessionNotFound      = fmt.Errorf("cash session: %w", ErrNotFound)
	ErrSessionClosed        = fmt.Errorf("%w: cash session is closed", ErrValidation)
	ErrSessionAlreadyClosed = fmt.Errorf("%w: cash session is already closed", ErrConflict)

	ErrProfileNotFound        = fmt.Errorf("accountant profile: %w", ErrNotFound)
	ErrSummaryNotFound        = fmt.Errorf("daily summary: %w", ErrNotFound)
	ErrSummaryAlreadyVerified = fmt.Errorf("%w: daily summary is already verified", ErrConflict)
	ErrInvalidBalanceType     = fmt.Errorf("%w: balance transaction type must be collection, withdrawal or adjustment", ErrValidation)
)

// Repository-level signals consumed by the services' retry and convergence
// loops; they are not expected to reach callers.
var (
	ErrStaleVersion      = fmt.Errorf("%w: stale version", ErrConflict)
	ErrOpenSessionExists = fmt.Errorf("%w: an open cash session already exists for this day", ErrConflict)
)
