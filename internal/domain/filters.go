package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChallanFilter narrows a challan search. Zero-valued fields do not filter.
// Limit 0 returns every match.
type ChallanFilter struct {
	TenantID  uuid.UUID
	StudentID *uuid.UUID
	ClassID   *uuid.UUID
	Statuses  []ChallanStatus
	DueFrom   *time.Time
	DueTo     *time.Time
	Offset    int
	Limit     int
}
