package domain

import (
	"time"

	"github.com/google/uuid"
)

type FreezeReason string

const (
	FreezeReasonDamage             FreezeReason = "DAMAGE"
	FreezeReasonWash               FreezeReason = "WASH"
	FreezeReasonLaundry            FreezeReason = "LAUNDRY"
	FreezeReasonRestoration        FreezeReason = "RESTORATION"
	FreezeReasonAwaitingAssignment FreezeReason = "AWAITING_ASSIGNMENT"
)

func ParseFreezeReason(v string) (FreezeReason, error) {
	switch r := FreezeReason(v); r {
	case FreezeReasonDamage, FreezeReasonWash, FreezeReasonLaundry,
		FreezeReasonRestoration, FreezeReasonAwaitingAssignment:
		return r, nil
	default:
		return "", &ValidationError{Field: "reason", Reason: "unknown freeze reason: " + v}
	}
}

// Blocking reports whether units frozen for this reason truly cannot be issued.
// Routine processing (wash, laundry, restoration) usually completes before the
// promised date and is surfaced as a warning instead of blocking.
func (r FreezeReason) Blocking() bool {
	return r == FreezeReasonDamage
}

// FreezeEntry is one case of units pulled out of the rentable pool. A product's
// frozen quantity is the sum of its open entries; there is no separate counter.
type FreezeEntry struct {
	ID         uuid.UUID    `json:"id"`
	ProductID  int32        `json:"product_id"`
	Quantity   int32        `json:"quantity"`
	Reason     FreezeReason `json:"reason"`
	Note       string       `json:"note,omitempty"`
	OpenedAt   time.Time    `json:"opened_at"`
	ResolvedAt *time.Time   `json:"resolved_at,omitempty"`
}

func (e *FreezeEntry) IsOpen() bool {
	return e.ResolvedAt == nil
}
