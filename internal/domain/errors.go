package domain

import (
	"errors"
	"fmt"
)

// Consistency and concurrency errors. ErrStockUnavailable and ErrLockTimeout
// are retryable by the caller with fresh availability data; the rest are fatal
// to the specific operation.
var (
	ErrProductNotFound        = errors.New("product not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrFreezeNotFound         = errors.New("freeze entry not found")
	ErrVersionNotFound        = errors.New("partial-return version not found")
	ErrInvalidTransition      = errors.New("invalid order status transition")
	ErrParentAlreadyClosed    = errors.New("parent order is already closed")
	ErrActiveVersionExists    = errors.New("parent order already has an active version")
	ErrVersionOfVersion       = errors.New("a partial-return version cannot be versioned again")
	ErrFreezeAlreadyResolved  = errors.New("freeze entry is already resolved")
	ErrFrozenExceedsTotal     = errors.New("frozen quantity would exceed total quantity")
	ErrQuantityOverReturn     = errors.New("returned quantity exceeds reserved quantity")
	ErrStockUnavailable       = errors.New("stock no longer available at commit time")
	ErrLockTimeout            = errors.New("timed out waiting for booking lock")
	ErrVersionAlreadyResolved = errors.New("partial-return version is already resolved")
)

// ValidationError identifies the offending input field. Input errors fail fast
// and are never folded into a partial availability verdict.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
