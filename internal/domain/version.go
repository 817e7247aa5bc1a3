package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type VersionStatus string

const (
	VersionStatusActive   VersionStatus = "ACTIVE"
	VersionStatusResolved VersionStatus = "RESOLVED"
)

type VersionItemStatus string

const (
	VersionItemStatusPending  VersionItemStatus = "PENDING"
	VersionItemStatusReturned VersionItemStatus = "RETURNED"
)

// PartialReturnVersion carries forward the items not handed back when an
// order's return was only partial. The version is backed by its own order-like
// record (OrderID) which holds the outstanding stock under the normal lifecycle
// rules; the parent order is closed the moment the version is created.
// Version numbers per parent are strictly increasing and never reused.
type PartialReturnVersion struct {
	ID            int32         `json:"id"`
	ParentOrderID int32         `json:"parent_order_id"`
	OrderID       int32         `json:"order_id"`
	VersionNumber int32         `json:"version_number"`
	DisplayNumber string        `json:"display_number"`
	RentalEndDate time.Time     `json:"rental_end_date"`
	Status        VersionStatus `json:"status"`
	Items         []VersionItem `json:"items"`
	CreatedOn     time.Time     `json:"created_on"`
}

type VersionItem struct {
	VersionID int32             `json:"version_id"`
	ProductID int32             `json:"product_id"`
	Quantity  int32             `json:"quantity"`
	DailyRate decimal.Decimal   `json:"daily_rate"`
	Status    VersionItemStatus `json:"status"`
}

// OutstandingVersionItem is a pending version item joined with its version,
// as reported by the partial-return risk query.
type OutstandingVersionItem struct {
	VersionID     int32     `json:"version_id"`
	DisplayNumber string    `json:"display_number"`
	ParentOrderID int32     `json:"parent_order_id"`
	ProductID     int32     `json:"product_id"`
	Quantity      int32     `json:"quantity"`
	RentalEndDate time.Time `json:"rental_end_date"`
}
