package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateWindow is an inclusive rental date range. Overlap is boundary-inclusive:
// an order ending exactly on another window's start date still overlaps it,
// because both need the units on that day.
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w DateWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return &ValidationError{Field: "window", Reason: "start and end dates are required"}
	}
	if w.End.Before(w.Start) {
		return &ValidationError{Field: "window", Reason: "end date is before start date"}
	}
	return nil
}

func (w DateWindow) Overlaps(other DateWindow) bool {
	return !w.Start.After(other.End) && !w.End.Before(other.Start)
}

// OverlappingReservation is one order line that intersects a queried window,
// used to derive committed quantity details and tight-schedule risk.
type OverlappingReservation struct {
	OrderID         int32       `json:"order_id"`
	OrderNumber     string      `json:"order_number"`
	Status          OrderStatus `json:"status"`
	RentalStartDate time.Time   `json:"rental_start_date"`
	RentalEndDate   time.Time   `json:"rental_end_date"`
	Quantity        int32       `json:"quantity"`
}

type TightScheduleReason string

const (
	// TightScheduleHandoff: the overlapping order is already issued or on rent,
	// so fulfilling both depends on a timely physical handoff.
	TightScheduleHandoff TightScheduleReason = "HANDOFF"
	// TightScheduleTurnaround: the other order ends 0-1 days before the queried
	// window starts, leaving no slack for cleaning and restock.
	TightScheduleTurnaround TightScheduleReason = "TURNAROUND"
)

type TightScheduleRisk struct {
	OrderID       int32               `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	Status        OrderStatus         `json:"status"`
	RentalEndDate time.Time           `json:"rental_end_date"`
	Reason        TightScheduleReason `json:"reason"`
}

type PartialReturnRisk struct {
	VersionID     int32     `json:"version_id"`
	DisplayNumber string    `json:"display_number"`
	ParentOrderID int32     `json:"parent_order_id"`
	ProductID     int32     `json:"product_id"`
	Quantity      int32     `json:"quantity"`
	RentalEndDate time.Time `json:"rental_end_date"`
	DaysOverdue   int32     `json:"days_overdue"`
}

type ProcessingRisk struct {
	EntryID  uuid.UUID    `json:"entry_id"`
	Reason   FreezeReason `json:"reason"`
	Quantity int32        `json:"quantity"`
	OpenedAt time.Time    `json:"opened_at"`
}

// AvailabilityResult is the verdict for one product over one window. Frozen and
// processing quantities are never subtracted from AvailableQty; they surface as
// risks the caller presents to staff. "Not enough stock" is a result, not an error.
type AvailabilityResult struct {
	ProductID         int32               `json:"product_id"`
	RequestedQty      int32               `json:"requested_qty"`
	TotalQty          int32               `json:"total_qty"`
	CommittedQty      int32               `json:"committed_qty"`
	FrozenQty         int32               `json:"frozen_qty"`
	AvailableQty      int32               `json:"available_qty"`
	IsAvailable       bool                `json:"is_available"`
	TightScheduleRisk []TightScheduleRisk `json:"tight_schedule_risk,omitempty"`
	PartialReturnRisk []PartialReturnRisk `json:"partial_return_risk,omitempty"`
	ProcessingRisk    []ProcessingRisk    `json:"processing_risk,omitempty"`
}

// OrderItemRequest is one requested line of a prospective order.
type OrderItemRequest struct {
	ProductID int32           `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	DailyRate decimal.Decimal `json:"daily_rate"`
}

type OrderAvailabilityResult struct {
	AllAvailable           bool                 `json:"all_available"`
	Items                  []AvailabilityResult `json:"items"`
	PartialReturnRiskItems []PartialReturnRisk  `json:"partial_return_risk_items,omitempty"`
}
