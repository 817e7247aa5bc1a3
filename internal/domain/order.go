package domain

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "PENDING"
	OrderStatusAwaitingCustomer OrderStatus = "AWAITING_CUSTOMER"
	OrderStatusProcessing       OrderStatus = "PROCESSING"
	OrderStatusReadyForIssue    OrderStatus = "READY_FOR_ISSUE"
	OrderStatusIssued           OrderStatus = "ISSUED"
	OrderStatusOnRent           OrderStatus = "ON_RENT"
	OrderStatusReturning        OrderStatus = "RETURNING"
	OrderStatusPartialReturn    OrderStatus = "PARTIAL_RETURN"
	OrderStatusReturned         OrderStatus = "RETURNED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
	OrderStatusCompleted        OrderStatus = "COMPLETED"
)

// HoldingStatuses is the single authoritative list of statuses during which an
// order's reserved units are unavailable to other orders. Every committed-quantity
// query references this table; call sites must not maintain their own copies.
var HoldingStatuses = []OrderStatus{
	OrderStatusProcessing,
	OrderStatusReadyForIssue,
	OrderStatusIssued,
	OrderStatusOnRent,
}

// PossessionStatuses is the narrower "units physically with the customer" set,
// used for in-rent reporting. A committed-but-not-issued order blocks the same
// stock but does not count as in possession.
var PossessionStatuses = []OrderStatus{
	OrderStatusIssued,
	OrderStatusOnRent,
}

// ReleasedStatuses no longer count toward committed quantity. PARTIAL_RETURN is
// a closing status for a parent order whose unreturned items were carried into
// a successor version; the version holds the stock from then on.
var ReleasedStatuses = []OrderStatus{
	OrderStatusPartialReturn,
	OrderStatusReturned,
	OrderStatusCancelled,
	OrderStatusCompleted,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:          {OrderStatusAwaitingCustomer, OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusAwaitingCustomer: {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing:       {OrderStatusReadyForIssue, OrderStatusCancelled},
	OrderStatusReadyForIssue:    {OrderStatusIssued, OrderStatusCancelled},
	OrderStatusIssued:           {OrderStatusOnRent},
	OrderStatusOnRent:           {OrderStatusReturning},
	OrderStatusReturning:        {OrderStatusPartialReturn, OrderStatusReturned},
	OrderStatusPartialReturn:    {OrderStatusCompleted},
	OrderStatusReturned:         {OrderStatusCompleted},
	OrderStatusCancelled:        {},
	OrderStatusCompleted:        {},
}

func (s OrderStatus) IsHolding() bool {
	for _, h := range HoldingStatuses {
		if s == h {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsReleased() bool {
	for _, r := range ReleasedStatuses {
		if s == r {
			return true
		}
	}
	return false
}

// CanTransition reports whether the lifecycle allows moving from s to target.
func (s OrderStatus) CanTransition(target OrderStatus) bool {
	for _, t := range orderTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func ParseOrderStatus(v string) (OrderStatus, error) {
	s := OrderStatus(v)
	if _, ok := orderTransitions[s]; !ok {
		return "", &ValidationError{Field: "status", Reason: "unknown order status: " + v}
	}
	return s, nil
}

// Order is a rental order. ParentOrderID is a weak back-reference: it is set on
// partial-return versions and points at the order they were split from. An order
// is never deleted, only terminally marked.
type Order struct {
	ID               int32       `json:"id"`
	OrderNumber      string      `json:"order_number"`
	Status           OrderStatus `json:"status"`
	RentalStartDate  time.Time   `json:"rental_start_date"`
	RentalEndDate    time.Time   `json:"rental_end_date"`
	ParentOrderID    *int32      `json:"parent_order_id,omitempty"`
	HasPartialReturn bool        `json:"has_partial_return"`
	CreatedOn        time.Time   `json:"created_on"`
	UpdatedOn        time.Time   `json:"updated_on"`
}

// ReservationLine is one product line on an order. Committed quantity for a
// product over a window is the sum of Quantity across lines whose order is in
// the holding set and overlaps the window.
type ReservationLine struct {
	OrderID   int32           `json:"order_id"`
	ProductID int32           `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	DailyRate decimal.Decimal `json:"daily_rate"`
}

var versionSuffixRe = regexp.MustCompile(`\((\d+)\)$`)

// BaseOrderNumber strips a trailing "(n)" version suffix, if any.
func BaseOrderNumber(orderNumber string) string {
	return versionSuffixRe.ReplaceAllString(orderNumber, "")
}

// VersionSuffix extracts the numeric version suffix of a display number, or 0
// if the number carries none.
func VersionSuffix(displayNumber string) int32 {
	m := versionSuffixRe.FindStringSubmatch(displayNumber)
	if m == nil {
		return 0
	}
	var n int32
	for _, c := range m[1] {
		n = n*10 + int32(c-'0')
	}
	return n
}
