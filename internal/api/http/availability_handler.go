package http

import (
	"net/http"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/service"
)

// AvailabilityHandler serves availability verdicts
type AvailabilityHandler struct {
	svc service.AvailabilityService
}

func NewAvailabilityHandler(svc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

type checkRequest struct {
	ProductID      int32  `json:"product_id"`
	Quantity       int32  `json:"quantity"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	ExcludeOrderID *int32 `json:"exclude_order_id,omitempty"`
}

// HandleCheck evaluates availability for one product over a window
func (h *AvailabilityHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	window, err := windowFromStrings(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.CheckAvailability(r.Context(), req.ProductID, req.Quantity, window, req.ExcludeOrderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type checkOrderRequest struct {
	Items          []domain.OrderItemRequest `json:"items"`
	StartDate      string                    `json:"start_date"`
	EndDate        string                    `json:"end_date"`
	ExcludeOrderID *int32                    `json:"exclude_order_id,omitempty"`
}

// HandleCheckOrder evaluates every line of a prospective order in one call
func (h *AvailabilityHandler) HandleCheckOrder(w http.ResponseWriter, r *http.Request) {
	var req checkOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	window, err := windowFromStrings(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.CheckOrderAvailability(r.Context(), req.Items, window, req.ExcludeOrderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleInPossession reports units physically out with customers over a window
func (h *AvailabilityHandler) HandleInPossession(w http.ResponseWriter, r *http.Request) {
	productID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	window, err := windowFromStrings(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, err)
		return
	}

	qty, err := h.svc.InPossessionQuantity(r.Context(), productID, window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"in_possession_qty": qty})
}

func windowFromStrings(start, end string) (domain.DateWindow, error) {
	startDate, err := parseDate("start_date", start)
	if err != nil {
		return domain.DateWindow{}, err
	}
	endDate, err := parseDate("end_date", end)
	if err != nil {
		return domain.DateWindow{}, err
	}
	return domain.DateWindow{Start: startDate, End: endDate}, nil
}
