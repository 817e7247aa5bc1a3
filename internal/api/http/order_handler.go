package http

import (
	"net/http"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/service"
)

// OrderHandler serves order booking and lifecycle endpoints
type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type placeOrderRequest struct {
	OrderNumber string                    `json:"order_number"`
	Items       []domain.OrderItemRequest `json:"items"`
	StartDate   string                    `json:"start_date"`
	EndDate     string                    `json:"end_date"`
}

// HandlePlaceOrder books an order atomically. A 409 with the stock error means
// the client should re-check availability and retry.
func (h *OrderHandler) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	window, err := windowFromStrings(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}

	order, err := h.svc.PlaceOrder(r.Context(), req.OrderNumber, req.Items, window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

type orderResponse struct {
	Order *domain.Order            `json:"order"`
	Lines []domain.ReservationLine `json:"lines"`
}

// HandleGetOrder returns an order with its reservation lines
func (h *OrderHandler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	order, lines, err := h.svc.GetOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order, Lines: lines})
}

type transitionRequest struct {
	Target string `json:"target"`
}

// HandleTransition moves an order along its lifecycle
func (h *OrderHandler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req transitionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	target, err := domain.ParseOrderStatus(req.Target)
	if err != nil {
		writeError(w, err)
		return
	}

	order, err := h.svc.Transition(r.Context(), orderID, target)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
