package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
	"equiprent-backend/internal/service"

	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

// RegisterRoutes wires all API endpoints onto the router
func RegisterRoutes(router *mux.Router, productSvc service.ProductService, availabilitySvc service.AvailabilityService, orderSvc service.OrderService, returnSvc service.ReturnService, freezeSvc service.FreezeService) {
	products := NewProductHandler(productSvc)
	availability := NewAvailabilityHandler(availabilitySvc)
	orders := NewOrderHandler(orderSvc)
	returns := NewReturnHandler(returnSvc)
	freezes := NewFreezeHandler(freezeSvc)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/products", products.HandleCreateProduct).Methods("POST")
	api.HandleFunc("/products", products.HandleGetProductBySKU).Methods("GET")
	api.HandleFunc("/products/{id}", products.HandleGetProduct).Methods("GET")
	api.HandleFunc("/products/{id}/state", products.HandleSetState).Methods("POST")

	api.HandleFunc("/availability/check", availability.HandleCheck).Methods("POST")
	api.HandleFunc("/availability/check-order", availability.HandleCheckOrder).Methods("POST")
	api.HandleFunc("/products/{id}/in-possession", availability.HandleInPossession).Methods("GET")

	api.HandleFunc("/orders", orders.HandlePlaceOrder).Methods("POST")
	api.HandleFunc("/orders/{id}", orders.HandleGetOrder).Methods("GET")
	api.HandleFunc("/orders/{id}/transition", orders.HandleTransition).Methods("POST")

	api.HandleFunc("/orders/{id}/return", returns.HandleRecordReturn).Methods("POST")
	api.HandleFunc("/versions/{id}/resolve", returns.HandleResolveVersion).Methods("POST")
	api.HandleFunc("/versions/{id}/items/{productId}/return", returns.HandleReturnVersionItem).Methods("POST")

	api.HandleFunc("/products/{id}/freezes", freezes.HandleOpenFreeze).Methods("POST")
	api.HandleFunc("/products/{id}/freezes", freezes.HandleListOpenFreezes).Methods("GET")
	api.HandleFunc("/freezes/{entryId}/close", freezes.HandleCloseFreeze).Methods("POST")
	api.HandleFunc("/products/{id}/freezes/{entryId}/write-off", freezes.HandleWriteOff).Methods("POST")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps domain errors onto HTTP statuses. Retryable conflicts
// (stock taken, lock timeout) and state conflicts share 409.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrFreezeNotFound),
		errors.Is(err, domain.ErrVersionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStockUnavailable),
		errors.Is(err, domain.ErrLockTimeout),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrParentAlreadyClosed),
		errors.Is(err, domain.ErrActiveVersionExists),
		errors.Is(err, domain.ErrVersionOfVersion),
		errors.Is(err, domain.ErrFreezeAlreadyResolved),
		errors.Is(err, domain.ErrVersionAlreadyResolved),
		errors.Is(err, domain.ErrFrozenExceedsTotal),
		errors.Is(err, domain.ErrQuantityOverReturn):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pathInt32(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, &domain.ValidationError{Field: name, Reason: "must be an integer"}
	}
	return int32(v), nil
}

func parseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, &domain.ValidationError{Field: field, Reason: "required, format YYYY-MM-DD"}
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Reason: "format must be YYYY-MM-DD"}
	}
	return t, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "malformed JSON: " + err.Error()}
	}
	return nil
}
