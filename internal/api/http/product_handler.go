package http

import (
	"net/http"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/service"
)

// ProductHandler serves the product catalog endpoints
type ProductHandler struct {
	svc service.ProductService
}

func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type createProductRequest struct {
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	TotalQuantity int32  `json:"total_quantity"`
}

func (h *ProductHandler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), req.SKU, req.Name, req.TotalQuantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// HandleGetProduct looks a product up by id, or by SKU via ?sku= on the
// collection route
func (h *ProductHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := h.svc.GetProduct(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) HandleGetProductBySKU(w http.ResponseWriter, r *http.Request) {
	sku := r.URL.Query().Get("sku")
	if sku == "" {
		writeError(w, &domain.ValidationError{Field: "sku", Reason: "query parameter is required"})
		return
	}

	product, err := h.svc.GetProductBySKU(r.Context(), sku)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

type setStateRequest struct {
	State string `json:"state"`
}

func (h *ProductHandler) HandleSetState(w http.ResponseWriter, r *http.Request) {
	productID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req setStateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.SetState(r.Context(), productID, domain.ProductState(req.State)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
