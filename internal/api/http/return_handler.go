package http

import (
	"net/http"

	"equiprent-backend/internal/service"
)

// ReturnHandler serves the return intake and partial-return version endpoints
type ReturnHandler struct {
	svc service.ReturnService
}

func NewReturnHandler(svc service.ReturnService) *ReturnHandler {
	return &ReturnHandler{svc: svc}
}

type recordReturnRequest struct {
	// Returned maps product ID to quantity handed back at the counter.
	// An empty map records a full return of every line.
	Returned map[int32]int32 `json:"returned"`
}

// HandleRecordReturn books returned quantities against an order. When items
// remain outstanding the created version is returned; a full return responds
// with 204.
func (h *ReturnHandler) HandleRecordReturn(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req recordReturnRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	version, err := h.svc.RecordReturn(r.Context(), orderID, req.Returned)
	if err != nil {
		writeError(w, err)
		return
	}
	if version == nil {
		writeJSON(w, http.StatusNoContent, nil)
		return
	}
	writeJSON(w, http.StatusCreated, version)
}

// HandleResolveVersion closes a partial-return version in full
func (h *ReturnHandler) HandleResolveVersion(w http.ResponseWriter, r *http.Request) {
	versionID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.ResolveVersion(r.Context(), versionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// HandleReturnVersionItem marks one outstanding item of a version as returned.
// The version resolves automatically once its last item comes back.
func (h *ReturnHandler) HandleReturnVersionItem(w http.ResponseWriter, r *http.Request) {
	versionID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	productID, err := pathInt32(r, "productId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.ReturnVersionItem(r.Context(), versionID, productID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
