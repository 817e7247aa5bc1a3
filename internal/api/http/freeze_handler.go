package http

import (
	"net/http"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// FreezeHandler serves the maintenance freeze endpoints
type FreezeHandler struct {
	svc service.FreezeService
}

func NewFreezeHandler(svc service.FreezeService) *FreezeHandler {
	return &FreezeHandler{svc: svc}
}

type openFreezeRequest struct {
	Quantity int32  `json:"quantity"`
	Reason   string `json:"reason"`
	Note     string `json:"note,omitempty"`
}

// HandleOpenFreeze freezes units of a product for maintenance
func (h *FreezeHandler) HandleOpenFreeze(w http.ResponseWriter, r *http.Request) {
	productID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req openFreezeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	reason, err := domain.ParseFreezeReason(req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.svc.OpenFreeze(r.Context(), productID, req.Quantity, reason, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// HandleCloseFreeze resolves a freeze entry and releases its units
func (h *FreezeHandler) HandleCloseFreeze(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathUUID(r, "entryId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.CloseFreeze(r.Context(), entryID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// HandleWriteOff closes a damage freeze and permanently removes its units
// from the product's total
func (h *FreezeHandler) HandleWriteOff(w http.ResponseWriter, r *http.Request) {
	productID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	entryID, err := pathUUID(r, "entryId")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.WriteOff(r.Context(), productID, entryID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type freezeListResponse struct {
	FrozenQty int32                `json:"frozen_qty"`
	Entries   []domain.FreezeEntry `json:"entries"`
}

// HandleListOpenFreezes lists a product's open freeze entries with the derived
// frozen total
func (h *FreezeHandler) HandleListOpenFreezes(w http.ResponseWriter, r *http.Request) {
	productID, err := pathInt32(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := h.svc.ListOpenFreezes(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}
	frozen, err := h.svc.FrozenQuantity(r.Context(), productID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, freezeListResponse{FrozenQty: frozen, Entries: entries})
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: name, Reason: "must be a UUID"}
	}
	return id, nil
}
