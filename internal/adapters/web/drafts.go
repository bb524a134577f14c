package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quotation-desk/internal/ai"
	"quotation-desk/internal/app"
)

// createDraft handles POST /api/drafts {partyId | editId | reviseId}.
func (h *Handler) createDraft(w http.ResponseWriter, r *http.Request) {
	var req app.StartDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.StartDraft(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "load quotation")
		return
	}
	writeStatusJSON(w, http.StatusCreated, res)
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetDraft(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err, "load draft")
		return
	}
	writeJSON(w, res)
}

func (h *Handler) discardDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DiscardDraft(chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err, "discard draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// addDraftItem handles POST /api/drafts/{id}/items {componentId}.
func (h *Handler) addDraftItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ComponentID string `json:"componentId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.AddLineItem(r.Context(), chi.URLParam(r, "id"), req.ComponentID)
	if err != nil {
		h.writeServiceError(w, r, err, "add component")
		return
	}
	writeJSON(w, res)
}

// updateDraftItem handles PATCH /api/drafts/{id}/items/{itemId} {field, value}.
// value may be sent as a JSON string or number.
func (h *Handler) updateDraftItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Field string     `json:"field"`
		Value flexString `json:"value"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateLineItem(app.UpdateLineItemRequest{
		DraftID: chi.URLParam(r, "id"),
		ItemID:  itemID,
		Field:   req.Field,
		Value:   string(req.Value),
	})
	if err != nil {
		h.writeServiceError(w, r, err, "update line item")
		return
	}
	writeJSON(w, res)
}

func (h *Handler) removeDraftItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}
	res, err := h.svc.RemoveLineItem(chi.URLParam(r, "id"), itemID)
	if err != nil {
		h.writeServiceError(w, r, err, "remove line item")
		return
	}
	writeJSON(w, res)
}

// updateDraftMeta handles PUT /api/drafts/{id}/meta. Omitted fields are kept.
func (h *Handler) updateDraftMeta(w http.ResponseWriter, r *http.Request) {
	var req app.DraftMetaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.DraftID = chi.URLParam(r, "id")
	res, err := h.svc.UpdateDraftMeta(req)
	if err != nil {
		h.writeServiceError(w, r, err, "update quotation")
		return
	}
	writeJSON(w, res)
}

// submitDraft handles POST /api/drafts/{id}/submit. A second submit while
// one is in flight gets 409.
func (h *Handler) submitDraft(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SubmitDraft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err, "save quotation")
		return
	}
	writeJSON(w, res)
}

// suggestItems handles POST /api/drafts/{id}/suggestions {requirement}.
// Nothing is added until the client posts the suggestion to /apply.
func (h *Handler) suggestItems(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.GetDraft(chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err, "suggest components")
		return
	}
	var req struct {
		Requirement string `json:"requirement"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.SuggestLineItems(r.Context(), req.Requirement)
	if err != nil {
		h.writeServiceError(w, r, err, "suggest components")
		return
	}
	writeJSON(w, res)
}

func (h *Handler) applySuggestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Suggestion ai.Suggestion `json:"suggestion"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ApplySuggestion(r.Context(), chi.URLParam(r, "id"), req.Suggestion)
	if err != nil {
		h.writeServiceError(w, r, err, "apply suggestion")
		return
	}
	writeJSON(w, res)
}

func itemIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "itemId"))
	if err != nil {
		writeError(w, r, "invalid item id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// flexString accepts a JSON string, number or null.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := string(b)
	switch {
	case s == "null":
		*f = ""
	case len(s) > 0 && s[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexString(v)
	default:
		*f = flexString(s)
	}
	return nil
}
