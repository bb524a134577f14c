package web

import (
	"errors"
	"net/http"

	"quotation-desk/internal/settings"
)

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Settings())
}

// updateSettings handles PUT /api/settings. Fields missing from the body
// keep their current values.
func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	next := h.svc.Settings()
	if !decodeJSON(w, r, &next) {
		return
	}
	saved, err := h.svc.UpdateSettings(r.Context(), next)
	if errors.Is(err, settings.ErrInvalidSettings) {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeServiceError(w, r, err, "save settings")
		return
	}
	writeJSON(w, saved)
}

func (h *Handler) resetSettings(w http.ResponseWriter, r *http.Request) {
	saved, err := h.svc.ResetSettings(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "reset settings")
		return
	}
	writeJSON(w, saved)
}
