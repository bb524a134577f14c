package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"quotation-desk/internal/api"
	"quotation-desk/internal/app"
	"quotation-desk/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeStatusJSON(w, http.StatusOK, v)
}

func writeStatusJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps an ApplicationService error to an HTTP response.
// action completes "Failed to ..." for errors coming back from the API.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var (
		apiErr *api.Error
		netErr *api.NetworkError
	)
	switch {
	case errors.Is(err, app.ErrDraftNotFound),
		errors.Is(err, app.ErrLineItemNotFound),
		errors.Is(err, app.ErrComponentNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrSubmitInProgress):
		writeError(w, r, err.Error(), "SUBMIT_IN_PROGRESS", http.StatusConflict)
	case errors.Is(err, app.ErrSubmitUnconfirmed):
		writeError(w, r, err.Error(), "SUBMIT_UNCONFIRMED", http.StatusBadGateway)
	case errors.Is(err, app.ErrAssistantDisabled):
		writeError(w, r, err.Error(), "ASSISTANT_DISABLED", http.StatusServiceUnavailable)
	case errors.Is(err, app.ErrNotLoggedIn):
		writeError(w, r, err.Error(), "UNAUTHORIZED", http.StatusUnauthorized)
	case app.IsUserError(err):
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	case errors.As(err, &apiErr):
		status, code := http.StatusBadGateway, "UPSTREAM_ERROR"
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized:
			status, code = http.StatusUnauthorized, "UNAUTHORIZED"
		case apiErr.StatusCode == http.StatusNotFound:
			status, code = http.StatusNotFound, "NOT_FOUND"
		case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
			status, code = http.StatusUnprocessableEntity, "REJECTED"
		}
		writeError(w, r, api.UserMessage(err, action), code, status)
	case errors.As(err, &netErr):
		writeError(w, r, api.UserMessage(err, action), "UPSTREAM_UNAVAILABLE", http.StatusBadGateway)
	default:
		h.log.Error("request failed", zap.String("action", action), zap.Error(err),
			zap.String("request_id", requestIDFromContext(r.Context())))
		writeError(w, r, "Failed to "+action+". Please try again.", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
