package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"quotation-desk/internal/app"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	log       *zap.Logger
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes. Everything but
// health and login sits behind RequireAuth.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{svc: svc, log: log.Named("web"), jwtSecret: jwtSecret}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(h.log))
	r.Use(Recoverer(h.log))
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// ── Public ───────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Post("/api/auth/logout", h.logout)
		r.Get("/api/auth/me", h.me)
		r.Post("/api/auth/change-password", h.changePassword)

		// Catalog & parties
		r.Get("/api/components", h.listComponents)
		r.Post("/api/components", h.createComponent)
		r.Get("/api/components/{id}", h.getComponent)
		r.Put("/api/components/{id}", h.updateComponent)
		r.Delete("/api/components/{id}", h.deleteComponent)
		r.Get("/api/parties", h.listParties)
		r.Post("/api/parties", h.createParty)
		r.Get("/api/parties/{id}", h.getParty)
		r.Put("/api/parties/{id}", h.updateParty)
		r.Delete("/api/parties/{id}", h.deleteParty)

		// Drafts
		r.Post("/api/drafts", h.createDraft)
		r.Route("/api/drafts/{id}", func(r chi.Router) {
			r.Get("/", h.getDraft)
			r.Delete("/", h.discardDraft)
			r.Post("/items", h.addDraftItem)
			r.Patch("/items/{itemId}", h.updateDraftItem)
			r.Delete("/items/{itemId}", h.removeDraftItem)
			r.Put("/meta", h.updateDraftMeta)
			r.Post("/submit", h.submitDraft)
			r.Post("/suggestions", h.suggestItems)
			r.Post("/suggestions/apply", h.applySuggestion)
		})

		// Quotations
		r.Get("/api/quotations", h.listQuotations)
		r.Get("/api/quotations/{id}", h.getQuotation)
		r.Put("/api/quotations/{id}/status", h.updateQuotationStatus)
		r.Delete("/api/quotations/{id}", h.deleteQuotation)
		r.Get("/api/quotations/{id}/export.{format}", h.exportQuotation)

		// Tools
		r.Get("/api/dashboard", h.dashboard)
		r.Get("/api/reports/daily", h.dailyReport)
		r.Get("/api/price", h.convertPrice)
		r.Get("/api/settings", h.getSettings)
		r.Put("/api/settings", h.updateSettings)
		r.Post("/api/settings/reset", h.resetSettings)
	})

	h.router = r
	return r
}

// health reports whether the quotation API is reachable.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
		API    string `json:"api"`
	}
	res := response{Status: "ok", API: "ok"}
	if err := h.svc.Health(r.Context()); err != nil {
		h.log.Warn("api health check failed", zap.Error(err))
		res.API = "unreachable"
	}
	writeJSON(w, res)
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// queryBool reads a boolean query parameter; anything unparsable is false.
func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}
