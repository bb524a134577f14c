package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quotation-desk/internal/app"
)

// listComponents handles GET /api/components?q=&refresh=. Without q the
// whole catalog is returned.
func (h *Handler) listComponents(w http.ResponseWriter, r *http.Request) {
	var (
		res *app.CatalogResult
		err error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		res, err = h.svc.SearchCatalog(r.Context(), q, 0)
	} else {
		res, err = h.svc.LoadCatalog(r.Context(), queryBool(r, "refresh"))
	}
	if err != nil {
		h.writeServiceError(w, r, err, "load components")
		return
	}
	writeJSON(w, res)
}

// listParties handles GET /api/parties?q=.
func (h *Handler) listParties(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListParties(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, r, err, "load clients")
		return
	}
	writeJSON(w, res)
}

func (h *Handler) getComponent(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetComponent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err, "load component")
		return
	}
	writeJSON(w, res)
}

// componentBody accepts prices and the tax rate as JSON numbers or strings.
type componentBody struct {
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Brand          string     `json:"brand"`
	HSN            string     `json:"hsn"`
	Warranty       string     `json:"warranty"`
	Description    string     `json:"description"`
	Specifications string     `json:"specifications"`
	PurchasePrice  flexString `json:"purchasePrice"`
	SalesPrice     flexString `json:"salesPrice"`
	GSTRate        flexString `json:"gstRate"`
}

func (b componentBody) request() app.ComponentRequest {
	return app.ComponentRequest{
		Name:           b.Name,
		Category:       b.Category,
		Brand:          b.Brand,
		HSN:            b.HSN,
		Warranty:       b.Warranty,
		Description:    b.Description,
		Specifications: b.Specifications,
		PurchasePrice:  string(b.PurchasePrice),
		SalesPrice:     string(b.SalesPrice),
		GSTRate:        string(b.GSTRate),
	}
}

// createComponent handles POST /api/components.
func (h *Handler) createComponent(w http.ResponseWriter, r *http.Request) {
	var body componentBody
	if !decodeJSON(w, r, &body) {
		return
	}
	res, err := h.svc.CreateComponent(r.Context(), body.request())
	if err != nil {
		h.writeServiceError(w, r, err, "create component")
		return
	}
	writeStatusJSON(w, http.StatusCreated, res)
}

// updateComponent handles PUT /api/components/{id}.
func (h *Handler) updateComponent(w http.ResponseWriter, r *http.Request) {
	var body componentBody
	if !decodeJSON(w, r, &body) {
		return
	}
	res, err := h.svc.UpdateComponent(r.Context(), chi.URLParam(r, "id"), body.request())
	if err != nil {
		h.writeServiceError(w, r, err, "update component")
		return
	}
	writeJSON(w, res)
}

func (h *Handler) deleteComponent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteComponent(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err, "delete component")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getParty handles GET /api/parties/{id}; the response carries the client's
// quotations and their summary.
func (h *Handler) getParty(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetParty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err, "load client")
		return
	}
	writeJSON(w, res)
}

func (h *Handler) createParty(w http.ResponseWriter, r *http.Request) {
	var req app.PartyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateParty(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err, "create client")
		return
	}
	writeStatusJSON(w, http.StatusCreated, res)
}

func (h *Handler) updateParty(w http.ResponseWriter, r *http.Request) {
	var req app.PartyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateParty(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.writeServiceError(w, r, err, "update client")
		return
	}
	writeJSON(w, res)
}

func (h *Handler) deleteParty(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteParty(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err, "delete client")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// dashboard handles GET /api/dashboard.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Dashboard(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "load dashboard")
		return
	}
	writeJSON(w, res)
}
