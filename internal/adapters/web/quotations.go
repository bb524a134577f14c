package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quotation-desk/internal/app"
)

// listQuotations handles GET /api/quotations?status=&q=&party=.
func (h *Handler) listQuotations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.svc.ListQuotations(r.Context(), app.ListQuotationsRequest{
		Status:  q.Get("status"),
		Search:  q.Get("q"),
		PartyID: q.Get("party"),
	})
	if err != nil {
		h.writeServiceError(w, r, err, "load quotations")
		return
	}
	writeJSON(w, res)
}

func (h *Handler) getQuotation(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetQuotation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err, "load quotation")
		return
	}
	writeJSON(w, res)
}

// updateQuotationStatus handles PUT /api/quotations/{id}/status {status, note}.
func (h *Handler) updateQuotationStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateQuotationStatus(r.Context(), chi.URLParam(r, "id"), req.Status, req.Note)
	if err != nil {
		h.writeServiceError(w, r, err, "update quotation status")
		return
	}
	writeJSON(w, res)
}

func (h *Handler) deleteQuotation(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteQuotation(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err, "delete quotation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// exportQuotation handles GET /api/quotations/{id}/export.{pdf|xlsx}?internal=true.
func (h *Handler) exportQuotation(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ExportQuotation(r.Context(), app.ExportRequest{
		QuotationID: chi.URLParam(r, "id"),
		Format:      app.ExportFormat(chi.URLParam(r, "format")),
		Internal:    queryBool(r, "internal"),
	})
	if err != nil {
		h.writeServiceError(w, r, err, "export quotation")
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	_, _ = w.Write(res.Data)
}

// dailyReport handles GET /api/reports/daily?date=YYYY-MM-DD.
func (h *Handler) dailyReport(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.DailyReport(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		h.writeServiceError(w, r, err, "load daily report")
		return
	}
	writeJSON(w, res)
}

// convertPrice handles GET /api/price?basis=excl|incl&amount=&rate=.
func (h *Handler) convertPrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.svc.ConvertPrice(app.PriceRequest{
		Basis:  q.Get("basis"),
		Amount: q.Get("amount"),
		Rate:   q.Get("rate"),
	})
	if err != nil {
		h.writeServiceError(w, r, err, "convert price")
		return
	}
	writeJSON(w, res)
}
