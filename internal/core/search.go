package core

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DefaultSearchLimit caps catalog search results.
const DefaultSearchLimit = 10

// MinSearchLength is the shortest term that triggers a catalog search.
const MinSearchLength = 2

// SearchComponents matches term case-insensitively against name, category,
// brand and description, preserving catalog order. limit <= 0 means
// DefaultSearchLimit.
func SearchComponents(catalog []Component, term string, limit int) []Component {
	term = strings.ToLower(strings.TrimSpace(term))
	if utf8.RuneCountInString(term) < MinSearchLength {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	var out []Component
	for _, c := range catalog {
		if containsAny(term, c.Name, c.Category.String(), c.Brand.String(), c.Description) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// FindComponent returns the catalog entry with the given id.
func FindComponent(catalog []Component, id string) (Component, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Component{}, false
}

// QuotationFilter narrows a quotation list. Status "" or "all" matches every
// status.
type QuotationFilter struct {
	Status string
	Search string
}

// FilterQuotations applies f, preserving order.
func FilterQuotations(list []Quotation, f QuotationFilter) []Quotation {
	status := strings.ToLower(strings.TrimSpace(f.Status))
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Quotation, 0, len(list))
	for _, q := range list {
		if status != "" && status != "all" && string(q.Status) != status {
			continue
		}
		if term != "" && !quotationMatches(q, term) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func quotationMatches(q Quotation, term string) bool {
	if containsAny(term,
		q.Title, q.ID,
		q.Party.Name, q.Party.Phone, q.Party.Email, q.Party.Address, q.Party.PartyID,
		q.TotalAmount.String(), strconv.Itoa(q.Version), string(q.Status),
		q.Notes, q.TermsAndConditions,
	) {
		return true
	}
	for _, c := range q.Components {
		if containsAny(term, c.Model.Name, c.Category.String(), c.Brand.String(), c.Warranty) {
			return true
		}
	}
	return false
}

func containsAny(term string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// QuotationSummary is the headline view over a quotation list.
type QuotationSummary struct {
	Count          int                     `json:"count"`
	ByStatus       map[QuotationStatus]int `json:"byStatus"`
	TotalValue     decimal.Decimal         `json:"totalValue"`
	SoldValue      decimal.Decimal         `json:"soldValue"`
	ConversionRate decimal.Decimal         `json:"conversionRate"`
	// SoldProfit is sale minus purchase over sold quotations; the margin is
	// taken on the sold value.
	SoldProfit        decimal.Decimal `json:"soldProfit"`
	SoldMarginPercent decimal.Decimal `json:"soldMarginPercent"`
}

// SummarizeQuotations counts quotations per status and computes the share
// that were sold.
func SummarizeQuotations(list []Quotation) QuotationSummary {
	s := QuotationSummary{
		Count:    len(list),
		ByStatus: make(map[QuotationStatus]int, len(QuotationStatuses)),
	}
	for _, st := range QuotationStatuses {
		s.ByStatus[st] = 0
	}
	for _, q := range list {
		s.ByStatus[q.Status]++
		s.TotalValue = s.TotalValue.Add(q.TotalAmount)
		if q.Status == StatusSold {
			s.SoldValue = s.SoldValue.Add(q.TotalAmount)
			s.SoldProfit = s.SoldProfit.Add(q.TotalAmount.Sub(q.TotalPurchase))
		}
	}
	if s.Count > 0 {
		s.ConversionRate = decimal.NewFromInt(int64(s.ByStatus[StatusSold])).
			Div(decimal.NewFromInt(int64(s.Count))).Mul(hundred).Round(2)
	}
	if s.SoldValue.IsPositive() {
		s.SoldMarginPercent = s.SoldProfit.Div(s.SoldValue).Mul(hundred).Round(2)
	}
	return s
}
