// Package export renders quotations as PDF and Excel documents.
package export

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"quotation-desk/internal/core"
	"quotation-desk/internal/settings"
)

// Document is a quotation prepared for rendering.
type Document struct {
	Title       string
	Reference   string
	ClientName  string
	ClientPhone string
	Date        string
	Status      core.QuotationStatus
	Items       []core.LineItem
	Totals      core.Totals
	Notes       string
	Terms       string
	Currency    string
	// Internal copies also show purchase cost and profit.
	Internal bool
}

// NewDocument hydrates q's lines and formats dates and amounts per s.
func NewDocument(q core.Quotation, s settings.Settings, internal bool) Document {
	items := make([]core.LineItem, 0, len(q.Components))
	for i, qc := range q.Components {
		items = append(items, core.HydrateLineItem(i+1, qc))
	}
	created := q.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	title := q.Title
	if title == "" {
		title = "Quotation"
	}
	ref := q.ID
	if q.Version > 1 {
		ref = ref + " (v" + decimal.NewFromInt(int64(q.Version)).String() + ")"
	}
	return Document{
		Title:       title,
		Reference:   ref,
		ClientName:  q.Party.Name,
		ClientPhone: q.Party.Phone,
		Date:        s.FormatDate(created),
		Status:      q.Status,
		Items:       items,
		Totals:      core.ComputeTotals(items),
		Notes:       q.Notes,
		Terms:       q.TermsAndConditions,
		Currency:    s.Currency,
		Internal:    internal,
	}
}

// FileName suggests a download name for the given extension.
func (d Document) FileName(ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, d.Reference)
	if name == "" {
		name = "quotation"
	}
	return "quotation-" + name + "." + ext
}

func (d Document) amount(v decimal.Decimal) string {
	return core.FormatAmount(v, d.Currency)
}
