package app

import (
	"time"

	"github.com/shopspring/decimal"

	"quotation-desk/internal/ai"
	"quotation-desk/internal/core"
)

// CatalogResult is returned by LoadCatalog and SearchCatalog.
type CatalogResult struct {
	Components []core.Component `json:"components"`
}

// DraftResult is returned by every draft operation.
type DraftResult struct {
	ID    string         `json:"id"`
	Draft core.DraftView `json:"draft"`
}

// SubmitResult is returned by SubmitDraft.
type SubmitResult struct {
	DraftID   string         `json:"draftId"`
	Quotation core.Quotation `json:"quotation"`
	Draft     core.DraftView `json:"draft"`
}

// SuggestionResult is returned by SuggestLineItems. Components holds the
// catalog entry of every suggested line, keyed by component id.
type SuggestionResult struct {
	Suggestion ai.Suggestion             `json:"suggestion"`
	Components map[string]core.Component `json:"components"`
}

// QuotationListResult is returned by ListQuotations.
type QuotationListResult struct {
	Quotations []core.Quotation      `json:"quotations"`
	Summary    core.QuotationSummary `json:"summary"`
}

// QuotationResult is returned by single-quotation operations. Items are the
// persisted lines hydrated into both tax bases.
type QuotationResult struct {
	Quotation core.Quotation  `json:"quotation"`
	Items     []core.LineItem `json:"items"`
	Totals    core.Totals     `json:"totals"`
}

// ExportResult is a rendered quotation document.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ComponentResult is returned by single-component operations.
type ComponentResult struct {
	Component core.Component `json:"component"`
}

// PartyResult is returned by single-party operations. Quotations and
// Summary are only filled by GetParty.
type PartyResult struct {
	Party      core.Party             `json:"party"`
	Quotations []core.Quotation       `json:"quotations,omitempty"`
	Summary    *core.QuotationSummary `json:"summary,omitempty"`
}

// DashboardResult is returned by Dashboard.
type DashboardResult struct {
	TotalParties int                   `json:"totalParties"`
	Summary      core.QuotationSummary `json:"summary"`
}

// PartyListResult is returned by ListParties.
type PartyListResult struct {
	Parties []core.Party `json:"parties"`
}

// DailyReportResult is returned by DailyReport.
type DailyReportResult struct {
	Date   time.Time        `json:"date"`
	Report core.DailyReport `json:"report"`
}

// PriceResult is returned by ConvertPrice.
type PriceResult struct {
	Rate      decimal.Decimal `json:"rate"`
	ExclTax   decimal.Decimal `json:"exclTax"`
	InclTax   decimal.Decimal `json:"inclTax"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
}

// SessionResult describes the logged-in user.
type SessionResult struct {
	User      core.User `json:"user"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}
