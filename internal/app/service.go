package app

import (
	"context"
	"errors"
	"time"

	"quotation-desk/internal/ai"
	"quotation-desk/internal/api"
	"quotation-desk/internal/core"
	"quotation-desk/internal/settings"
)

var (
	ErrDraftNotFound       = errors.New("draft not found")
	ErrLineItemNotFound    = errors.New("line item not found")
	ErrComponentNotFound   = errors.New("component not found in catalog")
	ErrUnknownField        = errors.New("unknown line item field")
	ErrAssistantDisabled   = errors.New("drafting assistant is not configured (set OPENAI_API_KEY)")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrNotLoggedIn         = errors.New("not logged in")
	ErrInvalidDate         = errors.New("invalid date, want YYYY-MM-DD")
	ErrInvalidPriceBasis   = errors.New("price basis must be excl or incl")
	ErrMissingCredentials  = errors.New("email and password are required")
	ErrDraftSource         = errors.New("exactly one of partyId, editId or reviseId is required")
	ErrMissingPartyName    = errors.New("client name is required")
	ErrIncompleteComponent = errors.New("component name, category and brand are required")
	ErrWeakPassword        = errors.New("new password must be at least 6 characters with an uppercase letter, a lowercase letter and a digit")
	ErrSamePassword        = errors.New("new password must differ from the current one")
	ErrSubmitUnconfirmed   = errors.New("the server answered without a quotation id, so the quotation may already be saved; check the quotation list before submitting again")
)

// Backend is the subset of the REST client the application needs.
// *api.Client satisfies it.
type Backend interface {
	ListComponents(ctx context.Context) ([]core.Component, error)
	ListQuotations(ctx context.Context) ([]core.Quotation, error)
	ListPartyQuotations(ctx context.Context, partyID string) ([]core.Quotation, error)
	GetQuotation(ctx context.Context, id string) (core.Quotation, error)
	SubmitQuotation(ctx context.Context, p core.SubmitPayload) (core.Quotation, error)
	UpdateQuotationStatus(ctx context.Context, id string, status core.QuotationStatus, note string) (core.Quotation, error)
	DeleteQuotation(ctx context.Context, id string) error
	ListParties(ctx context.Context, search string) ([]core.Party, error)
	GetParty(ctx context.Context, id string) (core.Party, error)
	CreateParty(ctx context.Context, in api.PartyInput) (core.Party, error)
	UpdateParty(ctx context.Context, id string, in api.PartyInput) (core.Party, error)
	DeleteParty(ctx context.Context, id string) error
	GetComponent(ctx context.Context, id string) (core.Component, error)
	CreateComponent(ctx context.Context, in api.ComponentInput) (core.Component, error)
	UpdateComponent(ctx context.Context, id string, in api.ComponentInput) (core.Component, error)
	DeleteComponent(ctx context.Context, id string) error
	DailyReport(ctx context.Context, date time.Time) (core.DailyReport, error)
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
	Profile(ctx context.Context) (core.User, error)
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context, current, next string) error
	Health(ctx context.Context) error
}

// SessionStore persists the bearer token obtained at login.
type SessionStore interface {
	Token() string
	Save(token string) error
	ExpiresAt() time.Time
}

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// Health checks that the REST API answers.
	Health(ctx context.Context) error

	// LoadCatalog returns the component catalog, fetching it on first use.
	// refresh forces a new fetch.
	LoadCatalog(ctx context.Context, refresh bool) (*CatalogResult, error)

	// SearchCatalog filters the catalog by name, category, brand and description.
	SearchCatalog(ctx context.Context, term string, limit int) (*CatalogResult, error)

	// GetComponent returns one catalog entry, from the cache when possible.
	GetComponent(ctx context.Context, id string) (*ComponentResult, error)

	// CreateComponent, UpdateComponent and DeleteComponent edit the catalog
	// and drop the cached copy.
	CreateComponent(ctx context.Context, req ComponentRequest) (*ComponentResult, error)
	UpdateComponent(ctx context.Context, id string, req ComponentRequest) (*ComponentResult, error)
	DeleteComponent(ctx context.Context, id string) error

	// StartDraft opens a new draft for a party, or hydrates one from an
	// existing quotation for editing or revising.
	StartDraft(ctx context.Context, req StartDraftRequest) (*DraftResult, error)

	// GetDraft returns the current state of a draft.
	GetDraft(draftID string) (*DraftResult, error)

	// DiscardDraft forgets a draft without saving it.
	DiscardDraft(draftID string) error

	// AddLineItem appends a catalog component to a draft.
	AddLineItem(ctx context.Context, draftID, componentID string) (*DraftResult, error)

	// UpdateLineItem edits one field of a line; prices on the other tax basis
	// and the margin are derived.
	UpdateLineItem(req UpdateLineItemRequest) (*DraftResult, error)

	// RemoveLineItem deletes a line from a draft.
	RemoveLineItem(draftID string, itemID int) (*DraftResult, error)

	// UpdateDraftMeta changes the notes, terms, status or party of a draft.
	UpdateDraftMeta(req DraftMetaRequest) (*DraftResult, error)

	// SubmitDraft saves a draft through the API. At most one submit per draft
	// runs at a time; on failure the draft keeps its lines.
	SubmitDraft(ctx context.Context, draftID string) (*SubmitResult, error)

	// SuggestLineItems asks the drafting assistant for catalog components
	// matching a free-text requirement. Nothing is added to any draft.
	SuggestLineItems(ctx context.Context, requirement string) (*SuggestionResult, error)

	// ApplySuggestion adds confirmed suggested lines to a draft.
	ApplySuggestion(ctx context.Context, draftID string, s ai.Suggestion) (*DraftResult, error)

	// ListQuotations returns quotations matching the filter with a summary.
	ListQuotations(ctx context.Context, req ListQuotationsRequest) (*QuotationListResult, error)

	// GetQuotation returns one persisted quotation with its derived totals.
	GetQuotation(ctx context.Context, id string) (*QuotationResult, error)

	// UpdateQuotationStatus moves a quotation to a new status.
	UpdateQuotationStatus(ctx context.Context, id, status, note string) (*QuotationResult, error)

	// DeleteQuotation removes a quotation.
	DeleteQuotation(ctx context.Context, id string) error

	// ExportQuotation renders a quotation as PDF or Excel.
	ExportQuotation(ctx context.Context, req ExportRequest) (*ExportResult, error)

	// ListParties returns clients, optionally filtered by a search term.
	ListParties(ctx context.Context, search string) (*PartyListResult, error)

	// GetParty returns a client with its quotations and their summary.
	GetParty(ctx context.Context, id string) (*PartyResult, error)

	CreateParty(ctx context.Context, req PartyRequest) (*PartyResult, error)
	UpdateParty(ctx context.Context, id string, req PartyRequest) (*PartyResult, error)
	DeleteParty(ctx context.Context, id string) error

	// Dashboard summarizes all quotations and counts clients.
	Dashboard(ctx context.Context) (*DashboardResult, error)

	// DailyReport returns the activity digest for a YYYY-MM-DD date; empty
	// means today in the configured timezone.
	DailyReport(ctx context.Context, date string) (*DailyReportResult, error)

	// ConvertPrice derives both tax bases of a single price.
	ConvertPrice(req PriceRequest) (*PriceResult, error)

	// Login authenticates and stores the session token.
	Login(ctx context.Context, email, password string) (*SessionResult, error)

	// Profile returns the logged-in user.
	Profile(ctx context.Context) (*SessionResult, error)

	// Logout ends the session locally and on the server.
	Logout(ctx context.Context) error

	// ChangePassword updates the logged-in user's password.
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error

	// Settings returns the active user preferences.
	Settings() settings.Settings

	// UpdateSettings validates and saves new preferences.
	UpdateSettings(ctx context.Context, next settings.Settings) (settings.Settings, error)

	// ResetSettings restores the default preferences.
	ResetSettings(ctx context.Context) (settings.Settings, error)
}
