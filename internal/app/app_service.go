package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quotation-desk/internal/ai"
	"quotation-desk/internal/api"
	"quotation-desk/internal/core"
	"quotation-desk/internal/export"
	"quotation-desk/internal/settings"
)

type appService struct {
	backend   Backend
	settings  *settings.Service
	sessions  SessionStore
	assistant ai.DraftingService
	log       *zap.Logger
	now       func() time.Time

	catalogMu sync.Mutex
	catalog   []core.Component

	draftsMu sync.Mutex
	drafts   map[string]*core.Draft
}

// NewAppService constructs an appService that satisfies ApplicationService.
// sessions and assistant may be nil; login and suggestions are then
// unavailable.
func NewAppService(
	backend Backend,
	settingsSvc *settings.Service,
	sessions SessionStore,
	assistant ai.DraftingService,
	log *zap.Logger,
) ApplicationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &appService{
		backend:   backend,
		settings:  settingsSvc,
		sessions:  sessions,
		assistant: assistant,
		log:       log.Named("app"),
		now:       time.Now,
		drafts:    make(map[string]*core.Draft),
	}
}

func (s *appService) Health(ctx context.Context) error {
	return s.backend.Health(ctx)
}

// LoadCatalog returns the cached catalog, fetching it on first use.
func (s *appService) LoadCatalog(ctx context.Context, refresh bool) (*CatalogResult, error) {
	list, err := s.loadCatalog(ctx, refresh)
	if err != nil {
		return nil, err
	}
	return &CatalogResult{Components: list}, nil
}

func (s *appService) loadCatalog(ctx context.Context, refresh bool) ([]core.Component, error) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()
	if s.catalog != nil && !refresh {
		return s.catalog, nil
	}
	list, err := s.backend.ListComponents(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []core.Component{}
	}
	s.catalog = list
	s.log.Debug("catalog loaded", zap.Int("components", len(list)))
	return list, nil
}

func (s *appService) SearchCatalog(ctx context.Context, term string, limit int) (*CatalogResult, error) {
	list, err := s.loadCatalog(ctx, false)
	if err != nil {
		return nil, err
	}
	return &CatalogResult{Components: core.SearchComponents(list, term, limit)}, nil
}

func (s *appService) GetComponent(ctx context.Context, id string) (*ComponentResult, error) {
	c, err := s.component(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ComponentResult{Component: c}, nil
}

// component looks id up in the cached catalog and falls back to the API for
// entries added since the catalog was loaded.
func (s *appService) component(ctx context.Context, id string) (core.Component, error) {
	id = strings.TrimSpace(id)
	list, err := s.loadCatalog(ctx, false)
	if err != nil {
		return core.Component{}, err
	}
	if c, ok := core.FindComponent(list, id); ok {
		return c, nil
	}
	if id == "" {
		return core.Component{}, ErrComponentNotFound
	}
	c, err := s.backend.GetComponent(ctx, id)
	if api.IsNotFound(err) {
		return core.Component{}, fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	if err != nil {
		return core.Component{}, err
	}
	if c.ID == "" || c.Name == "" {
		return core.Component{}, fmt.Errorf("%w: %s", ErrComponentNotFound, id)
	}
	return c, nil
}

func (s *appService) CreateComponent(ctx context.Context, req ComponentRequest) (*ComponentResult, error) {
	in, err := componentInput(req)
	if err != nil {
		return nil, err
	}
	c, err := s.backend.CreateComponent(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	s.log.Info("component created", zap.String("component", c.ID), zap.String("name", c.Name))
	return &ComponentResult{Component: c}, nil
}

func (s *appService) UpdateComponent(ctx context.Context, id string, req ComponentRequest) (*ComponentResult, error) {
	in, err := componentInput(req)
	if err != nil {
		return nil, err
	}
	c, err := s.backend.UpdateComponent(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return &ComponentResult{Component: c}, nil
}

func (s *appService) DeleteComponent(ctx context.Context, id string) error {
	if err := s.backend.DeleteComponent(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalog()
	s.log.Info("component deleted", zap.String("component", id))
	return nil
}

func (s *appService) invalidateCatalog() {
	s.catalogMu.Lock()
	s.catalog = nil
	s.catalogMu.Unlock()
}

// componentInput validates a catalog edit. Prices coerce like line-item
// input; the tax rate must parse.
func componentInput(req ComponentRequest) (api.ComponentInput, error) {
	in := api.ComponentInput{
		Name:           strings.TrimSpace(req.Name),
		Category:       strings.TrimSpace(req.Category),
		Brand:          strings.TrimSpace(req.Brand),
		HSN:            strings.TrimSpace(req.HSN),
		Warranty:       strings.TrimSpace(req.Warranty),
		Description:    strings.TrimSpace(req.Description),
		Specifications: strings.TrimSpace(req.Specifications),
		PurchasePrice:  core.ParseAmount(req.PurchasePrice),
		SalesPrice:     core.ParseAmount(req.SalesPrice),
	}
	if in.Name == "" || in.Category == "" || in.Brand == "" {
		return api.ComponentInput{}, ErrIncompleteComponent
	}
	rate, err := core.ParseTaxRate(req.GSTRate)
	if err != nil {
		return api.ComponentInput{}, err
	}
	in.GSTRate = rate
	return in, nil
}

// StartDraft registers a new draft under a fresh id.
func (s *appService) StartDraft(ctx context.Context, req StartDraftRequest) (*DraftResult, error) {
	partyID := strings.TrimSpace(req.PartyID)
	editID := strings.TrimSpace(req.EditID)
	reviseID := strings.TrimSpace(req.ReviseID)

	set := 0
	for _, v := range []string{partyID, editID, reviseID} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, ErrDraftSource
	}

	var d *core.Draft
	switch {
	case partyID != "":
		d = core.NewDraft(partyID)
	default:
		id, mode := editID, core.ModeEdit
		if reviseID != "" {
			id, mode = reviseID, core.ModeRevise
		}
		q, err := s.backend.GetQuotation(ctx, id)
		if err != nil {
			return nil, err
		}
		d, err = core.HydrateDraft(q, mode)
		if err != nil {
			return nil, err
		}
	}

	id := uuid.NewString()
	s.draftsMu.Lock()
	s.drafts[id] = d
	s.draftsMu.Unlock()
	s.log.Debug("draft started", zap.String("draft", id), zap.String("mode", string(d.Mode())))
	return &DraftResult{ID: id, Draft: d.View()}, nil
}

func (s *appService) GetDraft(draftID string) (*DraftResult, error) {
	d, err := s.draft(draftID)
	if err != nil {
		return nil, err
	}
	return &DraftResult{ID: draftID, Draft: d.View()}, nil
}

func (s *appService) DiscardDraft(draftID string) error {
	s.draftsMu.Lock()
	defer s.draftsMu.Unlock()
	if _, ok := s.drafts[draftID]; !ok {
		return ErrDraftNotFound
	}
	delete(s.drafts, draftID)
	return nil
}

func (s *appService) AddLineItem(ctx context.Context, draftID, componentID string) (*DraftResult, error) {
	d, err := s.draft(draftID)
	if err != nil {
		return nil, err
	}
	c, err := s.component(ctx, componentID)
	if err != nil {
		return nil, err
	}
	d.AddLineItem(c)
	return &DraftResult{ID: draftID, Draft: d.View()}, nil
}

func (s *appService) UpdateLineItem(req UpdateLineItemRequest) (*DraftResult, error) {
	d, err := s.draft(req.DraftID)
	if err != nil {
		return nil, err
	}
	field, ok := core.ParseField(req.Field)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, req.Field)
	}
	if _, ok := d.UpdateLineItem(req.ItemID, field, req.Value); !ok {
		return nil, fmt.Errorf("%w: %d", ErrLineItemNotFound, req.ItemID)
	}
	return &DraftResult{ID: req.DraftID, Draft: d.View()}, nil
}

func (s *appService) RemoveLineItem(draftID string, itemID int) (*DraftResult, error) {
	d, err := s.draft(draftID)
	if err != nil {
		return nil, err
	}
	if !d.RemoveLineItem(itemID) {
		return nil, fmt.Errorf("%w: %d", ErrLineItemNotFound, itemID)
	}
	return &DraftResult{ID: draftID, Draft: d.View()}, nil
}

// UpdateDraftMeta validates the status before changing anything.
func (s *appService) UpdateDraftMeta(req DraftMetaRequest) (*DraftResult, error) {
	d, err := s.draft(req.DraftID)
	if err != nil {
		return nil, err
	}
	var status core.QuotationStatus
	if req.Status != nil {
		status, err = core.ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
	}

	if req.PartyID != nil {
		d.SetPartyID(strings.TrimSpace(*req.PartyID))
	}
	if req.Notes != nil {
		d.SetNotes(*req.Notes)
	}
	if req.Terms != nil {
		d.SetTerms(*req.Terms)
	}
	if req.Status != nil {
		if err := d.SetStatus(status); err != nil {
			return nil, err
		}
	}
	return &DraftResult{ID: req.DraftID, Draft: d.View()}, nil
}

// SubmitDraft snapshots the draft, sends it and records the outcome. The
// draft keeps its lines whatever happens.
func (s *appService) SubmitDraft(ctx context.Context, draftID string) (*SubmitResult, error) {
	d, err := s.draft(draftID)
	if err != nil {
		return nil, err
	}
	payload, err := d.BeginSubmit()
	if err != nil {
		return nil, err
	}

	q, err := s.backend.SubmitQuotation(ctx, payload)
	if err != nil && errors.Is(err, api.ErrMalformedResponse) && payload.Mode != core.ModeEdit {
		// The create may have gone through; a blind retry would duplicate it.
		d.FailSubmit()
		s.log.Error("quotation create not confirmed",
			zap.String("draft", draftID), zap.String("mode", string(payload.Mode)),
			zap.String("party", payload.Party), zap.Error(err))
		return nil, fmt.Errorf("%w (%v)", ErrSubmitUnconfirmed, err)
	}
	if err != nil {
		d.FailSubmit()
		s.log.Warn("submit quotation failed",
			zap.String("draft", draftID), zap.String("mode", string(payload.Mode)), zap.Error(err))
		return nil, err
	}
	d.CompleteSubmit(q.ID)
	s.log.Info("quotation saved",
		zap.String("draft", draftID), zap.String("quotation", q.ID),
		zap.String("mode", string(payload.Mode)), zap.Int("lines", len(payload.Components)),
		zap.String("total", payload.TotalAmount.StringFixed(2)))

	return &SubmitResult{DraftID: draftID, Quotation: q, Draft: d.View()}, nil
}

func (s *appService) SuggestLineItems(ctx context.Context, requirement string) (*SuggestionResult, error) {
	if s.assistant == nil {
		return nil, ErrAssistantDisabled
	}
	list, err := s.loadCatalog(ctx, false)
	if err != nil {
		return nil, err
	}
	sug, err := s.assistant.SuggestLineItems(ctx, requirement, list)
	if err != nil {
		return nil, err
	}
	clean := ai.SanitizeSuggestion(*sug, list)
	res := &SuggestionResult{Suggestion: clean, Components: make(map[string]core.Component)}
	for _, line := range clean.Lines {
		c, _ := core.FindComponent(list, line.ComponentID)
		res.Components[line.ComponentID] = c
	}
	return res, nil
}

// ApplySuggestion adds each suggested line and sets its quantity.
func (s *appService) ApplySuggestion(ctx context.Context, draftID string, sug ai.Suggestion) (*DraftResult, error) {
	d, err := s.draft(draftID)
	if err != nil {
		return nil, err
	}
	list, err := s.loadCatalog(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, line := range ai.SanitizeSuggestion(sug, list).Lines {
		c, _ := core.FindComponent(list, line.ComponentID)
		item := d.AddLineItem(c)
		if line.Quantity > 1 {
			d.UpdateLineItem(item.ID, core.FieldQuantity, fmt.Sprint(line.Quantity))
		}
	}
	return &DraftResult{ID: draftID, Draft: d.View()}, nil
}

func (s *appService) ListQuotations(ctx context.Context, req ListQuotationsRequest) (*QuotationListResult, error) {
	var (
		list []core.Quotation
		err  error
	)
	if req.PartyID != "" {
		list, err = s.backend.ListPartyQuotations(ctx, req.PartyID)
	} else {
		list, err = s.backend.ListQuotations(ctx)
	}
	if err != nil {
		return nil, err
	}
	filtered := core.FilterQuotations(list, core.QuotationFilter{Status: req.Status, Search: req.Search})
	if filtered == nil {
		filtered = []core.Quotation{}
	}
	return &QuotationListResult{
		Quotations: filtered,
		Summary:    core.SummarizeQuotations(filtered),
	}, nil
}

func (s *appService) GetQuotation(ctx context.Context, id string) (*QuotationResult, error) {
	q, err := s.backend.GetQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	return quotationResult(q), nil
}

func (s *appService) UpdateQuotationStatus(ctx context.Context, id, status, note string) (*QuotationResult, error) {
	st, err := core.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	q, err := s.backend.UpdateQuotationStatus(ctx, id, st, note)
	if err != nil {
		return nil, err
	}
	return quotationResult(q), nil
}

func (s *appService) DeleteQuotation(ctx context.Context, id string) error {
	return s.backend.DeleteQuotation(ctx, id)
}

func (s *appService) ExportQuotation(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if req.Format != FormatPDF && req.Format != FormatExcel {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}
	q, err := s.backend.GetQuotation(ctx, req.QuotationID)
	if err != nil {
		return nil, err
	}
	doc := export.NewDocument(q, s.settings.Current(), req.Internal)

	var (
		data        []byte
		contentType string
	)
	switch req.Format {
	case FormatPDF:
		data, err = export.QuotationPDF(doc)
		contentType = "application/pdf"
	case FormatExcel:
		data, err = export.QuotationExcel(doc)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		return nil, fmt.Errorf("export quotation %s: %w", req.QuotationID, err)
	}
	return &ExportResult{
		FileName:    doc.FileName(string(req.Format)),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (s *appService) ListParties(ctx context.Context, search string) (*PartyListResult, error) {
	list, err := s.backend.ListParties(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []core.Party{}
	}
	return &PartyListResult{Parties: list}, nil
}

// GetParty loads a client and the quotations made for it.
func (s *appService) GetParty(ctx context.Context, id string) (*PartyResult, error) {
	p, err := s.backend.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := s.backend.ListPartyQuotations(ctx, id)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []core.Quotation{}
	}
	summary := core.SummarizeQuotations(list)
	return &PartyResult{Party: p, Quotations: list, Summary: &summary}, nil
}

func (s *appService) CreateParty(ctx context.Context, req PartyRequest) (*PartyResult, error) {
	in, err := partyInput(req)
	if err != nil {
		return nil, err
	}
	p, err := s.backend.CreateParty(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.Info("client created", zap.String("party", p.ID))
	return &PartyResult{Party: p}, nil
}

func (s *appService) UpdateParty(ctx context.Context, id string, req PartyRequest) (*PartyResult, error) {
	in, err := partyInput(req)
	if err != nil {
		return nil, err
	}
	p, err := s.backend.UpdateParty(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return &PartyResult{Party: p}, nil
}

func (s *appService) DeleteParty(ctx context.Context, id string) error {
	if err := s.backend.DeleteParty(ctx, id); err != nil {
		return err
	}
	s.log.Info("client deleted", zap.String("party", id))
	return nil
}

func partyInput(req PartyRequest) (api.PartyInput, error) {
	in := api.PartyInput{
		Name:     strings.TrimSpace(req.Name),
		Phone:    strings.TrimSpace(req.Phone),
		Email:    strings.TrimSpace(req.Email),
		Address:  strings.TrimSpace(req.Address),
		Source:   strings.TrimSpace(req.Source),
		Priority: strings.TrimSpace(req.Priority),
	}
	if in.Name == "" {
		return api.PartyInput{}, ErrMissingPartyName
	}
	return in, nil
}

// Dashboard builds the overview the way the quotations page does, from the
// full quotation and client lists.
func (s *appService) Dashboard(ctx context.Context) (*DashboardResult, error) {
	quotes, err := s.backend.ListQuotations(ctx)
	if err != nil {
		return nil, err
	}
	parties, err := s.backend.ListParties(ctx, "")
	if err != nil {
		return nil, err
	}
	return &DashboardResult{
		TotalParties: len(parties),
		Summary:      core.SummarizeQuotations(quotes),
	}, nil
}

func (s *appService) DailyReport(ctx context.Context, date string) (*DailyReportResult, error) {
	loc := s.settings.Current().Location()
	day := s.now().In(loc)
	if date = strings.TrimSpace(date); date != "" {
		var err error
		day, err = time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
	}
	report, err := s.backend.DailyReport(ctx, day)
	if err != nil {
		return nil, err
	}
	return &DailyReportResult{Date: day, Report: report}, nil
}

// ConvertPrice treats the amount as tax-exclusive or tax-inclusive and
// derives the other basis the same way line items do.
func (s *appService) ConvertPrice(req PriceRequest) (*PriceResult, error) {
	rate, err := core.ParseTaxRate(req.Rate)
	if err != nil {
		return nil, err
	}

	amount := core.ParseAmount(req.Amount)
	res := &PriceResult{Rate: rate}
	switch strings.ToLower(strings.TrimSpace(req.Basis)) {
	case "excl", "exclusive":
		res.ExclTax = amount
		res.InclTax = core.InclusiveFromExclusive(amount, rate)
	case "incl", "inclusive":
		res.InclTax = amount
		res.ExclTax = core.ExclusiveFromInclusive(amount, rate)
	default:
		return nil, ErrInvalidPriceBasis
	}
	res.TaxAmount = res.InclTax.Sub(res.ExclTax)
	return res, nil
}

func (s *appService) Login(ctx context.Context, email, password string) (*SessionResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	res, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	out := &SessionResult{User: res.User}
	if s.sessions != nil {
		if err := s.sessions.Save(res.Token); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
		out.ExpiresAt = s.sessions.ExpiresAt()
	}
	s.log.Info("logged in", zap.String("user", res.User.Email))
	return out, nil
}

func (s *appService) Profile(ctx context.Context) (*SessionResult, error) {
	if s.sessions != nil && s.sessions.Token() == "" {
		return nil, ErrNotLoggedIn
	}
	u, err := s.backend.Profile(ctx)
	if err != nil {
		return nil, err
	}
	out := &SessionResult{User: u}
	if s.sessions != nil {
		out.ExpiresAt = s.sessions.ExpiresAt()
	}
	return out, nil
}

func (s *appService) Logout(ctx context.Context) error {
	return s.backend.Logout(ctx)
}

func (s *appService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return ErrMissingCredentials
	}
	if req.NewPassword == req.CurrentPassword {
		return ErrSamePassword
	}
	if !strongPassword(req.NewPassword) {
		return ErrWeakPassword
	}
	return s.backend.ChangePassword(ctx, req.CurrentPassword, req.NewPassword)
}

func strongPassword(pw string) bool {
	if len(pw) < 6 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

func (s *appService) Settings() settings.Settings {
	return s.settings.Current()
}

func (s *appService) UpdateSettings(ctx context.Context, next settings.Settings) (settings.Settings, error) {
	return s.settings.Replace(ctx, next)
}

func (s *appService) ResetSettings(ctx context.Context) (settings.Settings, error) {
	return s.settings.Reset(ctx)
}

func (s *appService) draft(id string) (*core.Draft, error) {
	s.draftsMu.Lock()
	defer s.draftsMu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	return d, nil
}

func quotationResult(q core.Quotation) *QuotationResult {
	items := make([]core.LineItem, 0, len(q.Components))
	for i, qc := range q.Components {
		items = append(items, core.HydrateLineItem(i+1, qc))
	}
	return &QuotationResult{Quotation: q, Items: items, Totals: core.ComputeTotals(items)}
}

// IsUserError reports whether err comes from bad input rather than from the
// API or the environment.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrDraftNotFound, ErrLineItemNotFound, ErrComponentNotFound, ErrUnknownField,
		ErrUnsupportedFormat, ErrInvalidDate, ErrInvalidPriceBasis, ErrMissingCredentials,
		ErrDraftSource, core.ErrEmptyDraft, core.ErrMissingParty, core.ErrInvalidStatus,
		ErrMissingPartyName, ErrIncompleteComponent, ErrWeakPassword, ErrSamePassword,
		core.ErrInvalidTaxRate, settings.ErrInvalidSettings,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
