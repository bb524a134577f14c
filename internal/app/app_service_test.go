package app_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"quotation-desk/internal/ai"
	"quotation-desk/internal/api"
	"quotation-desk/internal/app"
	"quotation-desk/internal/core"
	"quotation-desk/internal/settings"
)

func newService(t *testing.T) (app.ApplicationService, *fakeBackend, *memSessions) {
	t.Helper()
	backend := newFakeBackend()
	sessions := &memSessions{}
	log := zaptest.NewLogger(t)
	svc := app.NewAppService(backend, settings.NewService(&memSettingsStore{}, log), sessions, nil, log)
	return svc, backend, sessions
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func startDraft(t *testing.T, svc app.ApplicationService) string {
	t.Helper()
	res, err := svc.StartDraft(context.Background(), app.StartDraftRequest{PartyID: "p-1"})
	require.NoError(t, err)
	return res.ID
}

func TestLoadCatalogIsCached(t *testing.T) {
	svc, backend, _ := newService(t)
	ctx := context.Background()

	_, err := svc.LoadCatalog(ctx, false)
	require.NoError(t, err)
	res, err := svc.LoadCatalog(ctx, false)
	require.NoError(t, err)
	assert.Len(t, res.Components, 2)
	assert.Equal(t, 1, backend.componentCalls)

	_, err = svc.LoadCatalog(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.componentCalls)
}

func TestSearchCatalog(t *testing.T) {
	svc, _, _ := newService(t)
	res, err := svc.SearchCatalog(context.Background(), "msi", 0)
	require.NoError(t, err)
	require.Len(t, res.Components, 1)
	assert.Equal(t, "mb-1", res.Components[0].ID)
}

func TestStartDraftRequiresOneSource(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.StartDraft(ctx, app.StartDraftRequest{})
	assert.ErrorIs(t, err, app.ErrDraftSource)

	_, err = svc.StartDraft(ctx, app.StartDraftRequest{PartyID: "p-1", EditID: "q-1"})
	assert.ErrorIs(t, err, app.ErrDraftSource)
}

func TestStartDraftEditAndRevise(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	edit, err := svc.StartDraft(ctx, app.StartDraftRequest{EditID: "q-1"})
	require.NoError(t, err)
	assert.Equal(t, core.ModeEdit, edit.Draft.Mode)
	assert.Equal(t, "q-1", edit.Draft.SourceID)
	assert.Equal(t, core.StatusSent, edit.Draft.Status)
	require.Len(t, edit.Draft.Items, 1)
	item := edit.Draft.Items[0]
	assert.Equal(t, 2, item.Quantity)
	assertDecimal(t, "847.46", item.PurchaseExclTax)
	assertDecimal(t, "1271.19", item.SaleExclTax)
	assertDecimal(t, "3000", edit.Draft.Totals.TotalSaleAmount)

	revise, err := svc.StartDraft(ctx, app.StartDraftRequest{ReviseID: "q-1"})
	require.NoError(t, err)
	assert.Equal(t, core.ModeRevise, revise.Draft.Mode)
	assert.Equal(t, core.StatusDraft, revise.Draft.Status)
	assert.NotEqual(t, edit.ID, revise.ID)

	_, err = svc.StartDraft(ctx, app.StartDraftRequest{EditID: "missing"})
	assert.True(t, api.IsNotFound(err))
}

func TestDraftLineItemLifecycle(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	id := startDraft(t, svc)

	res, err := svc.AddLineItem(ctx, id, "cpu-1")
	require.NoError(t, err)
	require.Len(t, res.Draft.Items, 1)
	itemID := res.Draft.Items[0].ID

	res, err = svc.UpdateLineItem(app.UpdateLineItemRequest{DraftID: id, ItemID: itemID, Field: "qty", Value: "2"})
	require.NoError(t, err)
	assertDecimal(t, "3000", res.Draft.Totals.TotalSaleAmount)
	assertDecimal(t, "2000", res.Draft.Totals.TotalPurchaseCost)
	assertDecimal(t, "457.62", res.Draft.Totals.TotalTax)
	assertDecimal(t, "50", res.Draft.Totals.ProfitMarginPercent)

	res, err = svc.UpdateLineItem(app.UpdateLineItemRequest{DraftID: id, ItemID: itemID, Field: "purchase_excl_tax", Value: "900"})
	require.NoError(t, err)
	assertDecimal(t, "1062", res.Draft.Items[0].PurchaseInclTax)

	_, err = svc.UpdateLineItem(app.UpdateLineItemRequest{DraftID: id, ItemID: itemID, Field: "discount", Value: "5"})
	assert.ErrorIs(t, err, app.ErrUnknownField)
	_, err = svc.UpdateLineItem(app.UpdateLineItemRequest{DraftID: id, ItemID: 99, Field: "qty", Value: "5"})
	assert.ErrorIs(t, err, app.ErrLineItemNotFound)

	_, err = svc.AddLineItem(ctx, id, "gpu-9")
	assert.ErrorIs(t, err, app.ErrComponentNotFound)

	res, err = svc.RemoveLineItem(id, itemID)
	require.NoError(t, err)
	assert.Empty(t, res.Draft.Items)
	assert.True(t, res.Draft.Totals.IsZero())
	assert.Equal(t, core.StateEmpty, res.Draft.State)

	_, err = svc.RemoveLineItem(id, itemID)
	assert.ErrorIs(t, err, app.ErrLineItemNotFound)

	require.NoError(t, svc.DiscardDraft(id))
	_, err = svc.GetDraft(id)
	assert.ErrorIs(t, err, app.ErrDraftNotFound)
}

func TestUpdateDraftMeta(t *testing.T) {
	svc, _, _ := newService(t)
	id := startDraft(t, svc)

	notes, status := "deliver friday", "sent"
	res, err := svc.UpdateDraftMeta(app.DraftMetaRequest{DraftID: id, Notes: &notes, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "deliver friday", res.Draft.Notes)
	assert.Equal(t, core.StatusSent, res.Draft.Status)
	assert.Equal(t, core.DefaultTermsAndConditions, res.Draft.TermsAndConditions)

	bad, other := "archived", "ignored"
	_, err = svc.UpdateDraftMeta(app.DraftMetaRequest{DraftID: id, Notes: &other, Status: &bad})
	assert.ErrorIs(t, err, core.ErrInvalidStatus)

	got, err := svc.GetDraft(id)
	require.NoError(t, err)
	assert.Equal(t, "deliver friday", got.Draft.Notes)
}

func TestSubmitDraft(t *testing.T) {
	svc, backend, _ := newService(t)
	ctx := context.Background()
	id := startDraft(t, svc)

	_, err := svc.SubmitDraft(ctx, id)
	assert.ErrorIs(t, err, core.ErrEmptyDraft)

	_, err = svc.AddLineItem(ctx, id, "cpu-1")
	require.NoError(t, err)

	res, err := svc.SubmitDraft(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "q-new", res.Quotation.ID)
	assert.Equal(t, core.StatePersisted, res.Draft.State)
	assert.Equal(t, core.ModeEdit, res.Draft.Mode)

	require.Len(t, backend.submitted, 1)
	p := backend.submitted[0]
	assert.Equal(t, core.ModeNew, p.Mode)
	assert.Equal(t, "p-1", p.Party)
	assertDecimal(t, "1500", p.TotalAmount)

	_, err = svc.SubmitDraft(ctx, id)
	require.NoError(t, err)
	require.Len(t, backend.submitted, 2)
	assert.Equal(t, core.ModeEdit, backend.submitted[1].Mode)
	assert.Equal(t, "q-new", backend.submitted[1].SourceID)
}

func TestSubmitDraftFailureKeepsLines(t *testing.T) {
	svc, backend, _ := newService(t)
	ctx := context.Background()
	id := startDraft(t, svc)
	_, err := svc.AddLineItem(ctx, id, "cpu-1")
	require.NoError(t, err)

	backend.submitErr = &api.Error{Method: "POST", Path: "/quotations", StatusCode: 400, Message: "Party is required"}
	_, err = svc.SubmitDraft(ctx, id)
	require.Error(t, err)
	assert.Equal(t, "Failed to save quotation: Party is required", api.UserMessage(err, "save quotation"))

	got, err := svc.GetDraft(id)
	require.NoError(t, err)
	assert.Len(t, got.Draft.Items, 1)
	assert.Equal(t, core.StatePopulated, got.Draft.State)

	backend.submitErr = nil
	_, err = svc.SubmitDraft(ctx, id)
	assert.NoError(t, err)
}

func TestSubmitDraftUnconfirmedCreate(t *testing.T) {
	backend := newFakeBackend()
	obsCore, logs := observer.New(zap.InfoLevel)
	svc := app.NewAppService(backend, settings.NewService(&memSettingsStore{}, nil), &memSessions{}, nil, zap.New(obsCore))
	ctx := context.Background()
	id := startDraft(t, svc)
	_, err := svc.AddLineItem(ctx, id, "cpu-1")
	require.NoError(t, err)

	backend.submitErr = fmt.Errorf("submit quotation: %w", api.ErrMalformedResponse)
	_, err = svc.SubmitDraft(ctx, id)
	require.ErrorIs(t, err, app.ErrSubmitUnconfirmed)
	assert.Contains(t, api.UserMessage(err, "save quotation"), "may already be saved")
	assert.Equal(t, 1, logs.FilterLevelExact(zap.ErrorLevel).FilterMessage("quotation create not confirmed").Len())

	got, err := svc.GetDraft(id)
	require.NoError(t, err)
	assert.Len(t, got.Draft.Items, 1)
}

func TestSubmitDraftRejectsConcurrentSubmit(t *testing.T) {
	svc, backend, _ := newService(t)
	ctx := context.Background()
	id := startDraft(t, svc)
	_, err := svc.AddLineItem(ctx, id, "cpu-1")
	require.NoError(t, err)

	gate := make(chan struct{})
	backend.submitGate = gate

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = svc.SubmitDraft(ctx, id)
	}()

	require.Eventually(t, func() bool {
		d, err := svc.GetDraft(id)
		return err == nil && d.Draft.State == core.StateSubmitting
	}, time.Second, 5*time.Millisecond)

	_, err = svc.SubmitDraft(ctx, id)
	assert.ErrorIs(t, err, core.ErrSubmitInProgress)

	close(gate)
	wg.Wait()
	assert.NoError(t, firstErr)
	assert.Len(t, backend.submitted, 1)
}

func TestListQuotations(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	res, err := svc.ListQuotations(ctx, app.ListQuotationsRequest{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, res.Quotations, 2)
	assert.Equal(t, 2, res.Summary.Count)

	res, err = svc.ListQuotations(ctx, app.ListQuotationsRequest{Status: "sold"})
	require.NoError(t, err)
	require.Len(t, res.Quotations, 1)
	assert.Equal(t, "q-2", res.Quotations[0].ID)

	res, err = svc.ListQuotations(ctx, app.ListQuotationsRequest{Search: "urgent"})
	require.NoError(t, err)
	require.Len(t, res.Quotations, 1)
	assert.Equal(t, "q-1", res.Quotations[0].ID)

	res, err = svc.ListQuotations(ctx, app.ListQuotationsRequest{PartyID: "p-2"})
	require.NoError(t, err)
	require.Len(t, res.Quotations, 1)
	assert.Equal(t, "q-2", res.Quotations[0].ID)
}

func TestGetAndUpdateQuotation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	res, err := svc.GetQuotation(ctx, "q-1")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assertDecimal(t, "3000", res.Totals.TotalSaleAmount)

	res, err = svc.UpdateQuotationStatus(ctx, "q-1", "Sold", "")
	require.NoError(t, err)
	assert.Equal(t, core.StatusSold, res.Quotation.Status)

	_, err = svc.UpdateQuotationStatus(ctx, "q-1", "won", "")
	assert.ErrorIs(t, err, core.ErrInvalidStatus)
}

func TestExportQuotation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	pdf, err := svc.ExportQuotation(ctx, app.ExportRequest{QuotationID: "q-1", Format: app.FormatPDF})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.Equal(t, "quotation-q-1.pdf", pdf.FileName)
	assert.NotEmpty(t, pdf.Data)

	xlsx, err := svc.ExportQuotation(ctx, app.ExportRequest{QuotationID: "q-1", Format: app.FormatExcel, Internal: true})
	require.NoError(t, err)
	assert.Equal(t, "quotation-q-1.xlsx", xlsx.FileName)
	assert.NotEmpty(t, xlsx.Data)

	_, err = svc.ExportQuotation(ctx, app.ExportRequest{QuotationID: "q-1", Format: "docx"})
	assert.ErrorIs(t, err, app.ErrUnsupportedFormat)
}

func TestDailyReportDate(t *testing.T) {
	svc, backend, _ := newService(t)
	ctx := context.Background()

	res, err := svc.DailyReport(ctx, "2026-03-05")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", res.Report.Date)
	assert.Equal(t, "2026-03-05", backend.reportDate.Format("2006-01-02"))

	_, err = svc.DailyReport(ctx, "05/03/2026")
	assert.ErrorIs(t, err, app.ErrInvalidDate)

	_, err = svc.DailyReport(ctx, "")
	assert.NoError(t, err)
}

func TestConvertPrice(t *testing.T) {
	svc, _, _ := newService(t)

	res, err := svc.ConvertPrice(app.PriceRequest{Basis: "excl", Amount: "1000"})
	require.NoError(t, err)
	assertDecimal(t, "1180", res.InclTax)
	assertDecimal(t, "180", res.TaxAmount)

	res, err = svc.ConvertPrice(app.PriceRequest{Basis: "incl", Amount: "1120", Rate: "12"})
	require.NoError(t, err)
	assertDecimal(t, "1000", res.ExclTax)

	res, err = svc.ConvertPrice(app.PriceRequest{Basis: "incl", Amount: "0"})
	require.NoError(t, err)
	assert.True(t, res.ExclTax.IsZero())

	_, err = svc.ConvertPrice(app.PriceRequest{Basis: "net", Amount: "10"})
	assert.ErrorIs(t, err, app.ErrInvalidPriceBasis)
	_, err = svc.ConvertPrice(app.PriceRequest{Basis: "excl", Amount: "10", Rate: "x"})
	assert.ErrorIs(t, err, core.ErrInvalidTaxRate)
	assert.True(t, app.IsUserError(err))

	res, err = svc.ConvertPrice(app.PriceRequest{Basis: "excl", Amount: "1e900000000", Rate: "18"})
	require.NoError(t, err)
	assert.True(t, res.InclTax.IsZero())
}

func TestLoginStoresToken(t *testing.T) {
	svc, backend, sessions := newService(t)
	ctx := context.Background()

	_, err := svc.Profile(ctx)
	assert.ErrorIs(t, err, app.ErrNotLoggedIn)

	_, err = svc.Login(ctx, "sales@example.com", "")
	assert.ErrorIs(t, err, app.ErrMissingCredentials)

	_, err = svc.Login(ctx, "sales@example.com", "wrong")
	require.Error(t, err)
	assert.Empty(t, sessions.token)

	res, err := svc.Login(ctx, "sales@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", sessions.token)
	assert.Equal(t, "sales@example.com", res.User.Email)

	_, err = svc.Profile(ctx)
	assert.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	assert.True(t, backend.loggedOut)
}

func TestSuggestLineItems(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.SuggestLineItems(context.Background(), "gaming pc")
	assert.ErrorIs(t, err, app.ErrAssistantDisabled)

	backend := newFakeBackend()
	assistant := &fakeAssistant{suggestion: ai.Suggestion{Lines: []ai.SuggestedLine{
		{ComponentID: "cpu-1", Quantity: 3, Reason: "six cores"},
		{ComponentID: "gpu-9", Quantity: 1},
	}}}
	log := zaptest.NewLogger(t)
	svc = app.NewAppService(backend, settings.NewService(&memSettingsStore{}, log), nil, assistant, log)
	ctx := context.Background()

	res, err := svc.SuggestLineItems(ctx, "gaming pc")
	require.NoError(t, err)
	assert.Equal(t, 2, assistant.gotCatalog)
	require.Len(t, res.Suggestion.Lines, 1)
	assert.Equal(t, "Ryzen 5 7600", res.Components["cpu-1"].Name)

	draft, err := svc.StartDraft(ctx, app.StartDraftRequest{PartyID: "p-1"})
	require.NoError(t, err)
	applied, err := svc.ApplySuggestion(ctx, draft.ID, res.Suggestion)
	require.NoError(t, err)
	require.Len(t, applied.Draft.Items, 1)
	assert.Equal(t, 3, applied.Draft.Items[0].Quantity)
}

func TestSettingsRoundTrip(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	next := svc.Settings()
	next.Currency = "USD"
	got, err := svc.UpdateSettings(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "USD", svc.Settings().Currency)

	next.Currency = "JPY"
	_, err = svc.UpdateSettings(ctx, next)
	assert.ErrorIs(t, err, settings.ErrInvalidSettings)
	assert.True(t, app.IsUserError(err))

	got, err = svc.ResetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Defaults(), got)
}

func TestAddLineItemFetchesComponentMissingFromCatalog(t *testing.T) {
	svc, backend, _ := newService(t)
	ctx := context.Background()
	id := startDraft(t, svc)
	_, err := svc.LoadCatalog(ctx, false)
	require.NoError(t, err)

	backend.hidden = []core.Component{{
		ID: "ssd-1", Name: "990 Pro 1TB",
		Category:   core.Descriptor{Name: "Storage"},
		Brand:      core.Descriptor{Name: "Samsung"},
		SalesPrice: decimal.RequireFromString("11800"),
	}}
	res, err := svc.AddLineItem(ctx, id, "ssd-1")
	require.NoError(t, err)
	require.Len(t, res.Draft.Items, 1)
	assert.Equal(t, "990 Pro 1TB", res.Draft.Items[0].Component.Name)
	assertDecimal(t, "10000", res.Draft.Items[0].SaleExclTax)
	assert.Equal(t, 1, backend.componentCalls)
}

func TestComponentCatalogEdits(t *testing.T) {
	svc, backend, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateComponent(ctx, app.ComponentRequest{Name: "RTX 4060", Category: "Graphics Card"})
	assert.ErrorIs(t, err, app.ErrIncompleteComponent)
	_, err = svc.CreateComponent(ctx, app.ComponentRequest{Name: "RTX 4060", Category: "Graphics Card", Brand: "MSI", GSTRate: "abc"})
	assert.ErrorIs(t, err, core.ErrInvalidTaxRate)

	cat, err := svc.LoadCatalog(ctx, false)
	require.NoError(t, err)
	require.Len(t, cat.Components, 2)

	res, err := svc.CreateComponent(ctx, app.ComponentRequest{
		Name: " RTX 4060 ", Category: "Graphics Card", Brand: "MSI",
		PurchasePrice: "29500", SalesPrice: "-1", GSTRate: "",
	})
	require.NoError(t, err)
	require.Len(t, backend.componentInputs, 1)
	in := backend.componentInputs[0]
	assert.Equal(t, "RTX 4060", in.Name)
	assertDecimal(t, "29500", in.PurchasePrice)
	assertDecimal(t, "0", in.SalesPrice)
	assertDecimal(t, "18", in.GSTRate)

	cat, err = svc.LoadCatalog(ctx, false)
	require.NoError(t, err)
	assert.Len(t, cat.Components, 3, "catalog is refetched after an edit")
	assert.Equal(t, 2, backend.componentCalls)

	got, err := svc.GetComponent(ctx, res.Component.ID)
	require.NoError(t, err)
	assert.Equal(t, "RTX 4060", got.Component.Name)

	_, err = svc.UpdateComponent(ctx, res.Component.ID, app.ComponentRequest{
		Name: "RTX 4060 Ti", Category: "Graphics Card", Brand: "MSI", SalesPrice: "41300",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteComponent(ctx, res.Component.ID))
	_, err = svc.GetComponent(ctx, res.Component.ID)
	assert.ErrorIs(t, err, app.ErrComponentNotFound)
}

func TestPartyOperations(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateParty(ctx, app.PartyRequest{Name: "  "})
	assert.ErrorIs(t, err, app.ErrMissingPartyName)
	assert.True(t, app.IsUserError(err))

	created, err := svc.CreateParty(ctx, app.PartyRequest{Name: "Initech", Phone: " 98450 12345 "})
	require.NoError(t, err)
	assert.Equal(t, "98450 12345", created.Party.Phone)

	updated, err := svc.UpdateParty(ctx, created.Party.ID, app.PartyRequest{Name: "Initech Pvt Ltd"})
	require.NoError(t, err)
	assert.Equal(t, "Initech Pvt Ltd", updated.Party.Name)

	detail, err := svc.GetParty(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", detail.Party.Name)
	require.Len(t, detail.Quotations, 1)
	assert.Equal(t, "q-1", detail.Quotations[0].ID)
	require.NotNil(t, detail.Summary)
	assert.Equal(t, 1, detail.Summary.ByStatus[core.StatusSent])

	require.NoError(t, svc.DeleteParty(ctx, created.Party.ID))
	_, err = svc.GetParty(ctx, created.Party.ID)
	assert.True(t, api.IsNotFound(err))
}

func TestDashboard(t *testing.T) {
	svc, _, _ := newService(t)
	res, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalParties)
	assert.Equal(t, 2, res.Summary.Count)
	assertDecimal(t, "5000", res.Summary.SoldValue)
	assertDecimal(t, "50", res.Summary.ConversionRate)
}

func TestChangePassword(t *testing.T) {
	svc, backend, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  app.ChangePasswordRequest
		want error
	}{
		{"missing", app.ChangePasswordRequest{CurrentPassword: "secret"}, app.ErrMissingCredentials},
		{"same", app.ChangePasswordRequest{CurrentPassword: "Secret1", NewPassword: "Secret1"}, app.ErrSamePassword},
		{"short", app.ChangePasswordRequest{CurrentPassword: "secret", NewPassword: "Ab1"}, app.ErrWeakPassword},
		{"no digit", app.ChangePasswordRequest{CurrentPassword: "secret", NewPassword: "Abcdefgh"}, app.ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.ChangePassword(ctx, tt.req), tt.want)
		})
	}

	err := svc.ChangePassword(ctx, app.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "Newpass1"})
	assert.Equal(t, "Failed to change password: Current password is incorrect", api.UserMessage(err, "change password"))

	require.NoError(t, svc.ChangePassword(ctx, app.ChangePasswordRequest{CurrentPassword: "secret", NewPassword: "Newpass1"}))
	assert.Equal(t, 1, backend.passwordChanges)
}
