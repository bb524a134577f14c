package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"quotation-desk/internal/ai"
	"quotation-desk/internal/api"
	"quotation-desk/internal/core"
)

type fakeBackend struct {
	mu sync.Mutex

	components []core.Component
	quotations map[string]core.Quotation
	parties    []core.Party

	componentCalls int
	submitted      []core.SubmitPayload
	submitErr      error
	// submitGate, when set, blocks SubmitQuotation until it is closed.
	submitGate chan struct{}
	reportDate time.Time
	loggedOut  bool

	// hidden components exist upstream but not in the listed catalog.
	hidden          []core.Component
	componentInputs []api.ComponentInput
	passwordChanges int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		components: []core.Component{
			{
				ID: "cpu-1", Name: "Ryzen 5 7600",
				Category:      core.Descriptor{Name: "Processor"},
				Brand:         core.Descriptor{Name: "AMD"},
				PurchasePrice: decimal.RequireFromString("1000"),
				SalesPrice:    decimal.RequireFromString("1500"),
				GSTRate:       decimal.NewNullDecimal(decimal.NewFromInt(18)),
			},
			{
				ID: "mb-1", Name: "B650M Pro",
				Category:      core.Descriptor{Name: "Motherboard"},
				Brand:         core.Descriptor{Name: "MSI"},
				PurchasePrice: decimal.RequireFromString("11800"),
				SalesPrice:    decimal.RequireFromString("14160"),
			},
		},
		quotations: map[string]core.Quotation{
			"q-1": {
				ID:     "q-1",
				Party:  core.Party{ID: "p-1", Name: "Acme Traders"},
				Status: core.StatusSent,
				Components: []core.QuotationComponent{{
					Category:      core.Descriptor{Name: "Processor"},
					Brand:         core.Descriptor{Name: "AMD"},
					Model:         core.ComponentRef{ID: "cpu-1", Name: "Ryzen 5 7600"},
					Warranty:      "3 Years",
					Quantity:      2,
					PurchasePrice: decimal.RequireFromString("1000"),
					SalesPrice:    decimal.RequireFromString("1500"),
					GSTRate:       decimal.NewNullDecimal(decimal.NewFromInt(18)),
				}},
				TotalAmount: decimal.RequireFromString("3000"),
				Notes:       "urgent",
			},
			"q-2": {
				ID:          "q-2",
				Party:       core.Party{ID: "p-2", Name: "Globex"},
				Status:      core.StatusSold,
				TotalAmount: decimal.RequireFromString("5000"),
			},
		},
		parties: []core.Party{{ID: "p-1", Name: "Acme Traders"}},
	}
}

func (f *fakeBackend) ListComponents(context.Context) ([]core.Component, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.componentCalls++
	return f.components, nil
}

func (f *fakeBackend) ListQuotations(context.Context) ([]core.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return []core.Quotation{f.quotations["q-1"], f.quotations["q-2"]}, nil
}

func (f *fakeBackend) ListPartyQuotations(_ context.Context, partyID string) ([]core.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Quotation
	for _, id := range []string{"q-1", "q-2"} {
		if q := f.quotations[id]; q.Party.ID == partyID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetQuotation(_ context.Context, id string) (core.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quotations[id]
	if !ok {
		return core.Quotation{}, &api.Error{Method: "GET", Path: "/quotations/" + id, StatusCode: 404, Message: "Quotation not found"}
	}
	return q, nil
}

func (f *fakeBackend) SubmitQuotation(_ context.Context, p core.SubmitPayload) (core.Quotation, error) {
	f.mu.Lock()
	gate := f.submitGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, p)
	if f.submitErr != nil {
		return core.Quotation{}, f.submitErr
	}
	id := p.SourceID
	if p.Mode != core.ModeEdit {
		id = "q-new"
	}
	return core.Quotation{ID: id, Party: core.Party{ID: p.Party}, Status: p.Status, TotalAmount: p.TotalAmount}, nil
}

func (f *fakeBackend) UpdateQuotationStatus(_ context.Context, id string, status core.QuotationStatus, _ string) (core.Quotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quotations[id]
	if !ok {
		return core.Quotation{}, errors.New("not found")
	}
	q.Status = status
	f.quotations[id] = q
	return q, nil
}

func (f *fakeBackend) DeleteQuotation(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.quotations, id)
	return nil
}

func (f *fakeBackend) ListParties(context.Context, string) ([]core.Party, error) {
	return f.parties, nil
}

func (f *fakeBackend) GetParty(_ context.Context, id string) (core.Party, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.parties {
		if p.ID == id {
			return p, nil
		}
	}
	return core.Party{}, &api.Error{Method: "GET", Path: "/parties/" + id, StatusCode: 404, Message: "Party not found"}
}

func (f *fakeBackend) CreateParty(_ context.Context, in api.PartyInput) (core.Party, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := core.Party{ID: fmt.Sprintf("p-%d", len(f.parties)+10), Name: in.Name, Phone: in.Phone, Email: in.Email}
	f.parties = append(f.parties, p)
	return p, nil
}

func (f *fakeBackend) UpdateParty(_ context.Context, id string, in api.PartyInput) (core.Party, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.parties {
		if p.ID == id {
			f.parties[i].Name, f.parties[i].Phone, f.parties[i].Email = in.Name, in.Phone, in.Email
			return f.parties[i], nil
		}
	}
	return core.Party{}, &api.Error{Method: "PUT", Path: "/parties/" + id, StatusCode: 404, Message: "Party not found"}
}

func (f *fakeBackend) DeleteParty(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.parties {
		if p.ID == id {
			f.parties = append(f.parties[:i], f.parties[i+1:]...)
			return nil
		}
	}
	return &api.Error{Method: "DELETE", Path: "/parties/" + id, StatusCode: 404, Message: "Party not found"}
}

func (f *fakeBackend) GetComponent(_ context.Context, id string) (core.Component, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, list := range [][]core.Component{f.components, f.hidden} {
		for _, c := range list {
			if c.ID == id {
				return c, nil
			}
		}
	}
	return core.Component{}, &api.Error{Method: "GET", Path: "/components/" + id, StatusCode: 404, Message: "Component not found"}
}

func (f *fakeBackend) CreateComponent(_ context.Context, in api.ComponentInput) (core.Component, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.componentInputs = append(f.componentInputs, in)
	c := core.Component{
		ID: fmt.Sprintf("c-%d", len(f.components)+1), Name: in.Name,
		Category: core.Descriptor{Name: in.Category}, Brand: core.Descriptor{Name: in.Brand},
		PurchasePrice: in.PurchasePrice, SalesPrice: in.SalesPrice,
		GSTRate: decimal.NewNullDecimal(in.GSTRate),
	}
	f.components = append(f.components, c)
	return c, nil
}

func (f *fakeBackend) UpdateComponent(_ context.Context, id string, in api.ComponentInput) (core.Component, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.components {
		if c.ID == id {
			f.components[i].Name = in.Name
			f.components[i].SalesPrice = in.SalesPrice
			return f.components[i], nil
		}
	}
	return core.Component{}, &api.Error{Method: "PUT", Path: "/components/" + id, StatusCode: 404, Message: "Component not found"}
}

func (f *fakeBackend) DeleteComponent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.components {
		if c.ID == id {
			f.components = append(f.components[:i], f.components[i+1:]...)
			return nil
		}
	}
	return &api.Error{Method: "DELETE", Path: "/components/" + id, StatusCode: 404, Message: "Component not found"}
}

func (f *fakeBackend) ChangePassword(_ context.Context, current, next string) error {
	if current != "secret" {
		return &api.Error{Method: "PUT", Path: "/auth/change-password", StatusCode: 400, Message: "Current password is incorrect"}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwordChanges++
	return nil
}

func (f *fakeBackend) DailyReport(_ context.Context, date time.Time) (core.DailyReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reportDate = date
	return core.DailyReport{Date: date.Format("2006-01-02")}, nil
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (api.LoginResult, error) {
	if password != "secret" {
		return api.LoginResult{}, &api.Error{Method: "POST", Path: "/auth/login", StatusCode: 401, Message: "Invalid credentials"}
	}
	return api.LoginResult{Token: "tok-123", User: core.User{ID: "u-1", Email: email}}, nil
}

func (f *fakeBackend) Profile(context.Context) (core.User, error) {
	return core.User{ID: "u-1", Email: "sales@example.com"}, nil
}

func (f *fakeBackend) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedOut = true
	return nil
}

func (f *fakeBackend) Health(context.Context) error { return nil }

type memSessions struct {
	token string
}

func (m *memSessions) Token() string { return m.token }

func (m *memSessions) Save(token string) error {
	m.token = token
	return nil
}

func (m *memSessions) ExpiresAt() time.Time { return time.Time{} }

type memSettingsStore struct {
	data []byte
}

func (m *memSettingsStore) Load(context.Context) ([]byte, error) { return m.data, nil }

func (m *memSettingsStore) Save(_ context.Context, data []byte) error {
	m.data = append([]byte(nil), data...)
	return nil
}

type fakeAssistant struct {
	suggestion ai.Suggestion
	gotCatalog int
}

func (f *fakeAssistant) SuggestLineItems(_ context.Context, _ string, catalog []core.Component) (*ai.Suggestion, error) {
	f.gotCatalog = len(catalog)
	s := f.suggestion
	return &s, nil
}
