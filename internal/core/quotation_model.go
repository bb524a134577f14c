package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus is the lifecycle status of a quotation as stored by the API.
type QuotationStatus string

const (
	StatusDraft QuotationStatus = "draft"
	StatusSent  QuotationStatus = "sent"
	StatusLost  QuotationStatus = "lost"
	StatusSold  QuotationStatus = "sold"
)

// QuotationStatuses lists every status in display order.
var QuotationStatuses = []QuotationStatus{StatusDraft, StatusSent, StatusLost, StatusSold}

// Valid reports whether s is one of the four known statuses.
func (s QuotationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusLost, StatusSold:
		return true
	}
	return false
}

// ErrInvalidStatus is returned for status values outside the four known ones.
var ErrInvalidStatus = errors.New("unknown quotation status")

// ParseStatus normalizes user input into a QuotationStatus.
func ParseStatus(s string) (QuotationStatus, error) {
	st := QuotationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w %q (want draft, sent, lost or sold)", ErrInvalidStatus, s)
	}
	return st, nil
}

// DefaultTermsAndConditions pre-fills the terms of a new quotation.
const DefaultTermsAndConditions = "Payment terms: 100% advance\nDelivery: Within 7 working days\nWarranty: As per manufacturer"

// DefaultWarranty is used when neither the catalog nor the user supplies one.
const DefaultWarranty = "1 Year"

// Descriptor is a category or brand reference. The API sends either a bare
// string or a resolved {_id, name} object; both decode into this one type.
type Descriptor struct {
	ID   string
	Name string
}

// String returns the display name, falling back to the id.
func (d Descriptor) String() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// IsZero reports whether neither id nor name is set.
func (d Descriptor) IsZero() bool { return d.ID == "" && d.Name == "" }

// OrUnknown returns d, or a descriptor named "Unknown" when d is empty.
func (d Descriptor) OrUnknown() Descriptor {
	if d.IsZero() {
		return Descriptor{Name: "Unknown"}
	}
	return d
}

func (d *Descriptor) UnmarshalJSON(b []byte) error {
	*d = Descriptor{}
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &d.Name)
	}
	var obj struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("descriptor: %w", err)
	}
	d.ID = firstNonEmpty(obj.ID, obj.AltID)
	d.Name = obj.Name
	return nil
}

// MarshalJSON writes the descriptor in its flattened wire form.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// ComponentRef identifies the catalog model a line item was created from.
type ComponentRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func (r *ComponentRef) UnmarshalJSON(b []byte) error {
	*r = ComponentRef{}
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		r.Name = "Component"
		return json.Unmarshal(b, &r.ID)
	}
	var obj struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("component ref: %w", err)
	}
	r.ID = firstNonEmpty(obj.ID, obj.AltID)
	r.Name = obj.Name
	return nil
}

// Component is a catalog entry. Purchase and sales prices are tax-inclusive.
type Component struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Category      Descriptor          `json:"category"`
	Brand         Descriptor          `json:"brand"`
	Description   string              `json:"description,omitempty"`
	PurchasePrice decimal.Decimal     `json:"purchasePrice"`
	SalesPrice    decimal.Decimal     `json:"salesPrice"`
	GSTRate       decimal.NullDecimal `json:"gstRate"`
	Warranty      string              `json:"warranty,omitempty"`
}

func (c *Component) UnmarshalJSON(b []byte) error {
	type alias Component
	aux := struct {
		*alias
		LegacyID string `json:"_id"`
		Title    string `json:"title"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.ID = firstNonEmpty(c.ID, aux.LegacyID)
	c.Name = firstNonEmpty(c.Name, aux.Title)
	return nil
}

// TaxRate returns the component's GST rate, or DefaultTaxRate when absent.
func (c Component) TaxRate() decimal.Decimal {
	return ResolveTaxRate(c.GSTRate)
}

// Ref returns the reference stored on line items built from c.
func (c Component) Ref() ComponentRef {
	return ComponentRef{ID: c.ID, Name: c.Name}
}

// Party is a CRM client.
type Party struct {
	ID         string `json:"id"`
	PartyID    string `json:"partyId,omitempty"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address,omitempty"`
	Source     string `json:"source,omitempty"`
	Priority   string `json:"priority,omitempty"`
	DealStatus string `json:"dealStatus,omitempty"`
}

// UnmarshalJSON accepts either a populated party object or a bare id string.
func (p *Party) UnmarshalJSON(b []byte) error {
	*p = Party{}
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &p.ID)
	}
	type alias Party
	aux := struct {
		*alias
		LegacyID string `json:"_id"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.ID = firstNonEmpty(p.ID, aux.LegacyID)
	return nil
}

// QuotationComponent is one persisted line of a quotation. Prices are tax-inclusive.
type QuotationComponent struct {
	Category      Descriptor          `json:"category"`
	Brand         Descriptor          `json:"brand"`
	Model         ComponentRef        `json:"model"`
	Warranty      string              `json:"warranty"`
	Quantity      int                 `json:"quantity"`
	PurchasePrice decimal.Decimal     `json:"purchasePrice"`
	SalesPrice    decimal.Decimal     `json:"salesPrice"`
	GSTRate       decimal.NullDecimal `json:"gstRate"`
}

// Quotation is a quotation as persisted by the API.
type Quotation struct {
	ID                 string               `json:"id"`
	Title              string               `json:"title,omitempty"`
	Party              Party                `json:"party"`
	Components         []QuotationComponent `json:"components"`
	TotalAmount        decimal.Decimal      `json:"totalAmount"`
	TotalPurchase      decimal.Decimal      `json:"totalPurchase"`
	TotalTax           decimal.Decimal      `json:"totalTax"`
	Notes              string               `json:"notes,omitempty"`
	TermsAndConditions string               `json:"termsAndConditions,omitempty"`
	Status             QuotationStatus      `json:"status"`
	Version            int                  `json:"version,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
}

func (q *Quotation) UnmarshalJSON(b []byte) error {
	type alias Quotation
	aux := struct {
		*alias
		LegacyID string `json:"_id"`
	}{alias: (*alias)(q)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	q.ID = firstNonEmpty(q.ID, aux.LegacyID)
	return nil
}

// DailyReport is the activity digest for a single day.
type DailyReport struct {
	Date        string             `json:"date"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Today       DailyActivity      `json:"today"`
	Totals      DailyReportTotals  `json:"totals"`
	Summary     DailyReportSummary `json:"summary"`
}

// DailyActivity counts what happened on the report date.
type DailyActivity struct {
	NewClients int             `json:"newClients"`
	Quotations int             `json:"quotations"`
	FollowUps  int             `json:"followUps"`
	Activities []ActivityEntry `json:"activities"`
}

// ActivityEntry is one timeline row in a daily report.
type ActivityEntry struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"` // new_client, new_quotation, quotation_update, follow_up
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// DailyReportTotals are the all-time counters included with a daily report.
type DailyReportTotals struct {
	Clients             int             `json:"clients"`
	Quotations          int             `json:"quotations"`
	TotalQuotationValue decimal.Decimal `json:"totalQuotationValue"`
}

// DailyReportSummary flags how the day looks at a glance.
type DailyReportSummary struct {
	BusyDay         bool     `json:"busyDay"`
	HasOverdueItems bool     `json:"hasOverdueItems"`
	PriorityAreas   []string `json:"priorityAreas"`
}

// User is the authenticated account returned by the auth endpoints.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}

func (u *User) UnmarshalJSON(b []byte) error {
	type alias User
	aux := struct {
		*alias
		LegacyID string `json:"_id"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	u.ID = firstNonEmpty(u.ID, aux.LegacyID)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
