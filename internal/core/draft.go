package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyDraft       = errors.New("quotation has no line items")
	ErrMissingParty     = errors.New("quotation has no client")
	ErrSubmitInProgress = errors.New("quotation is already being saved")
)

// DraftMode says how a draft will be persisted.
type DraftMode string

const (
	ModeNew    DraftMode = "new"    // POST /quotations
	ModeEdit   DraftMode = "edit"   // PUT /quotations/:id
	ModeRevise DraftMode = "revise" // POST /quotations/:id/revise
)

// DraftState is the submit lifecycle position of a draft.
type DraftState string

const (
	StateEmpty      DraftState = "empty"
	StatePopulated  DraftState = "populated"
	StateSubmitting DraftState = "submitting"
	StatePersisted  DraftState = "persisted"
)

// Draft is an in-memory quotation being authored. Line ids come from a
// per-draft counter and are never reused. All methods are safe for
// concurrent use.
type Draft struct {
	mu sync.Mutex

	partyID  string
	mode     DraftMode
	sourceID string
	items    []LineItem
	lastID   int
	status   QuotationStatus
	notes    string
	terms    string

	submitting  bool
	persistedID string
	dirty       bool
}

// NewDraft starts an empty quotation for partyID.
func NewDraft(partyID string) *Draft {
	return &Draft{
		partyID: partyID,
		mode:    ModeNew,
		status:  StatusDraft,
		terms:   DefaultTermsAndConditions,
	}
}

// HydrateDraft loads a persisted quotation for editing (ModeEdit) or for
// creating a new version of it (ModeRevise). Stored inclusive prices are
// converted back into both representations.
func HydrateDraft(q Quotation, mode DraftMode) (*Draft, error) {
	if mode != ModeEdit && mode != ModeRevise {
		return nil, fmt.Errorf("hydrate draft: unsupported mode %q", mode)
	}
	if q.ID == "" {
		return nil, fmt.Errorf("hydrate draft: quotation has no id")
	}
	d := &Draft{
		partyID:  q.Party.ID,
		mode:     mode,
		sourceID: q.ID,
		status:   q.Status,
		notes:    q.Notes,
		terms:    q.TermsAndConditions,
	}
	if !d.status.Valid() || mode == ModeRevise {
		d.status = StatusDraft
	}
	if d.terms == "" {
		d.terms = DefaultTermsAndConditions
	}
	for _, qc := range q.Components {
		d.lastID++
		d.items = append(d.items, HydrateLineItem(d.lastID, qc))
	}
	return d, nil
}

func (d *Draft) PartyID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.partyID
}

func (d *Draft) SetPartyID(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.partyID = id
	d.dirty = true
}

func (d *Draft) Mode() DraftMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// SourceID is the persisted quotation the draft edits or revises.
func (d *Draft) SourceID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sourceID
}

// AddLineItem appends a line built from a catalog component.
func (d *Draft) AddLineItem(c Component) LineItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastID++
	item := NewLineItem(d.lastID, c)
	d.items = append(d.items, item)
	d.dirty = true
	return item
}

// HydrateLineItem appends a line rebuilt from a persisted quotation line.
func (d *Draft) HydrateLineItem(qc QuotationComponent) LineItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastID++
	item := HydrateLineItem(d.lastID, qc)
	d.items = append(d.items, item)
	d.dirty = true
	return item
}

// UpdateLineItem applies an edit to the line with the given id, keeping its
// position. It reports false and changes nothing when the id is unknown.
func (d *Draft) UpdateLineItem(id int, field Field, value string) (LineItem, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexOf(id)
	if i < 0 {
		return LineItem{}, false
	}
	d.items[i] = ApplyEdit(d.items[i], field, value)
	d.dirty = true
	return d.items[i], true
}

// RemoveLineItem deletes the line with the given id. Unknown ids are ignored.
func (d *Draft) RemoveLineItem(id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexOf(id)
	if i < 0 {
		return false
	}
	d.items = append(d.items[:i], d.items[i+1:]...)
	d.dirty = true
	return true
}

// Items returns a copy of the lines in display order.
func (d *Draft) Items() []LineItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]LineItem, len(d.items))
	copy(out, d.items)
	return out
}

func (d *Draft) Item(id int) (LineItem, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexOf(id)
	if i < 0 {
		return LineItem{}, false
	}
	return d.items[i], true
}

// Totals recomputes the aggregates from the current lines.
func (d *Draft) Totals() Totals {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ComputeTotals(d.items)
}

func (d *Draft) Notes() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notes
}

func (d *Draft) SetNotes(notes string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notes = notes
	d.dirty = true
}

func (d *Draft) Terms() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.terms
}

func (d *Draft) SetTerms(terms string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.terms = terms
	d.dirty = true
}

func (d *Draft) Status() QuotationStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Draft) SetStatus(s QuotationStatus) error {
	if !s.Valid() {
		return fmt.Errorf("set status: %w %q", ErrInvalidStatus, s)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = s
	d.dirty = true
	return nil
}

// State derives the lifecycle state. A persisted draft that is edited again
// goes back to populated.
func (d *Draft) State() DraftState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stateLocked()
}

func (d *Draft) stateLocked() DraftState {
	switch {
	case d.submitting:
		return StateSubmitting
	case d.persistedID != "" && !d.dirty:
		return StatePersisted
	case len(d.items) == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}

// PersistedID is the id returned by the last successful submit.
func (d *Draft) PersistedID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.persistedID
}

// SubmitComponent is one line as sent to the API. Only tax-inclusive prices
// travel; exclusive prices are an editing convenience.
type SubmitComponent struct {
	Category      Descriptor
	Brand         Descriptor
	Model         ComponentRef
	Warranty      string
	Quantity      int
	PurchasePrice decimal.Decimal
	SalesPrice    decimal.Decimal
	GSTRate       decimal.Decimal
}

// SubmitPayload is an immutable snapshot of a draft taken at submit time.
type SubmitPayload struct {
	Mode               DraftMode
	SourceID           string
	Party              string
	Components         []SubmitComponent
	TotalAmount        decimal.Decimal
	TotalPurchase      decimal.Decimal
	TotalTax           decimal.Decimal
	Notes              string
	TermsAndConditions string
	Status             QuotationStatus
}

// BeginSubmit validates the draft, marks it submitting and returns the
// payload to send. Totals are recomputed here rather than trusted from any
// earlier read. Only one submit may be in flight.
func (d *Draft) BeginSubmit() (SubmitPayload, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.submitting {
		return SubmitPayload{}, ErrSubmitInProgress
	}
	if len(d.items) == 0 {
		return SubmitPayload{}, ErrEmptyDraft
	}
	if d.partyID == "" {
		return SubmitPayload{}, ErrMissingParty
	}

	totals := ComputeTotals(d.items)
	p := SubmitPayload{
		Mode:               d.mode,
		SourceID:           d.sourceID,
		Party:              d.partyID,
		Components:         make([]SubmitComponent, 0, len(d.items)),
		TotalAmount:        totals.TotalSaleAmount,
		TotalPurchase:      totals.TotalPurchaseCost,
		TotalTax:           totals.TotalTax,
		Notes:              d.notes,
		TermsAndConditions: d.terms,
		Status:             d.status,
	}
	for _, li := range d.items {
		p.Components = append(p.Components, SubmitComponent{
			Category:      li.Category,
			Brand:         li.Brand,
			Model:         li.Component,
			Warranty:      li.Warranty,
			Quantity:      li.Quantity,
			PurchasePrice: li.PurchaseInclTax,
			SalesPrice:    li.SaleInclTax,
			GSTRate:       li.TaxRate,
		})
	}
	d.submitting = true
	d.dirty = false
	return p, nil
}

// CompleteSubmit records the persisted id. Later submits update that
// quotation instead of creating another one.
func (d *Draft) CompleteSubmit(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.submitting = false
	d.persistedID = id
	d.mode = ModeEdit
	d.sourceID = id
}

// FailSubmit returns the draft to editing with its lines untouched.
func (d *Draft) FailSubmit() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.submitting = false
	d.dirty = true
}

// DraftView is a point-in-time copy of a draft for display and JSON.
type DraftView struct {
	PartyID            string          `json:"partyId"`
	Mode               DraftMode       `json:"mode"`
	SourceID           string          `json:"sourceId,omitempty"`
	State              DraftState      `json:"state"`
	PersistedID        string          `json:"persistedId,omitempty"`
	Status             QuotationStatus `json:"status"`
	Notes              string          `json:"notes"`
	TermsAndConditions string          `json:"termsAndConditions"`
	Items              []LineItem      `json:"items"`
	Totals             Totals          `json:"totals"`
}

// View snapshots the draft under a single lock.
func (d *Draft) View() DraftView {
	d.mu.Lock()
	defer d.mu.Unlock()
	items := make([]LineItem, len(d.items))
	copy(items, d.items)
	return DraftView{
		PartyID:            d.partyID,
		Mode:               d.mode,
		SourceID:           d.sourceID,
		State:              d.stateLocked(),
		PersistedID:        d.persistedID,
		Status:             d.status,
		Notes:              d.notes,
		TermsAndConditions: d.terms,
		Items:              items,
		Totals:             ComputeTotals(items),
	}
}

func (d *Draft) indexOf(id int) int {
	for i := range d.items {
		if d.items[i].ID == id {
			return i
		}
	}
	return -1
}
