package app

// StartDraftRequest opens a draft. Exactly one of the fields selects the
// mode: PartyID for a new quotation, EditID to edit an existing one,
// ReviseID to create a new version of one.
type StartDraftRequest struct {
	PartyID  string `json:"partyId"`
	EditID   string `json:"editId"`
	ReviseID string `json:"reviseId"`
}

// UpdateLineItemRequest edits one field of one line. Field accepts the
// long names (saleInclTax) and the short aliases (si).
type UpdateLineItemRequest struct {
	DraftID string
	ItemID  int
	Field   string
	Value   string
}

// DraftMetaRequest changes quotation-level fields. Nil fields are left as is.
type DraftMetaRequest struct {
	DraftID string  `json:"-"`
	PartyID *string `json:"partyId"`
	Notes   *string `json:"notes"`
	Terms   *string `json:"termsAndConditions"`
	Status  *string `json:"status"`
}

// ListQuotationsRequest filters the quotation list. PartyID restricts the
// list to one client's quotations.
type ListQuotationsRequest struct {
	Status  string
	Search  string
	PartyID string
}

// ExportFormat selects the rendered document type.
type ExportFormat string

const (
	FormatPDF   ExportFormat = "pdf"
	FormatExcel ExportFormat = "xlsx"
)

// ExportRequest renders a persisted quotation. Internal copies include
// purchase cost and profit.
type ExportRequest struct {
	QuotationID string
	Format      ExportFormat
	Internal    bool
}

// PriceRequest converts one amount. Basis is "excl" or "incl"; an empty
// Rate means the default GST rate.
type PriceRequest struct {
	Basis  string
	Amount string
	Rate   string
}

// PartyRequest creates or replaces a client record.
type PartyRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Source   string `json:"source"`
	Priority string `json:"priority"`
}

// ComponentRequest creates or replaces a catalog entry. Prices are raw
// tax-inclusive input and coerce like line-item prices; an empty GSTRate
// means the default rate.
type ComponentRequest struct {
	Name           string
	Category       string
	Brand          string
	HSN            string
	Warranty       string
	Description    string
	Specifications string
	PurchasePrice  string
	SalesPrice     string
	GSTRate        string
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
