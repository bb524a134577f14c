package api

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"quotation-desk/internal/core"
)

// quotationBody is the create/update/revise request body.
type quotationBody struct {
	Party              string          `json:"party"`
	Components         []componentBody `json:"components"`
	TotalAmount        json.Number     `json:"totalAmount"`
	TotalPurchase      json.Number     `json:"totalPurchase"`
	TotalTax           json.Number     `json:"totalTax"`
	Notes              string          `json:"notes"`
	TermsAndConditions string          `json:"termsAndConditions"`
	Status             string          `json:"status"`
}

type componentBody struct {
	Category      string            `json:"category"`
	Brand         string            `json:"brand"`
	Model         core.ComponentRef `json:"model"`
	Warranty      string            `json:"warranty"`
	Quantity      int               `json:"quantity"`
	PurchasePrice json.Number       `json:"purchasePrice"`
	SalesPrice    json.Number       `json:"salesPrice"`
	GSTRate       json.Number       `json:"gstRate"`
}

// money renders d as a bare JSON number with two decimals.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func newQuotationBody(p core.SubmitPayload) quotationBody {
	body := quotationBody{
		Party:              p.Party,
		Components:         make([]componentBody, 0, len(p.Components)),
		TotalAmount:        money(p.TotalAmount),
		TotalPurchase:      money(p.TotalPurchase),
		TotalTax:           money(p.TotalTax),
		Notes:              p.Notes,
		TermsAndConditions: p.TermsAndConditions,
		Status:             string(p.Status),
	}
	if body.Status == "" {
		body.Status = string(core.StatusDraft)
	}
	for _, c := range p.Components {
		name := c.Model.Name
		if name == "" {
			name = "Component"
		}
		warranty := c.Warranty
		if warranty == "" {
			warranty = core.DefaultWarranty
		}
		qty := c.Quantity
		if qty < 1 {
			qty = 1
		}
		body.Components = append(body.Components, componentBody{
			Category:      c.Category.String(),
			Brand:         c.Brand.String(),
			Model:         core.ComponentRef{ID: c.Model.ID, Name: name},
			Warranty:      warranty,
			Quantity:      qty,
			PurchasePrice: money(c.PurchasePrice),
			SalesPrice:    money(c.SalesPrice),
			GSTRate:       number(c.GSTRate),
		})
	}
	return body
}

type statusBody struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordBody struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}
