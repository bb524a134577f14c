package core

import (
	"github.com/shopspring/decimal"
)

// Field names an editable column of a line item.
type Field string

const (
	FieldPurchaseExclTax Field = "purchaseExclTax"
	FieldPurchaseInclTax Field = "purchaseInclTax"
	FieldSaleExclTax     Field = "saleExclTax"
	FieldSaleInclTax     Field = "saleInclTax"
	FieldQuantity        Field = "quantity"
	FieldWarranty        Field = "warranty"
)

var fieldAliases = map[string]Field{
	"purchaseexcltax": FieldPurchaseExclTax,
	"purchaseexcl":    FieldPurchaseExclTax,
	"pe":              FieldPurchaseExclTax,
	"purchaseincltax": FieldPurchaseInclTax,
	"purchaseincl":    FieldPurchaseInclTax,
	"pi":              FieldPurchaseInclTax,
	"saleexcltax":     FieldSaleExclTax,
	"saleexcl":        FieldSaleExclTax,
	"se":              FieldSaleExclTax,
	"saleincltax":     FieldSaleInclTax,
	"saleincl":        FieldSaleInclTax,
	"si":              FieldSaleInclTax,
	"quantity":        FieldQuantity,
	"qty":             FieldQuantity,
	"warranty":        FieldWarranty,
}

// ParseField accepts a field name or one of its short aliases, case-insensitively.
func ParseField(s string) (Field, bool) {
	f, ok := fieldAliases[lowerASCII(s)]
	return f, ok
}

// LineItem is one component entry on a draft quotation.
type LineItem struct {
	ID              int             `json:"id"`
	Component       ComponentRef    `json:"model"`
	Category        Descriptor      `json:"category"`
	Brand           Descriptor      `json:"brand"`
	Warranty        string          `json:"warranty"`
	Quantity        int             `json:"quantity"`
	TaxRate         decimal.Decimal `json:"gstRate"`
	PurchaseExclTax decimal.Decimal `json:"purchaseExclTax"`
	PurchaseInclTax decimal.Decimal `json:"purchaseInclTax"`
	SaleExclTax     decimal.Decimal `json:"saleExclTax"`
	SaleInclTax     decimal.Decimal `json:"saleInclTax"`
	Margin          decimal.Decimal `json:"margin"`
}

// NewLineItem builds a line from a catalog entry: quantity 1, the catalog's
// tax-inclusive prices, and exclusive prices derived from them.
func NewLineItem(id int, c Component) LineItem {
	warranty := c.Warranty
	if warranty == "" {
		warranty = DefaultWarranty
	}
	item := LineItem{
		ID:              id,
		Component:       c.Ref(),
		Category:        c.Category.OrUnknown(),
		Brand:           c.Brand.OrUnknown(),
		Warranty:        warranty,
		Quantity:        1,
		TaxRate:         c.TaxRate(),
		PurchaseInclTax: nonNegative(c.PurchasePrice),
		SaleInclTax:     nonNegative(c.SalesPrice),
	}
	item.PurchaseExclTax = ExclusiveFromInclusive(item.PurchaseInclTax, item.TaxRate)
	item.SaleExclTax = ExclusiveFromInclusive(item.SaleInclTax, item.TaxRate)
	item.Margin = lineMargin(item)
	return item
}

// HydrateLineItem rebuilds an editable line from a persisted quotation line,
// deriving the exclusive prices from the stored inclusive ones.
func HydrateLineItem(id int, qc QuotationComponent) LineItem {
	quantity := qc.Quantity
	if quantity < 1 {
		quantity = 1
	}
	warranty := qc.Warranty
	if warranty == "" {
		warranty = DefaultWarranty
	}
	item := LineItem{
		ID:              id,
		Component:       qc.Model,
		Category:        qc.Category,
		Brand:           qc.Brand,
		Warranty:        warranty,
		Quantity:        quantity,
		TaxRate:         ResolveTaxRate(qc.GSTRate),
		PurchaseInclTax: nonNegative(qc.PurchasePrice).Round(2),
		SaleInclTax:     nonNegative(qc.SalesPrice).Round(2),
	}
	item.PurchaseExclTax = ExclusiveFromInclusive(item.PurchaseInclTax, item.TaxRate)
	item.SaleExclTax = ExclusiveFromInclusive(item.SaleInclTax, item.TaxRate)
	item.Margin = lineMargin(item)
	return item
}

// ApplyEdit returns a copy of item with field set from raw input. Only the
// edited field, its tax counterpart and the margin change. Invalid numeric
// input degrades to zero (prices) or one (quantity); unknown fields leave the
// item untouched.
func ApplyEdit(item LineItem, field Field, raw string) LineItem {
	updated := item
	switch field {
	case FieldWarranty:
		updated.Warranty = raw
		return updated
	case FieldQuantity:
		updated.Quantity = ParseQuantity(raw)
		return updated
	case FieldPurchaseExclTax:
		updated.PurchaseExclTax = ParseAmount(raw)
		updated.PurchaseInclTax = InclusiveFromExclusive(updated.PurchaseExclTax, item.TaxRate)
	case FieldPurchaseInclTax:
		updated.PurchaseInclTax = ParseAmount(raw)
		updated.PurchaseExclTax = ExclusiveFromInclusive(updated.PurchaseInclTax, item.TaxRate)
	case FieldSaleExclTax:
		updated.SaleExclTax = ParseAmount(raw)
		updated.SaleInclTax = InclusiveFromExclusive(updated.SaleExclTax, item.TaxRate)
	case FieldSaleInclTax:
		updated.SaleInclTax = ParseAmount(raw)
		updated.SaleExclTax = ExclusiveFromInclusive(updated.SaleInclTax, item.TaxRate)
	default:
		return item
	}
	updated.Margin = lineMargin(updated)
	return updated
}

// LineTotal is the tax-inclusive sale amount of the line.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.SaleInclTax.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func lineMargin(li LineItem) decimal.Decimal {
	return li.SaleExclTax.Sub(li.PurchaseExclTax).Round(2)
}

func lowerASCII(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b = append(b, c+('a'-'A'))
		case c == '_' || c == '-' || c == ' ':
		default:
			b = append(b, c)
		}
	}
	return string(b)
}
