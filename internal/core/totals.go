package core

import "github.com/shopspring/decimal"

// Totals are the quotation-level aggregates derived from the line items.
type Totals struct {
	TotalSaleAmount     decimal.Decimal `json:"totalSaleAmount"`
	TotalPurchaseCost   decimal.Decimal `json:"totalPurchaseCost"`
	TotalTax            decimal.Decimal `json:"totalTax"`
	GrossProfit         decimal.Decimal `json:"grossProfit"`
	ProfitMarginPercent decimal.Decimal `json:"profitMarginPercent"`
}

// ComputeTotals aggregates items from scratch. Lines with a non-positive
// quantity contribute nothing.
func ComputeTotals(items []LineItem) Totals {
	var t Totals
	for _, li := range items {
		if li.Quantity <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(li.Quantity))
		t.TotalSaleAmount = t.TotalSaleAmount.Add(li.SaleInclTax.Mul(qty))
		t.TotalPurchaseCost = t.TotalPurchaseCost.Add(li.PurchaseInclTax.Mul(qty))
		t.TotalTax = t.TotalTax.Add(li.SaleInclTax.Sub(li.SaleExclTax).Mul(qty))
	}
	t.GrossProfit = t.TotalSaleAmount.Sub(t.TotalPurchaseCost)
	if t.TotalPurchaseCost.IsPositive() {
		t.ProfitMarginPercent = t.GrossProfit.Div(t.TotalPurchaseCost).Mul(hundred).Round(2)
	}
	return t
}

// IsZero reports whether every aggregate is zero.
func (t Totals) IsZero() bool {
	return t.TotalSaleAmount.IsZero() && t.TotalPurchaseCost.IsZero() &&
		t.TotalTax.IsZero() && t.GrossProfit.IsZero() && t.ProfitMarginPercent.IsZero()
}
