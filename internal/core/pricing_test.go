package core_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"quotation-desk/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func TestPriceDerivation_RoundTrip(t *testing.T) {
	rates := []string{"0", "5", "12", "18", "28", "100"}
	values := []string{"0.01", "0.99", "1", "9.99", "847.46", "1000", "1271.19", "99999.99", "123456.78"}
	tolerance := dec("0.01")

	for _, r := range rates {
		rate := dec(r)
		for _, v := range values {
			excl := dec(v)
			incl := core.InclusiveFromExclusive(excl, rate)
			back := core.ExclusiveFromInclusive(incl, rate)
			assert.Truef(t, back.Sub(excl).Abs().LessThan(tolerance),
				"rate %s: %s -> %s -> %s", r, v, incl, back)
		}
	}
}

func TestPriceDerivation_ZeroGuard(t *testing.T) {
	for _, r := range []string{"0", "5", "18", "28", "33.333"} {
		rate := dec(r)
		incl := core.InclusiveFromExclusive(decimal.Zero, rate)
		excl := core.ExclusiveFromInclusive(decimal.Zero, rate)
		assert.True(t, incl.Equal(decimal.Zero), "rate %s", r)
		assert.True(t, excl.Equal(decimal.Zero), "rate %s", r)
		assert.Equal(t, "0", incl.String())
		assert.Equal(t, "0", excl.String())
	}
}

func TestPriceDerivation_Rounding(t *testing.T) {
	tests := []struct {
		name string
		fn   func(decimal.Decimal, decimal.Decimal) decimal.Decimal
		in   string
		rate string
		want string
	}{
		{"excl to incl 18%", core.InclusiveFromExclusive, "900", "18", "1062"},
		{"incl to excl 18%", core.ExclusiveFromInclusive, "1000", "18", "847.46"},
		{"incl to excl sale", core.ExclusiveFromInclusive, "1500", "18", "1271.19"},
		{"zero rate", core.InclusiveFromExclusive, "10.555", "0", "10.56"},
		{"5% slab", core.InclusiveFromExclusive, "199.99", "5", "209.99"},
		{"negative amount", core.InclusiveFromExclusive, "-5", "18", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, tt.fn(dec(tt.in), dec(tt.rate)))
		})
	}
}

func TestResolveTaxRate(t *testing.T) {
	assertDecimal(t, "18", core.ResolveTaxRate(decimal.NullDecimal{}))
	assertDecimal(t, "0", core.ResolveTaxRate(decimal.NewNullDecimal(decimal.Zero)))
	assertDecimal(t, "12", core.ResolveTaxRate(decimal.NewNullDecimal(dec("12"))))
	assertDecimal(t, "0", core.ResolveTaxRate(decimal.NewNullDecimal(dec("-3"))))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "0"},
		{"   ", "0"},
		{"abc", "0"},
		{"12abc", "0"},
		{"-50", "0"},
		{"1062", "1062"},
		{" 847.46 ", "847.46"},
		{"1.5e3", "1500"},
		{"1e900000000", "0"},
		{"1e-900000000", "0"},
		{"123456789012345678901234567890123", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assertDecimal(t, tt.want, core.ParseAmount(tt.raw))
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"x", 1},
		{"0", 1},
		{"-4", 1},
		{"3", 3},
		{"2.9", 2},
		{" 7 ", 7},
		{"1e3", 1000},
		{"5e6", 1_000_000},
		{"99999999999", 1_000_000},
		{"1e900000000", 1},
		{"1e-900000000", 1},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, core.ParseQuantity(tt.raw))
		})
	}
}

func TestHugeExponentEditsReturnPromptly(t *testing.T) {
	item := core.NewLineItem(1, core.Component{ID: "cpu-1", Name: "Ryzen 5 7600",
		PurchasePrice: dec("1000"), SalesPrice: dec("1500"), GSTRate: decimal.NewNullDecimal(dec("18"))})
	fields := []core.Field{
		core.FieldPurchaseExclTax, core.FieldPurchaseInclTax,
		core.FieldSaleExclTax, core.FieldSaleInclTax, core.FieldQuantity,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, f := range fields {
			for _, raw := range []string{"1e900000000", "-1e900000000", "1e-900000000"} {
				got := core.ApplyEdit(item, f, raw)
				if f == core.FieldQuantity {
					assert.Equal(t, 1, got.Quantity)
				}
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ApplyEdit did not return for exponent input")
	}
}

func TestParseTaxRate(t *testing.T) {
	rate, err := core.ParseTaxRate("")
	assert.NoError(t, err)
	assertDecimal(t, "18", rate)

	rate, err = core.ParseTaxRate(" 5 ")
	assert.NoError(t, err)
	assertDecimal(t, "5", rate)

	rate, err = core.ParseTaxRate("-2")
	assert.NoError(t, err)
	assertDecimal(t, "0", rate)

	for _, raw := range []string{"abc", "1e900000000", "250"} {
		_, err := core.ParseTaxRate(raw)
		assert.ErrorIs(t, err, core.ErrInvalidTaxRate, raw)
	}
}
