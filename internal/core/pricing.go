package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the GST percentage used when a catalog entry or a
// persisted line carries none.
var DefaultTaxRate = decimal.NewFromInt(18)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ResolveTaxRate returns the rate carried by r, DefaultTaxRate when r is null,
// and zero for negative rates.
func ResolveTaxRate(r decimal.NullDecimal) decimal.Decimal {
	if !r.Valid {
		return DefaultTaxRate
	}
	if r.Decimal.IsNegative() {
		return decimal.Zero
	}
	return r.Decimal
}

// TaxMultiplier returns 1 + rate/100.
func TaxMultiplier(rate decimal.Decimal) decimal.Decimal {
	return one.Add(rate.Div(hundred))
}

// InclusiveFromExclusive applies tax to a tax-exclusive amount, rounded to
// 2 places. Zero and negative amounts yield exactly zero.
func InclusiveFromExclusive(excl, rate decimal.Decimal) decimal.Decimal {
	if excl.Sign() <= 0 {
		return decimal.Zero
	}
	return excl.Mul(TaxMultiplier(rate)).Round(2)
}

// ExclusiveFromInclusive strips tax from a tax-inclusive amount, rounded to
// 2 places. Zero and negative amounts yield exactly zero.
func ExclusiveFromInclusive(incl, rate decimal.Decimal) decimal.Decimal {
	if incl.Sign() <= 0 {
		return decimal.Zero
	}
	m := TaxMultiplier(rate)
	if m.Sign() <= 0 {
		return incl.Round(2)
	}
	return incl.Div(m).Round(2)
}

// ParseAmount coerces raw price input. Empty, non-numeric, negative and
// out-of-range input all become zero; price fields never fail.
func ParseAmount(raw string) decimal.Decimal {
	d, ok := parseNumber(raw)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseQuantity coerces raw quantity input to a whole number of at least 1.
// Fractions are truncated and values above the cap are clamped to it.
func ParseQuantity(raw string) int {
	d, ok := parseNumber(raw)
	if !ok || d.LessThan(one) {
		return 1
	}
	if d.GreaterThan(decimal.NewFromInt(maxQuantity)) {
		return maxQuantity
	}
	return int(d.IntPart())
}

// ParseTaxRate parses a GST percentage. Unlike price input it reports bad
// input instead of coercing it.
func ParseTaxRate(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTaxRate, nil
	}
	d, ok := parseNumber(raw)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w %q", ErrInvalidTaxRate, raw)
	}
	if d.GreaterThan(maxTaxRate) {
		return decimal.Zero, fmt.Errorf("%w %q (above %s%%)", ErrInvalidTaxRate, raw, maxTaxRate)
	}
	return ResolveTaxRate(decimal.NewNullDecimal(d)), nil
}

// parseNumber parses bounded decimal input. Exponent notation like
// "1e900000000" parses cheaply but any later rescale would expand it, so
// long strings and far-out exponents are rejected up front.
func parseNumber(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxNumberLen {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, false
	}
	return d, true
}

const (
	maxQuantity  = 1_000_000
	maxNumberLen = 32
	maxExponent  = 18
)

var (
	// ErrInvalidTaxRate reports a tax rate that is not a usable percentage.
	ErrInvalidTaxRate = errors.New("invalid tax rate")

	maxTaxRate = decimal.NewFromInt(100)
)

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
