package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountToWords spells a rupee amount in Indian English, rounded to the
// nearest rupee: 913183 → "Nine Lakhs Thirteen Thousand One Hundred and
// Eighty Three Rupees Only".
func AmountToWords(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "Minus " + AmountToWords(amount.Neg())
	}
	rupees := amount.Round(0).IntPart()
	if rupees == 0 {
		return "Zero Rupees Only"
	}
	return indianWords(rupees) + " Rupees Only"
}

func indianWords(n int64) string {
	var parts []string
	if n >= 10_000_000 {
		parts = append(parts, indianWords(n/10_000_000)+" Crores")
		n %= 10_000_000
	}
	if n >= 100_000 {
		parts = append(parts, under100(n/100_000)+" Lakhs")
		n %= 100_000
	}
	if n >= 1000 {
		parts = append(parts, under100(n/1000)+" Thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, onesWords[n/100]+" Hundred")
		n %= 100
	}
	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+under100(n))
		} else {
			parts = append(parts, under100(n))
		}
	}
	return strings.Join(parts, " ")
}

func under100(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	s := tensWords[n/10]
	if n%10 != 0 {
		s += " " + onesWords[n%10]
	}
	return s
}

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
