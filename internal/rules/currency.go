package rules

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseCurrencyInput parses a user-typed amount. Either '.' or ',' may be the
// fractional separator; a leading "R$", spaces and grouping separators are
// tolerated. Input that is not a number yields zero.
func ParseCurrencyInput(text string) decimal.Decimal {
	amount, ok := parseAmount(text)
	if !ok {
		return decimal.Zero
	}
	return amount
}

func parseAmount(text string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "R$")
	if s == "" {
		return decimal.Zero, false
	}

	s = normalizeSeparators(s)
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, false
		}
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, true
}

// normalizeSeparators rewrites s so that '.' is the only, fractional, separator.
// When both kinds appear the last one is fractional. A single kind repeated more
// than once is grouping.
func normalizeSeparators(s string) string {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case commas > 1:
		return strings.ReplaceAll(s, ",", "")
	case commas == 1:
		return strings.Replace(s, ",", ".", 1)
	case dots > 1:
		return strings.ReplaceAll(s, ".", "")
	default:
		return s
	}
}

// FormatCurrency renders amount as Brazilian reais: R$ 1.234,56.
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	return sign + "R$ " + b.String() + "," + frac
}
