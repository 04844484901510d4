package models

import (
	"strconv"
	"strings"
)

// FormatCurrency renders a monetary amount with Brazilian separators,
// e.g. 50000.0 -> "R$ 50.000,00".
func FormatCurrency(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, decPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	out := "R$ " + b.String() + "," + decPart
	if neg {
		out = "R$ -" + b.String() + "," + decPart
	}
	return out
}

// FormatBullets renders list items as newline-separated bullet lines,
// preserving order: "\n• Item 1\n• Item 2".
func FormatBullets(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return "\n• " + strings.Join(items, "\n• ")
}

// Render formats a value for substitution into a document, applying
// the field's static kind: currency fields get the separator swap,
// lists become bullet lines, everything else is the plain text form.
func (v Value) Render(f Field) string {
	if v.IsEmpty() {
		return ""
	}
	if KindOf(f) == KindCurrency && v.Kind == Number {
		return FormatCurrency(v.Number)
	}
	return v.String()
}

// trimNumber renders a float without a trailing ".0" for whole values.
func trimNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
