// Package decimal parses free-text menu prices into exact decimal amounts.
// Parsing is informational: an item keeps its display price whether or not
// an amount can be read from it.
package decimal

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Price is an amount read from a display price.
type Price struct {
	Amount decimal.Decimal

	// Currency is the symbol or code as written, such as "$" or "EUR".
	// Empty when the display price names none.
	Currency string
}

var currencyCodes = []string{"USD", "EUR", "GBP", "CZK", "CAD", "AUD", "JPY", "INR", "Kč"}

var currencySymbols = "$€£¥₹"

// ParsePrice reads the first amount in s. Thousands separators and decimal
// commas are accepted ("1,299.00", "12,50 €"). For ranges such as
// "$9.99 - $12.99" the lower bound is returned. The bool result is false
// when s holds no amount.
func ParsePrice(s string) (Price, bool) {
	start := strings.IndexFunc(s, unicode.IsDigit)
	if start < 0 {
		return Price{}, false
	}
	end := start
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.' || s[end] == ',') {
		end++
	}

	amount, err := decimal.NewFromString(normalize(strings.TrimRight(s[start:end], ".,")))
	if err != nil {
		return Price{}, false
	}
	return Price{Amount: amount, Currency: currency(s[:start], s[end:])}, true
}

// normalize rewrites a number with any mix of separators into the plain
// dotted form decimal accepts.
func normalize(n string) string {
	lastDot, lastComma := strings.LastIndexByte(n, '.'), strings.LastIndexByte(n, ',')
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// The separator written last is the decimal point.
		if lastComma > lastDot {
			return strings.Replace(strings.ReplaceAll(n, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(n, ",", "")
	case lastComma >= 0:
		if strings.Count(n, ",") == 1 && len(n)-lastComma-1 <= 2 {
			return strings.Replace(n, ",", ".", 1)
		}
		return strings.ReplaceAll(n, ",", "")
	case strings.Count(n, ".") > 1:
		return strings.ReplaceAll(n, ".", "")
	}
	return n
}

// currency returns the currency written just before or after the amount.
func currency(before, after string) string {
	before = strings.TrimRightFunc(before, unicode.IsSpace)
	after = strings.TrimLeftFunc(after, unicode.IsSpace)

	if r, _ := utf8.DecodeLastRuneInString(before); strings.ContainsRune(currencySymbols, r) {
		return string(r)
	}
	if r, _ := utf8.DecodeRuneInString(after); strings.ContainsRune(currencySymbols, r) {
		return string(r)
	}
	for _, code := range currencyCodes {
		if strings.HasSuffix(before, code) || strings.HasPrefix(after, code) {
			return code
		}
	}
	return ""
}
