package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a provider-encoded decimal. Blank or unparsable input is zero.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParsePercent is ParseDecimal after removing percent signs, so "0.98%" is 0.98.
func ParsePercent(s string) decimal.Decimal {
	return ParseDecimal(strings.ReplaceAll(s, "%", ""))
}

// Decimal extracts a numeric field. Absent or malformed fields are zero.
func Decimal(obj map[string]any, name string) decimal.Decimal {
	raw, ok := rawString(obj, name)
	if !ok {
		return decimal.Zero
	}
	return ParseDecimal(raw)
}

// Percent extracts a percent field such as "10. change percent".
func Percent(obj map[string]any, name string) decimal.Decimal {
	raw, ok := rawString(obj, name)
	if !ok {
		return decimal.Zero
	}
	return ParsePercent(raw)
}

// String extracts a display field. Absent fields are "".
func String(obj map[string]any, name string) string {
	raw, _ := rawString(obj, name)
	return raw
}

// Symbol prefers the symbol echoed by the provider and falls back to the
// caller's. The result is always uppercased.
func Symbol(obj map[string]any, name, fallback string) string {
	sym := strings.TrimSpace(String(obj, name))
	if sym == "" {
		sym = strings.TrimSpace(fallback)
	}
	return strings.ToUpper(sym)
}

// rawString returns the textual form of a scalar field.
func rawString(obj map[string]any, name string) (string, bool) {
	switch v := obj[name].(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
