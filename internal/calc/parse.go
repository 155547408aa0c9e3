package calc

import (
	"strconv"
	"strings"
)

// ParseAmount parses a numeric text field. Empty or non-numeric input is a
// ValidationError naming the field.
func ParseAmount(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, invalid(field, ReasonNonNumeric)
	}
	// Allow the thousands separators and currency sign people tend to type.
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, invalid(field, ReasonNonNumeric)
	}
	return v, nil
}

// ParsePercent parses a percentage field ("7" or "7%") into a fraction (0.07).
func ParsePercent(field, raw string) (float64, error) {
	v, err := ParseAmount(field, strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}
