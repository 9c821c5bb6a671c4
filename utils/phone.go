// Package utils holds the small single-purpose helpers that do not belong to
// any one component.
package utils

import "strings"

// DefaultCountryCode is prepended to local numbers that start with a trunk
// zero. The product's home market is Israel.
const DefaultCountryCode = "972"

// NormalizePhone reduces a user-typed phone number to a stable dialable form:
// digits only, international prefix preserved, local trunk-zero numbers
// rewritten to +<country><subscriber>. Returns "" for input with no digits.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	international := strings.HasPrefix(s, "+") || strings.HasPrefix(s, "00")

	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteByte(byte(r))
		}
	}
	d := digits.String()
	if d == "" {
		return ""
	}

	if international {
		return "+" + strings.TrimPrefix(d, "00")
	}
	if strings.HasPrefix(d, "0") {
		return "+" + DefaultCountryCode + d[1:]
	}
	return "+" + d
}
