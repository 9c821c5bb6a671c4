package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0501234567", "+972501234567"},
		{"050-123-4567", "+972501234567"},
		{"050 123 4567", "+972501234567"},
		{"(050) 1234567", "+972501234567"},
		{"+972501234567", "+972501234567"},
		{"+1 (555) 123-4567", "+15551234567"},
		{"00972501234567", "+972501234567"},
		{"972501234567", "+972501234567"},
		{"", ""},
		{"  ", ""},
		{"abc", ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
