package utils

import "testing"

func TestStringHelper_NormalizeWhitespace(t *testing.T) {
	h := NewStringHelper()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "trims", input: "  Valentići  ", expected: "Valentići"},
		{name: "collapses inner runs", input: "Istarska \n\t ulica   12-45", expected: "Istarska ulica 12-45"},
		{name: "non-breaking space", input: "09:00\u00a0-\u00a011:30", expected: "09:00 - 11:30"},
		{name: "empty", input: " \n ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.NormalizeWhitespace(tt.input); got != tt.expected {
				t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStringHelper_TruncateString(t *testing.T) {
	h := NewStringHelper()

	if got := h.TruncateString("Očekivano", 4); got != "Oček..." {
		t.Errorf("TruncateString = %q, want %q", got, "Oček...")
	}

	if got := h.TruncateString("Pula", 10); got != "Pula" {
		t.Errorf("TruncateString = %q, want Pula", got)
	}
}
