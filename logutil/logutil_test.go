package logutil

import "testing"

func TestRedactKey(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"", "********"},
		{"short", "********"},
		{"12345678", "********"},
		{"sk-abcdefghijklmnop", "sk-a...mnop"},
	}

	for _, tt := range tests {
		if got := RedactKey(tt.key); got != tt.expected {
			t.Errorf("RedactKey(%q) = %q, expected %q", tt.key, got, tt.expected)
		}
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		text     string
		max      int
		expected string
	}{
		{"short", 10, "short"},
		{"line one\nline two", 20, "line one line two"},
		{"  spaced   out  ", 20, "spaced out"},
		{"abcdefghij", 5, "abcde..."},
		{"中文字符也按符文截断", 4, "中文字符..."},
	}

	for _, tt := range tests {
		if got := TruncateText(tt.text, tt.max); got != tt.expected {
			t.Errorf("TruncateText(%q, %d) = %q, expected %q", tt.text, tt.max, got, tt.expected)
		}
	}
}
