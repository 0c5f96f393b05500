package hotkey

import (
	"reflect"
	"testing"
)

func TestParseCombo(t *testing.T) {
	tests := []struct {
		combo    string
		expected []string
	}{
		{"Ctrl+Alt+Q", []string{"ctrl", "alt", "q"}},
		{"ctrl + shift + F5", []string{"ctrl", "shift", "f5"}},
		{"Win+Space", []string{"cmd", "space"}},
		{"Super+X", []string{"cmd", "x"}},
		{"q", []string{"q"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := parseCombo(tt.combo)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("parseCombo(%q) = %v, expected %v", tt.combo, got, tt.expected)
		}
	}
}

func TestRawcodesFor(t *testing.T) {
	tests := []struct {
		keyName  string
		expected []uint16
	}{
		{"ctrl", []uint16{162, 163}},
		{"alt", []uint16{164, 165}},
		{"shift", []uint16{160, 161}},
		{"cmd", []uint16{91, 92}},

		{"q", []uint16{81}},
		{"a", []uint16{65}},
		{"z", []uint16{90}},
		{"0", []uint16{48}},
		{"9", []uint16{57}},

		{"f1", []uint16{112}},
		{"f12", []uint16{123}},
		{"f24", []uint16{135}},

		{"space", []uint16{32}},
		{"enter", []uint16{13}},
		{"esc", []uint16{27}},
		{"pgdn", []uint16{34}},
		{"left", []uint16{37}},

		{"f0", nil},
		{"f25", nil},
		{"fx", nil},
		{"unknown-key", nil},
	}

	for _, tt := range tests {
		got := rawcodesFor(tt.keyName)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("rawcodesFor(%q) = %v, expected %v", tt.keyName, got, tt.expected)
		}
	}
}
