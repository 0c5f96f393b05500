package main

import (
	"testing"

	"screen-answerer/crop"
)

func TestParseCropSpec(t *testing.T) {
	tests := []struct {
		input    string
		expected crop.Region
		wantErr  bool
	}{
		{"10,20,110,220", crop.Region{TopLeft: crop.Point{X: 10, Y: 20}, BottomRight: crop.Point{X: 110, Y: 220}}, false},
		{" 0 , 0 , 50 , 50 ", crop.Region{TopLeft: crop.Point{X: 0, Y: 0}, BottomRight: crop.Point{X: 50, Y: 50}}, false},
		{"10,20,110", crop.Region{}, true},
		{"10,20,110,220,300", crop.Region{}, true},
		{"a,b,c,d", crop.Region{}, true},
		{"", crop.Region{}, true},
	}

	for _, tt := range tests {
		region, err := parseCropSpec(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCropSpec(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCropSpec(%q): %v", tt.input, err)
			continue
		}
		if region != tt.expected {
			t.Errorf("parseCropSpec(%q) = %v, expected %v", tt.input, region, tt.expected)
		}
	}
}
