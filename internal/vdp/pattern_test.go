package vdp

import (
	"reflect"
	"testing"
)

func TestExpand(t *testing.T) {
	spec := SerialSpec{Mode: ModeLinear, CurrentIndex: 5, Padding: 3}

	tests := []struct {
		name     string
		pattern  string
		enabled  bool
		expected string
	}{
		{"token replaced", "(01)[SERIAL]", true, "(01)005"},
		{"pattern without token yields bare token", "no-token-here", true, "005"},
		{"empty pattern yields bare token", "", true, "005"},
		{"disabled returns input untouched", "(01)[SERIAL]", false, "(01)[SERIAL]"},
		{"disabled keeps arbitrary text", "raw code", false, "raw code"},
		{"every occurrence replaced", "[SERIAL]-[SERIAL]", true, "005-005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.pattern, tt.enabled, spec)
			if got != tt.expected {
				t.Errorf("Expand(%q, %v) = %q, want %q", tt.pattern, tt.enabled, got, tt.expected)
			}
		})
	}
}

func TestExpand_PrefixMode(t *testing.T) {
	spec := SerialSpec{Mode: ModePrefix, Prefix: "LOT", CurrentIndex: 7, Padding: 4}
	if got := Expand("(10)[SERIAL]", true, spec); got != "(10)LOT0007" {
		t.Errorf("Expand() = %q, want %q", got, "(10)LOT0007")
	}
}

func TestExpandSeries(t *testing.T) {
	spec := SerialSpec{Mode: ModeLinear, CurrentIndex: 8, Padding: 2}

	got := ExpandSeries("(21)[SERIAL]", spec, 4)
	want := []string{"(21)08", "(21)09", "(21)10", "(21)11"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandSeries() = %v, want %v", got, want)
	}
}

func TestExpandSeries_AlphaCarryAcrossRun(t *testing.T) {
	spec := SerialSpec{Mode: ModeAlpha, AlphaStartChar: "A", CurrentIndex: 99, Padding: 2}

	got := ExpandSeries("[SERIAL]", spec, 4)
	want := []string{"A99", "A100", "B01", "B02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandSeries() = %v, want %v", got, want)
	}
}

func TestExpandSeries_NonPositiveCount(t *testing.T) {
	spec := SerialSpec{Mode: ModeLinear, CurrentIndex: 1, Padding: 1}

	if got := ExpandSeries("[SERIAL]", spec, 0); len(got) != 0 {
		t.Errorf("ExpandSeries(count=0) returned %d codes, want 0", len(got))
	}
	if got := ExpandSeries("[SERIAL]", spec, -3); len(got) != 0 {
		t.Errorf("ExpandSeries(count=-3) returned %d codes, want 0", len(got))
	}
}
