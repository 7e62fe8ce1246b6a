// Package vdp implements the variable-data-printing generation core:
// serial-number encoding, pattern expansion, column-to-field mapping and
// per-row code generation. All generation functions are pure and never
// fail; malformed inputs are clamped or defaulted so a print run is never
// blocked by a bad numeric value.
package vdp

import (
	"fmt"
	"strings"
)

// SerialMode selects how a serial index is rendered into a token.
type SerialMode string

const (
	// ModeLinear renders the index as zero-padded digits.
	ModeLinear SerialMode = "linear"
	// ModePrefix prepends a fixed string to the padded digits.
	ModePrefix SerialMode = "prefix"
	// ModeAlpha renders a leading letter that carries once the numeric
	// capacity of the padding width is exhausted.
	ModeAlpha SerialMode = "alpha"
)

// SerialSpec describes one serial-token generation request. It is
// constructed fresh per call from caller-owned state; Encode holds no
// state between calls.
type SerialSpec struct {
	CurrentIndex   int        `json:"currentIndex"`
	Padding        int        `json:"padding"`
	Mode           SerialMode `json:"mode"`
	Prefix         string     `json:"prefix,omitempty"`
	AlphaStartChar string     `json:"alphaStartChar,omitempty"`
}

// FormatSerial renders current as a decimal string left-padded with '0'
// to at least padding characters. Padding is a minimum width, not a
// maximum: values wider than padding are never truncated. Negative
// current is clamped to 0 and padding below 1 is clamped to 1.
func FormatSerial(current, padding int) string {
	if current < 0 {
		current = 0
	}
	if padding < 1 {
		padding = 1
	}
	return fmt.Sprintf("%0*d", padding, current)
}

// Encode produces the mode-specific serial token. Unknown modes fall
// back to linear rendering.
func (s SerialSpec) Encode() string {
	switch s.Mode {
	case ModePrefix:
		return s.Prefix + FormatSerial(s.CurrentIndex, s.Padding)
	case ModeAlpha:
		return s.encodeAlpha()
	default:
		return FormatSerial(s.CurrentIndex, s.Padding)
	}
}

// encodeAlpha implements the letter+digits scheme. The numeric capacity
// per letter is 10^padding; serial numbers are 1-based, so index 1 maps
// to the first slot of the start letter. Once the letter reaches 'Z' it
// saturates rather than wrapping: runs beyond the alphabet keep the 'Z'
// letter while the numeric part keeps cycling, so values past the last
// letter collide. Existing label runs depend on that boundary, so it is
// preserved as-is.
func (s SerialSpec) encodeAlpha() string {
	padding := s.Padding
	if padding < 1 {
		padding = 1
	}
	// 10^19 overflows int64; beyond 18 the capacity math would wrap
	// (and eventually hit zero), so the width is capped there.
	if padding > 18 {
		padding = 18
	}

	capacity := 1
	for i := 0; i < padding; i++ {
		capacity *= 10
	}

	baseIndex := s.CurrentIndex - 1
	if baseIndex < 0 {
		baseIndex = 0
	}

	letterOffset := baseIndex / capacity
	within := baseIndex%capacity + 1

	start := byte('A')
	if up := strings.ToUpper(s.AlphaStartChar); up != "" && up[0] >= 'A' && up[0] <= 'Z' {
		start = up[0]
	}

	letter := int(start) + letterOffset
	if letter > 'Z' {
		letter = 'Z'
	}

	return string(rune(letter)) + FormatSerial(within, padding)
}
