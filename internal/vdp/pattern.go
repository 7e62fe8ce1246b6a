package vdp

import "strings"

// SerialToken is the placeholder recognized in programmatic patterns.
const SerialToken = "[SERIAL]"

// Expand splices the serial token for spec into pattern.
//
// When enabled is false the pattern is returned untouched: serialization
// is a non-destructive overlay over the raw code. When the pattern does
// not contain the [SERIAL] placeholder the bare token is returned, so an
// empty or malformed pattern still yields a usable code. Otherwise every
// occurrence of the placeholder is replaced.
func Expand(pattern string, enabled bool, spec SerialSpec) string {
	if !enabled {
		return pattern
	}

	token := spec.Encode()
	if !strings.Contains(pattern, SerialToken) {
		return token
	}
	return strings.ReplaceAll(pattern, SerialToken, token)
}

// ExpandSeries materializes count codes starting at spec.CurrentIndex,
// one per label instance, incrementing the index for each. A negative
// count yields an empty slice.
func ExpandSeries(pattern string, spec SerialSpec, count int) []string {
	if count < 0 {
		count = 0
	}

	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		step := spec
		step.CurrentIndex = spec.CurrentIndex + i
		codes = append(codes, Expand(pattern, true, step))
	}
	return codes
}
