// Package textnorm provides the string and numeric normalization rules
// applied to canonical spell data before hashing.
//
// Three whitespace modes exist, each applied after Unicode NFC
// normalization:
//   - Structured: all whitespace (including newlines) collapses to
//     single spaces. Used for short categorical text.
//   - Textual: horizontal whitespace collapses per line, runs of blank
//     lines collapse to one, line breaks survive. Used for prose.
//   - Exact: NFC and trim only. Used for machine-readable expressions.
package textnorm

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// precisionFactor clamps floats to 6 decimal places so representation
// noise below 1e-6 never changes a content hash.
const precisionFactor = 1e6

// Structured collapses all whitespace to single spaces, preserving case.
func Structured(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// LowercaseStructured is Structured plus lowercasing. Used for
// identifier-like fields such as damage-part ids and formula variables.
func LowercaseStructured(s string) string {
	return strings.ToLower(Structured(s))
}

// Textual collapses horizontal whitespace within each line and collapses
// runs of blank lines to a single separator, preserving line breaks.
func Textual(s string) string {
	lines := strings.Split(norm.NFC.String(s), "\n")
	out := make([]string, 0, len(lines))
	blankRun := false
	for _, line := range lines {
		collapsed := strings.Join(strings.Fields(line), " ")
		if collapsed == "" {
			blankRun = true
			continue
		}
		if blankRun && len(out) > 0 {
			out = append(out, "")
		}
		blankRun = false
		out = append(out, collapsed)
	}
	return strings.Join(out, "\n")
}

// Exact applies NFC and trims surrounding whitespace, nothing else.
func Exact(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// ClampPrecision rounds f to 6 decimal places.
func ClampPrecision(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return math.Round(f*precisionFactor) / precisionFactor
}

// ClampPrecisionPtr rounds the pointee in place, tolerating nil.
func ClampPrecisionPtr(f *float64) {
	if f != nil {
		*f = ClampPrecision(*f)
	}
}
