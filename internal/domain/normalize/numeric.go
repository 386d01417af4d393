// Package normalize turns raw spreadsheet cells into numbers and calendar dates.
//
// Number parsing is fail-open: anything that cannot be read becomes 0, and the
// Status on a Result tells callers whether the value was actually parsed.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Status describes how a raw cell was turned into a number.
type Status uint8

const (
	// Parsed means the cleaned cell was a valid number.
	Parsed Status = iota
	// Blank means nothing was left after cleaning.
	Blank
	// Malformed means something was left but it was not a number.
	Malformed
)

func (s Status) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case Blank:
		return "blank"
	case Malformed:
		return "malformed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Result is a parsed number together with how it was obtained.
type Result struct {
	Value  float64
	Status Status
}

// Defaulted reports whether Value is the 0 fallback rather than a parsed number.
func (r Result) Defaulted() bool { return r.Status != Parsed }

// Clean strips currency symbols, percent signs, thousands separators,
// parentheses and letters, then trims surrounding whitespace.
// Parentheses are removed, not read as a negative sign.
func Clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r == '$' || r == '%' || r == ',' || r == '(' || r == ')':
		case unicode.Is(unicode.Sc, r):
		case unicode.IsLetter(r):
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Parse cleans raw and parses it as a float. It never fails: blank and
// malformed cells yield 0 with the matching Status.
func Parse(raw string) Result {
	s := Clean(raw)
	if s == "" {
		return Result{Status: Blank}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Result{Status: Malformed}
	}
	return Result{Value: v, Status: Parsed}
}

// Optional parses raw like Parse but reports "no value" for blank or malformed cells.
// Score-like columns use it so unreadable entries are dropped instead of counted as 0.
func Optional(raw string) (float64, bool) {
	r := Parse(raw)
	if r.Defaulted() {
		return 0, false
	}
	return r.Value, true
}

// Numeric converts a column of raw values into finite floats of the same length.
// Numeric Go values pass through; everything else is stringified and parsed with
// Parse. nil, blank and unparsable values become 0.
func Numeric(values []any) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = numericValue(v)
	}
	return out
}

func numericValue(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		return Parse(n).Value
	case fmt.Stringer:
		return Parse(n.String()).Value
	default:
		return Parse(fmt.Sprint(n)).Value
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Diagnostics counts how the cells of one column were read.
type Diagnostics struct {
	Total     int `json:"total"`
	Blank     int `json:"blank"`
	Malformed int `json:"malformed"`
}

// Defaulted returns the number of cells that fell back to 0.
func (d Diagnostics) Defaulted() int { return d.Blank + d.Malformed }

// Column parses every raw cell with Parse and returns the values plus counts.
func Column(raws []string) ([]float64, Diagnostics) {
	out := make([]float64, len(raws))
	d := Diagnostics{Total: len(raws)}
	for i, raw := range raws {
		r := Parse(raw)
		out[i] = r.Value
		switch r.Status {
		case Blank:
			d.Blank++
		case Malformed:
			d.Malformed++
		case Parsed:
		}
	}
	return out, d
}

// OptionalColumn parses every raw cell with Optional. Missing values are NaN
// so positions stay aligned with the source rows.
func OptionalColumn(raws []string) ([]float64, Diagnostics) {
	out := make([]float64, len(raws))
	d := Diagnostics{Total: len(raws)}
	for i, raw := range raws {
		r := Parse(raw)
		switch r.Status {
		case Parsed:
			out[i] = r.Value
		case Blank:
			out[i] = math.NaN()
			d.Blank++
		case Malformed:
			out[i] = math.NaN()
			d.Malformed++
		}
	}
	return out, d
}
