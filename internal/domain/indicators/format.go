package indicators

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/execdash/internal/domain/scoring"
)

// FormatCurrency renders v as whole dollars with thousands separators, e.g. "$1,234,568".
// Nil and non-finite values render as "N/A".
func FormatCurrency(v any) string {
	f, ok := asFloat(v)
	if !ok {
		return scoring.NA
	}
	return "$" + groupThousands(f, 0)
}

// FormatPercentage renders v with the given decimals and a "%" suffix.
func FormatPercentage(v any, decimals int) string {
	f, ok := asFloat(v)
	if !ok {
		return scoring.NA
	}
	return strconv.FormatFloat(f, 'f', decimals, 64) + "%"
}

// FormatNumber renders v with thousands separators and the given decimals.
func FormatNumber(v any, decimals int) string {
	f, ok := asFloat(v)
	if !ok {
		return scoring.NA
	}
	return groupThousands(f, decimals)
}

func asFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func groupThousands(f float64, decimals int) string {
	s := strconv.FormatFloat(math.Abs(f), 'f', decimals, 64)
	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}
	var b strings.Builder
	if f < 0 && strings.Trim(s, "0.") != "" {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// FormatValue renders an arbitrary KPI value for text output.
func FormatValue(v any) string {
	switch n := v.(type) {
	case float64:
		return FormatNumber(n, 2)
	case int:
		return FormatNumber(n, 0)
	case string:
		return n
	case bool:
		return strconv.FormatBool(n)
	default:
		return fmt.Sprint(n)
	}
}
