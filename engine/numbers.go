package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ============================================================================
// NUMERIC COERCION — two deliberate policies
// ============================================================================
// The pipeline carries TWO numeric-coercion policies on purpose:
//
//   CoerceNumber — malformed input resolves to 0. Used by the combo/
//                  scatter metric path and top/bottom-N sorting, where a
//                  hole in a series must still occupy its slot.
//   ParseNumber  — malformed input is reported and the caller DROPS the
//                  value from the aggregate. Used by the heatmap value
//                  path, where a zero would skew cell averages.
//
// The divergence is inherited source behavior; call sites pick explicitly.
// Both accept currency-prefixed/suffixed strings: € $ £ ¥ % , whitespace.
// ============================================================================

var numericCleaner = strings.NewReplacer(
	"€", "", "$", "", "£", "", "¥", "",
	"%", "", ",", "", " ", "", "\t", "",
)

// ParseNumber parses a cell as a number after stripping currency symbols,
// thousands separators, whitespace and percent signs. The second return
// is false when the cell cannot be read as a number.
func ParseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		cleaned := numericCleaner.Replace(strings.TrimSpace(n))
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// CoerceNumber parses like ParseNumber but resolves malformed input to 0.
func CoerceNumber(v any) float64 {
	f, _ := ParseNumber(v)
	return f
}

// FormatValue renders a cell for labels and composite keys.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
