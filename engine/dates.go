package engine

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ============================================================================
// DATE DETECTION + PARSING + BUCKETING
// ============================================================================
// Column date detection is deliberately STRICT to avoid false positives on
// numeric IDs. A value counts as a date only when:
//   1. it is already a time.Time, or
//   2. it matches a strict textual pattern (YYYY-MM-DD..., MM/DD/YYYY,
//      YYYY/MM/DD), or
//   3. a generic layout parses it AND the year lands in [1900, 2100] AND
//      the text contains a date-like separator (- / : T).
// ============================================================================

var strictDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),     // YYYY-MM-DD with optional time suffix
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),    // MM/DD/YYYY
	regexp.MustCompile(`^\d{4}/\d{2}/\d{2}$`),    // YYYY/MM/DD
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan-2006",
}

// ParseDate coerces a cell to a time.Time under the strict rule.
func ParseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		return parseDateString(t)
	}
	return time.Time{}, false
}

func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	strict := false
	for _, re := range strictDatePatterns {
		if re.MatchString(s) {
			strict = true
			break
		}
	}

	if !strict && !strings.ContainsAny(s, "-/:T") {
		// Bare numbers like "20240101" or "1234" are not dates here.
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if strict {
			return t, true
		}
		if y := t.Year(); y >= 1900 && y <= 2100 {
			return t, true
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}

// IsDateValue reports whether a cell passes the strict date rule.
func IsDateValue(v any) bool {
	_, ok := ParseDate(v)
	return ok
}

// dateSampleSize caps how many non-null cells column detection inspects.
const dateSampleSize = 25

// DetectDateColumn returns the first column whose sampled values are
// dates under the strict rule. Empty string means no date column.
func DetectDateColumn(columns []string, rows []Row) string {
	for _, col := range columns {
		if IsDateColumn(rows, col) {
			return col
		}
	}
	return ""
}

// IsDateColumn samples up to dateSampleSize non-null cells of one column
// and requires at least 80% of them to parse as dates.
func IsDateColumn(rows []Row, column string) bool {
	sampled, dates := 0, 0
	for _, row := range rows {
		v, ok := row[column]
		if !ok || v == nil {
			continue
		}
		sampled++
		if IsDateValue(v) {
			dates++
		}
		if sampled >= dateSampleSize {
			break
		}
	}
	if sampled == 0 {
		return false
	}
	return float64(dates)/float64(sampled) >= 0.8
}

// ============================================================================
// DAY-GRANULARITY COMPARISON
// ============================================================================

// truncateToDay strips the time-of-day component.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// withinWindow checks inclusive day-granularity bounds.
func withinWindow(t time.Time, w DateWindow) bool {
	day := truncateToDay(t)
	if w.From != nil && day.Before(truncateToDay(*w.From)) {
		return false
	}
	if w.To != nil && day.After(truncateToDay(*w.To)) {
		return false
	}
	return true
}

// ============================================================================
// GRANULARITY BUCKETING
// ============================================================================

// BucketDate collapses a date to the start of its granularity bucket.
// Weeks start on Sunday.
func BucketDate(t time.Time, g Granularity) time.Time {
	day := truncateToDay(t)
	switch g {
	case GranularityWeek:
		return day.AddDate(0, 0, -int(day.Weekday()))
	case GranularityMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	case GranularityQuarter:
		q := (int(day.Month()) - 1) / 3
		return time.Date(day.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, day.Location())
	case GranularityYear:
		return time.Date(day.Year(), 1, 1, 0, 0, 0, 0, day.Location())
	default:
		return day
	}
}

// BucketLabel formats a bucket start for display and grouping.
func BucketLabel(t time.Time, g Granularity) string {
	switch g {
	case GranularityMonth:
		return t.Format("2006-01")
	case GranularityQuarter:
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case GranularityYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}
