// pkg/dateutil/dateutil.go
package dateutil

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// dateFormats are tried in order when parsing upstream date strings. The
// backend normally emits plain calendar dates but older records carry full
// timestamps, and imports have produced slash-separated dates.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2/1/2006",
	"2/1/06 15:04",
}

// ParseDate parses an upstream date string. It never panics; a value that
// cannot be parsed yields ok=false and a single warning log entry.
func ParseDate(input string) (time.Time, bool) {
	s := strings.TrimSpace(input)
	if s == "" || s == "0000-00-00" || s == "0000-00-00 00:00:00" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}

	log.Warn().Str("input", input).Msg("unparsable date, excluding from aggregation")
	return time.Time{}, false
}

// ExtractMonth returns the YYYY-MM bucket for a date string, or ok=false when
// the date cannot be parsed. Callers must skip misses rather than bucket them
// under a sentinel, otherwise sparse trend series look synthetically complete.
func ExtractMonth(input string) (string, bool) {
	t, ok := ParseDate(input)
	if !ok {
		return "", false
	}
	return t.Format("2006-01"), true
}

// ParseAmount coerces a loosely typed upstream amount (JSON number or numeric
// string) into a float64. NaN-producing and non-numeric inputs yield ok=false.
func ParseAmount(input any) (float64, bool) {
	switch v := input.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case float32:
		return ParseAmount(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		// ParseFloat accepts "NaN" and "Inf"; neither survives a sum or a
		// JSON marshal, so they are malformed here.
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case nil:
		return 0, false
	default:
		return 0, false
	}
}
