package policy

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// unix values at or above this magnitude are treated as milliseconds. This is
// a documented heuristic with an ambiguous boundary for far-future dates, not
// a general-purpose timestamp parser.
const millisThreshold = 1e12

// ParseTimestamp accepts an RFC3339 string or a unix numeric value
// (seconds or milliseconds, disambiguated by magnitude).
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if numeric, err := strconv.ParseFloat(raw, 64); err == nil {
		if numeric < 0 {
			return time.Time{}, fmt.Errorf("negative timestamp: %s", raw)
		}
		if numeric >= millisThreshold {
			return time.UnixMilli(int64(numeric)).UTC(), nil
		}
		return time.Unix(int64(numeric), 0).UTC(), nil
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return parsed.UTC(), nil
}
