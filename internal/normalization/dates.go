package normalization

import (
	"fmt"
	"time"
)

// Date layouts accepted from upstream feeds, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDate parses an ISO-8601 date or timestamp into UTC.
// Returns ErrInvalidInput (wrapped with the offending value) on failure.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparsable date %q", ErrInvalidInput, s)
}
