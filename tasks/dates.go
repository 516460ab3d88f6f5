package tasks

import (
	"errors"
	"strings"
	"time"
)

// isoLayouts are the ISO-8601 shapes accepted for due dates. Fractional seconds
// are accepted after any seconds field.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var errBadDate = errors.New("not an ISO-8601 date")

// ParseISOTime parses an ISO-8601 date or date-time. Values without an offset
// are taken as UTC. The result is always in UTC.
func ParseISOTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errBadDate
}
