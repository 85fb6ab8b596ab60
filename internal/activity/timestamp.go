package activity

import (
	"strings"
	"time"

	"jira-digest/internal/jira"
)

// isoLayouts are tried first. Fractional seconds are accepted by time.Parse
// even when the layout omits them. Values without an offset are UTC.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700", // Jira: 2024-03-20T09:00:00.000+0700
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// looseLayouts are the generic date formats tried when ISO-8601 fails.
var looseLayouts = []string{
	"2006-01-02 15:04:05-0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
}

// ParseTimestamp converts a Jira timestamp to UTC. ok is false when no
// layout matches; callers drop the value rather than guess.
func ParseTimestamp(value string) (t time.Time, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := jira.ParseTime(value); err == nil {
		return t.UTC(), true
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	for _, layout := range looseLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
