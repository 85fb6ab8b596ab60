// Package timerange resolves a calendar day in a time zone into a half-open
// UTC interval.
package timerange

import (
	"fmt"
	"time"
	_ "time/tzdata" // zone names must resolve on hosts without a zoneinfo database
)

// DateLayout is the accepted calendar date format and the label format.
const DateLayout = "2006-01-02"

// TimeRange is the half-open interval [Start, End) in UTC. Location is the
// zone the day was resolved in and is used for local presentation.
type TimeRange struct {
	Start    time.Time
	End      time.Time
	Location *time.Location
}

// InvalidDateError reports a date string that is not a calendar date.
type InvalidDateError struct {
	Input string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date input %q: %v", e.Input, e.Err)
}

func (e *InvalidDateError) Unwrap() error { return e.Err }

// Resolve returns the local day containing date in timezone tz. An empty
// date means today.
func Resolve(date string, tz string) (TimeRange, error) {
	return ResolveAt(date, tz, time.Now())
}

// ResolveAt is Resolve with an explicit "now".
func ResolveAt(date string, tz string, now time.Time) (TimeRange, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return TimeRange{}, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}

	base := now.In(loc)
	if date != "" {
		base, err = parseDate(date, loc)
		if err != nil {
			return TimeRange{}, &InvalidDateError{Input: date, Err: err}
		}
	}

	y, m, d := base.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	// Next local midnight, so DST days keep their real 23h/25h length.
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc)

	return TimeRange{Start: start.UTC(), End: end.UTC(), Location: loc}, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %s or RFC3339", DateLayout)
	}
	return t.In(loc), nil
}

// Contains reports whether t lies in [Start, End).
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Label is the local calendar date of the range, e.g. 2024-03-20.
func (r TimeRange) Label() string {
	return r.Start.In(r.location()).Format(DateLayout)
}

// Local converts t into the range's zone.
func (r TimeRange) Local(t time.Time) time.Time {
	return t.In(r.location())
}

func (r TimeRange) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}
