package dateutil

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date formats t as a calendar date in loc.
func Date(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date as the midnight of that day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}

	return t, nil
}

func BeginningOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DateRange converts the inclusive local date range [start, end] into the
// equivalent half-open UTC range [from, to).
func DateRange(start, end string, loc *time.Location) (time.Time, time.Time, error) {
	from, err := ParseDate(start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	last, err := ParseDate(end, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if last.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}

	return from.UTC(), last.AddDate(0, 0, 1).UTC(), nil
}

// NextDailyAt returns the first moment strictly after now whose wall clock in
// loc is hour:minute.
func NextDailyAt(now time.Time, loc *time.Location, hour, minute int) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}
