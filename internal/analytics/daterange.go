package analytics

import (
	"fmt"
	"strings"
	"time"
)

// DateRange is a named window ending today. A zero WindowDays means the
// range is unbounded and starts at the Unix epoch.
type DateRange struct {
	Key        string
	Label      string
	WindowDays int
}

// Range presets.
var (
	RangeWeek        = DateRange{Key: "7D", Label: "Last 7 Days", WindowDays: 7}
	RangeMonth       = DateRange{Key: "1M", Label: "Last 1 Month", WindowDays: 30}
	RangeQuarter     = DateRange{Key: "3M", Label: "Last 3 Months", WindowDays: 90}
	RangeHalfYear    = DateRange{Key: "6M", Label: "Last 6 Months", WindowDays: 180}
	RangeAllTime     = DateRange{Key: "ALL", Label: "All Time"}
	DefaultRange     = RangeMonth
	DateRangePresets = []DateRange{RangeWeek, RangeMonth, RangeQuarter, RangeHalfYear, RangeAllTime}
)

// LookupDateRange finds a preset by key, case-insensitively.
func LookupDateRange(key string) (DateRange, error) {
	for _, r := range DateRangePresets {
		if strings.EqualFold(r.Key, strings.TrimSpace(key)) {
			return r, nil
		}
	}

	keys := make([]string, len(DateRangePresets))
	for i, r := range DateRangePresets {
		keys[i] = r.Key
	}
	return DateRange{}, fmt.Errorf("unknown date range %q: must be one of %s", key, strings.Join(keys, ", "))
}

// Unbounded reports whether the range reaches back to the epoch.
func (r DateRange) Unbounded() bool {
	return r.WindowDays <= 0
}

// Period is a resolved, inclusive [Start, End] interval.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the period, both ends inclusive.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Resolve turns the range into a concrete period ending at the end of
// now's day, in now's location. An unbounded range starts at local midnight
// of the epoch's day, which is 1969-12-31 west of UTC.
func (r DateRange) Resolve(now time.Time) Period {
	end := EndOfDay(now)
	if r.Unbounded() {
		return Period{Start: StartOfDay(time.Unix(0, 0).In(now.Location())), End: end}
	}
	return Period{Start: StartOfDay(now.AddDate(0, 0, -r.WindowDays)), End: end}
}

// CurrentMonth returns the calendar month containing now, up to the end of
// now's day.
func CurrentMonth(now time.Time) Period {
	return Period{
		Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		End:   EndOfDay(now),
	}
}

// StartOfDay returns midnight at the start of t's day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
