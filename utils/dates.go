package utils

import "time"

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// NormalizeDate discards the time-of-day portion and pins the date to UTC.
// Every calendar comparison in the system goes through this so that day
// boundaries don't shift with the client's timezone.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is a half-open [Start, End) span of calendar days: check-in is
// included, check-out day is free for the next arrival.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes both endpoints to UTC date-only.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: NormalizeDate(start), End: NormalizeDate(end)}
}

// IsValid reports whether the range covers at least one night.
func (r DateRange) IsValid() bool {
	return r.Start.Before(r.End)
}

// Nights is the number of nights covered by the range.
func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Overlaps is the single conflict-detection predicate shared by booking
// validation, block-period checks and grid rendering.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether the given day falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	day = NormalizeDate(day)
	return !day.Before(r.Start) && day.Before(r.End)
}

// EachDay calls fn for every day in [Start, End).
func (r DateRange) EachDay(fn func(day time.Time)) {
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// EachDayInclusive calls fn for every day in [Start, End], used by the grid
// view where the end date is part of the requested window.
func (r DateRange) EachDayInclusive(fn func(day time.Time)) {
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}
