package analytics

import "time"

const isoDate = "2006-01-02"

// DateRange selects the calendar days an analysis covers. A nil To means
// "through now". Days are evaluated in From's location.
type DateRange struct {
	From time.Time
	To   *time.Time
}

// window is a resolved DateRange: [start, end] with both bounds inclusive.
type window struct {
	start time.Time
	end   time.Time
	loc   *time.Location
}

func (r DateRange) resolve(now time.Time) window {
	loc := r.From.Location()
	to := now
	if r.To != nil {
		to = *r.To
	}
	return window{
		start: startOfDay(r.From, loc),
		end:   endOfDay(to, loc),
		loc:   loc,
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func endOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.start) && !t.After(w.end)
}

// days is the number of calendar days in the window, or 0 when end precedes start.
func (w window) days() int {
	if w.end.Before(w.start) {
		return 0
	}
	return int(civilDay(w.end).Sub(civilDay(w.start))/(24*time.Hour)) + 1
}

// civilDay maps t's calendar date onto UTC midnight so day arithmetic is not
// skewed by DST transitions.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// day returns the single-day window offset days after the window start.
func (w window) day(offset int) window {
	start := w.start.AddDate(0, 0, offset)
	return window{start: start, end: endOfDay(start, w.loc), loc: w.loc}
}
