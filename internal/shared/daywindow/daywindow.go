// Package daywindow computes the half-open calendar-day interval used to match
// attendance records regardless of their time of day.
package daywindow

import "time"

const dayLayout = "2006-01-02"

// Window is the half-open interval [Start, End) covering one calendar day.
type Window struct {
	Start time.Time
	End   time.Time
}

// For returns the window of the calendar day containing t, in t's location.
// End is computed by incrementing the day field so DST transitions do not skew it.
func For(t time.Time) Window {
	y, m, d := t.Date()
	loc := t.Location()
	return Window{
		Start: time.Date(y, m, d, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d+1, 0, 0, 0, 0, loc),
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return For(t).Start
}

// AddDays moves a day start by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Day formats the window's calendar day as YYYY-MM-DD.
func (w Window) Day() string {
	return w.Start.Format(dayLayout)
}
