package daywindow

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

var zonedLayouts = []string{time.RFC3339Nano, time.RFC3339}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Parse reads an ISO date or date-time. Values carrying an offset are converted to loc;
// values without one are interpreted in loc. dateOnly reports a bare YYYY-MM-DD input.
func Parse(raw string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, ErrInvalidDate
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc), false, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, false, nil
		}
	}
	if t, err := time.ParseInLocation(dayLayout, raw, loc); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, ErrInvalidDate
}
