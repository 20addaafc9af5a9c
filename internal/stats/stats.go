// Package stats turns attendance marks into dashboard statistics.
package stats

import (
	"fmt"
	"math"
	"time"

	"go-school/internal/domain"
	"go-school/internal/shared/daywindow"
)

// Mark is the projection of an attendance record the aggregations need.
type Mark struct {
	Date   time.Time
	Status domain.Status
}

type Summary struct {
	Total        int     `json:"total"`
	Present      int     `json:"present"`
	Absent       int     `json:"absent"`
	Compensation *int    `json:"compensation,omitempty"`
	Effective    int     `json:"effective"`
	Percentage   float64 `json:"percentage"`
}

// Summarize counts marks by status. withCompensation is false for subjects that have
// no compensation concept (teachers); their Compensation stays nil.
func Summarize(marks []Mark, withCompensation bool) Summary {
	var present, absent, compensation int
	for _, m := range marks {
		switch m.Status {
		case domain.StatusPresent:
			present++
		case domain.StatusAbsent:
			absent++
		case domain.StatusCompensation:
			compensation++
		}
	}

	s := Summary{
		Total:   len(marks),
		Present: present,
		Absent:  absent,
	}
	if withCompensation {
		s.Compensation = &compensation
		s.Effective = present + compensation
	} else {
		s.Effective = present
	}
	s.Percentage = Percentage(s.Effective, s.Total)
	return s
}

// Percentage returns part/total*100 rounded to one decimal, and 0 for an empty total.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

// Display renders the percentage for text output; an empty set renders as "-".
func (s Summary) Display() string {
	if s.Total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", s.Percentage)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

type BucketMode string

const (
	BucketWeekday   BucketMode = "weekday"
	BucketLast7Days BucketMode = "last7days"
)

func ParseBucketMode(raw string) BucketMode {
	if BucketMode(raw) == BucketLast7Days {
		return BucketLast7Days
	}
	return BucketWeekday
}

type Bucket struct {
	Label   string `json:"label"`
	Date    string `json:"date,omitempty"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// WeeklySeries always returns 7 chronological buckets.
//
// BucketWeekday groups marks with windowStart <= date < windowEnd by weekday, Mon..Sun.
// BucketLast7Days anchors on the day containing windowEnd and covers the six days
// before it plus that day; windowStart is not used.
// Attended marks (PRESENT, COMPENSATION) count as present.
func WeeklySeries(marks []Mark, windowStart, windowEnd time.Time, mode BucketMode) []Bucket {
	if mode == BucketLast7Days {
		return last7Days(marks, windowEnd)
	}
	return byWeekday(marks, windowStart, windowEnd)
}

func byWeekday(marks []Mark, windowStart, windowEnd time.Time) []Bucket {
	buckets := make([]Bucket, len(weekdayOrder))
	index := make(map[time.Weekday]int, len(weekdayOrder))
	for i, wd := range weekdayOrder {
		buckets[i] = Bucket{Label: wd.String()[:3]}
		index[wd] = i
	}

	for _, m := range marks {
		if m.Date.Before(windowStart) || !m.Date.Before(windowEnd) {
			continue
		}
		count(&buckets[index[m.Date.Weekday()]], m.Status)
	}
	return buckets
}

func last7Days(marks []Mark, anchor time.Time) []Bucket {
	today := daywindow.StartOfDay(anchor)
	loc := today.Location()

	buckets := make([]Bucket, 7)
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		day := daywindow.AddDays(today, i-6)
		key := day.Format("2006-01-02")
		buckets[i] = Bucket{Label: day.Weekday().String()[:3], Date: key}
		index[key] = i
	}

	for _, m := range marks {
		key := m.Date.In(loc).Format("2006-01-02")
		if i, ok := index[key]; ok {
			count(&buckets[i], m.Status)
		}
	}
	return buckets
}

func count(b *Bucket, s domain.Status) {
	if s.Attended() {
		b.Present++
		return
	}
	b.Absent++
}

// Series is a weekly series together with the days it covers.
type Series struct {
	Mode    BucketMode
	From    time.Time
	Last    time.Time
	Buckets []Bucket
}

// WeeklyFor resolves the range of a weekly series and builds it. Weekday mode
// covers the Monday..Sunday week containing now. A lone from starts a seven day
// window; a lone to ends the week containing its last instant;
// last7days ends with today, or with the "to" day when that is earlier.
// to is an exclusive bound.
func WeeklyFor(marks []Mark, now time.Time, from, to *time.Time, mode BucketMode) Series {
	today := daywindow.For(now)

	if mode == BucketLast7Days {
		end := today.End
		if to != nil && to.Before(end) {
			end = daywindow.For(to.Add(-time.Nanosecond)).End
		}
		last := end.Add(-time.Nanosecond)
		return Series{
			Mode:    mode,
			From:    daywindow.AddDays(end, -7),
			Last:    last,
			Buckets: WeeklySeries(marks, time.Time{}, last, mode),
		}
	}

	var start, end time.Time
	switch {
	case from != nil && to != nil:
		start, end = *from, *to
	case from != nil:
		start = *from
		end = daywindow.AddDays(start, 7)
	case to != nil:
		start = mondayOf(to.Add(-time.Nanosecond))
		end = *to
	default:
		start = mondayOf(today.Start)
		end = daywindow.AddDays(start, 7)
	}
	return Series{
		Mode:    BucketWeekday,
		From:    start,
		Last:    end.Add(-time.Nanosecond),
		Buckets: WeeklySeries(marks, start, end, BucketWeekday),
	}
}

func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return daywindow.AddDays(daywindow.StartOfDay(t), -offset)
}
