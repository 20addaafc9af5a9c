// Package query builds store-agnostic predicates from request parameters.
// It knows nothing about roles; callers merge scoping predicates before querying.
package query

import (
	"strconv"
	"strings"
	"time"

	"go-school/internal/domain"
	"go-school/internal/shared/daywindow"
)

// storeResolution is the precision of timestamp columns in postgres.
const storeResolution = time.Microsecond

// Params are the raw list-page parameters.
type Params struct {
	Search      string
	StudentID   string
	TeacherID   string
	Status      string
	From        string
	To          string
	ClassID     string
	ClassFilter string
}

// Filter is the structured predicate consumed by the repositories.
// Date bounds are half-open: From <= date < To.
type Filter struct {
	Search    string
	SubjectID string
	Status    domain.Status
	From      *time.Time
	To        *time.Time
	ClassID   *int

	// Scoped marks that SubjectIDs restricts the result; an empty scope matches nothing.
	Scoped     bool
	SubjectIDs []string
}

// Build validates and normalizes params. Dates are interpreted in loc; a date-only
// "to" includes the whole day. An explicit student/teacher id takes precedence over
// the search text. Unknown statuses and non-numeric class ids are ignored.
func Build(p Params, loc *time.Location) (Filter, error) {
	var f Filter

	f.SubjectID = firstNonEmpty(p.StudentID, p.TeacherID)
	if f.SubjectID == "" {
		f.Search = strings.TrimSpace(p.Search)
	}

	if s, ok := domain.ParseStatusFilter(p.Status); ok {
		f.Status = s
	}

	if raw := strings.TrimSpace(p.From); raw != "" {
		from, _, err := daywindow.Parse(raw, loc)
		if err != nil {
			return Filter{}, err
		}
		f.From = &from
	}

	if raw := strings.TrimSpace(p.To); raw != "" {
		to, dateOnly, err := daywindow.Parse(raw, loc)
		if err != nil {
			return Filter{}, err
		}
		if dateOnly {
			to = daywindow.For(to).End
		} else {
			// inclusive bound on an instant. The store keeps microseconds, so the
			// exclusive bound is the next representable instant.
			to = to.Truncate(storeResolution).Add(storeResolution)
		}
		f.To = &to
	}

	if raw := firstNonEmpty(p.ClassID, p.ClassFilter); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			f.ClassID = &id
		}
	}

	return f, nil
}

// RestrictSubjects intersects the filter with a caller-supplied set of subject ids.
func (f Filter) RestrictSubjects(ids []string) Filter {
	if f.Scoped {
		allowed := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			allowed[id] = struct{}{}
		}
		kept := make([]string, 0, len(f.SubjectIDs))
		for _, id := range f.SubjectIDs {
			if _, ok := allowed[id]; ok {
				kept = append(kept, id)
			}
		}
		f.SubjectIDs = kept
		return f
	}
	f.Scoped = true
	f.SubjectIDs = append([]string(nil), ids...)
	return f
}

// Empty reports whether the scope rules out every record.
func (f Filter) Empty() bool {
	return f.Scoped && len(f.SubjectIDs) == 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
