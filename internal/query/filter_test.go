package query_test

import (
	"testing"
	"time"

	"go-school/internal/domain"
	"go-school/internal/query"
	"go-school/internal/shared/daywindow"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	loc := time.UTC

	t.Run("empty params", func(t *testing.T) {
		f, err := query.Build(query.Params{}, loc)
		assert.NoError(t, err)
		assert.Equal(t, query.Filter{}, f)
	})

	t.Run("subject id takes precedence over search", func(t *testing.T) {
		f, err := query.Build(query.Params{Search: "ann", StudentID: "s1"}, loc)
		assert.NoError(t, err)
		assert.Equal(t, "s1", f.SubjectID)
		assert.Empty(t, f.Search)

		f, err = query.Build(query.Params{Search: " ann ", TeacherID: ""}, loc)
		assert.NoError(t, err)
		assert.Equal(t, "ann", f.Search)
	})

	t.Run("status normalized or ignored", func(t *testing.T) {
		f, _ := query.Build(query.Params{Status: "compensation"}, loc)
		assert.Equal(t, domain.StatusCompensation, f.Status)

		f, _ = query.Build(query.Params{Status: "late"}, loc)
		assert.Equal(t, domain.Status(""), f.Status)
	})

	t.Run("date range inclusive", func(t *testing.T) {
		f, err := query.Build(query.Params{From: "2025-09-01", To: "2025-09-12"}, loc)
		assert.NoError(t, err)
		assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, loc), *f.From)
		assert.Equal(t, time.Date(2025, 9, 13, 0, 0, 0, 0, loc), *f.To)
	})

	t.Run("bounds independently optional", func(t *testing.T) {
		f, err := query.Build(query.Params{To: "2025-09-12T10:00:00Z"}, loc)
		assert.NoError(t, err)
		assert.Nil(t, f.From)
		assert.Equal(t, time.Date(2025, 9, 12, 10, 0, 0, 1000, loc), *f.To)
	})

	t.Run("instant to keeps a record stored at that instant", func(t *testing.T) {
		f, err := query.Build(query.Params{To: "2025-09-12T10:00:00.123456789Z"}, loc)
		assert.NoError(t, err)

		// values reach postgres truncated to microseconds
		stored := time.Date(2025, 9, 12, 10, 0, 0, 123456000, loc)
		bound := f.To.Truncate(time.Microsecond)
		assert.True(t, stored.Before(bound))
		assert.Equal(t, time.Date(2025, 9, 12, 10, 0, 0, 123457000, loc), bound)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := query.Build(query.Params{From: "yesterday"}, loc)
		assert.ErrorIs(t, err, daywindow.ErrInvalidDate)
	})

	t.Run("class filter alias", func(t *testing.T) {
		f, _ := query.Build(query.Params{ClassFilter: "4"}, loc)
		assert.Equal(t, 4, *f.ClassID)

		f, _ = query.Build(query.Params{ClassID: "x"}, loc)
		assert.Nil(t, f.ClassID)
	})
}

func TestRestrictSubjects(t *testing.T) {
	f := query.Filter{}.RestrictSubjects([]string{"a", "b"})
	assert.True(t, f.Scoped)
	assert.ElementsMatch(t, []string{"a", "b"}, f.SubjectIDs)
	assert.False(t, f.Empty())

	f = f.RestrictSubjects([]string{"b", "c"})
	assert.Equal(t, []string{"b"}, f.SubjectIDs)

	f = query.Filter{}.RestrictSubjects(nil)
	assert.True(t, f.Empty())
}
