package attendance_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-school/internal/attendance"
	attendanceerrors "go-school/internal/attendance/errors"
	attendanceMock "go-school/internal/attendance/mock"
	"go-school/internal/domain"
	"go-school/internal/query"
	"go-school/internal/rbac"
	"go-school/internal/rbac/infra"
	"go-school/internal/shared/apperror"
	"go-school/internal/shared/daywindow"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

var (
	fixedNow = time.Date(2025, 9, 12, 10, 0, 0, 0, time.UTC) // Friday
	teacher  = domain.Principal{ID: "teacher-1", Role: domain.RoleTeacher}
	admin    = domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}
)

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *attendanceMock.MockRepository
	roster  *attendanceMock.MockRoster
	service attendance.Service
}

func newGate(t *testing.T) rbac.Service {
	t.Helper()
	e, err := infra.NewEnforcer()
	require.NoError(t, err)
	gate, err := rbac.NewService(e, rbac.DefaultPolicy())
	require.NoError(t, err)
	return gate
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := attendanceMock.NewMockRepository(ctrl)
	roster := attendanceMock.NewMockRoster(ctrl)

	svc := attendance.NewService(db, repo, newGate(t), roster, time.UTC,
		attendance.WithClock(func() time.Time { return fixedNow }))

	return &serviceDeps{db: db, sqlMock: sqlMock, repo: repo, roster: roster, service: svc}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func strPtr(s string) *string { return &s }

func assertStatus(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	httpErr := apperror.ToHTTP(err)
	assert.Equal(t, status, httpErr.Status)
	if message != "" {
		assert.Equal(t, message, httpErr.Message)
	}
}

func TestAttendanceService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("success - created", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := attendance.RecordAttendanceRequest{
			StudentID: "student-1",
			LessonID:  float64(3),
			Status:    "present",
			Date:      strPtr("2025-09-12T08:30:00Z"),
		}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().LockKey(ctx, "attendance:student-1:3:2025-09-12").Return(nil)
		deps.repo.EXPECT().
			FindForDay(ctx, "student-1", 3, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ int, w daywindow.Window) (*attendance.Attendance, error) {
				assert.True(t, w.Start.Equal(time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC)))
				assert.True(t, w.End.Equal(time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC)))
				return nil, gorm.ErrRecordNotFound
			})
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, a *attendance.Attendance) error {
				assert.Equal(t, "student-1", a.StudentID)
				assert.Equal(t, 3, a.LessonID)
				require.NotNil(t, a.Status)
				assert.Equal(t, "PRESENT", *a.Status)
				assert.True(t, a.Present)
				a.ID = uuid.New()
				return nil
			})

		res, err := deps.service.Record(ctx, teacher, req)
		require.NoError(t, err)
		assert.Equal(t, attendance.ActionCreated, res.Action)
		assert.Equal(t, "PRESENT", res.Data.Status)
		assert.Equal(t, "2025-09-12", res.Data.Day)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success - updated in place", func(t *testing.T) {
		deps := setupServiceTest(t)
		existingID := uuid.New()
		existing := &attendance.Attendance{
			ID:        existingID,
			StudentID: "student-1",
			LessonID:  3,
			Date:      time.Date(2025, 9, 12, 7, 0, 0, 0, time.UTC),
			Status:    strPtr("ABSENT"),
			Present:   false,
		}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().LockKey(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().FindForDay(ctx, "student-1", 3, gomock.Any()).Return(existing, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, a *attendance.Attendance) error {
				assert.Equal(t, existingID, a.ID)
				assert.Equal(t, "COMPENSATION", *a.Status)
				assert.True(t, a.Present)
				assert.True(t, a.Date.Equal(time.Date(2025, 9, 12, 9, 15, 0, 0, time.UTC)))
				return nil
			})

		res, err := deps.service.Record(ctx, admin, attendance.RecordAttendanceRequest{
			StudentID: "student-1",
			LessonID:  "3",
			Status:    "Compensation",
			Date:      strPtr("2025-09-12T09:15:00Z"),
		})
		require.NoError(t, err)
		assert.Equal(t, attendance.ActionUpdated, res.Action)
		assert.Equal(t, existingID.String(), res.Data.ID)
		assert.Equal(t, "COMPENSATION", res.Data.Status)
	})

	t.Run("date defaults to now", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().LockKey(ctx, "attendance:student-1:1:2025-09-12").Return(nil)
		deps.repo.EXPECT().FindForDay(ctx, "student-1", 1, daywindow.For(fixedNow)).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, a *attendance.Attendance) error {
				assert.True(t, a.Date.Equal(fixedNow))
				assert.False(t, a.Present)
				return nil
			})

		res, err := deps.service.Record(ctx, teacher, attendance.RecordAttendanceRequest{
			StudentID: "student-1",
			LessonID:  float64(1),
			Status:    "ABSENT",
		})
		require.NoError(t, err)
		assert.Equal(t, attendance.ActionCreated, res.Action)
		assert.False(t, res.Data.Present)
	})

	t.Run("store failure is internal with message", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().LockKey(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().FindForDay(ctx, "student-1", 1, gomock.Any()).Return(nil, errors.New("connection reset"))

		_, err := deps.service.Record(ctx, teacher, attendance.RecordAttendanceRequest{
			StudentID: "student-1", LessonID: float64(1), Status: "PRESENT",
		})
		assertStatus(t, err, http.StatusInternalServerError, "connection reset")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unique violation becomes conflict", func(t *testing.T) {
		deps := setupServiceTest(t)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().LockKey(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().FindForDay(ctx, "student-1", 1, gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "uq_attendances_student_lesson_day",
		})

		_, err := deps.service.Record(ctx, teacher, attendance.RecordAttendanceRequest{
			StudentID: "student-1", LessonID: float64(1), Status: "PRESENT",
		})
		assert.ErrorIs(t, err, attendanceerrors.ErrAttendanceConflict)
	})
}

func TestAttendanceService_Record_Authorization(t *testing.T) {
	ctx := context.Background()
	valid := attendance.RecordAttendanceRequest{StudentID: "s1", LessonID: float64(1), Status: "PRESENT"}

	tests := []struct {
		name   string
		p      domain.Principal
		req    attendance.RecordAttendanceRequest
		status int
		msg    string
	}{
		{"no principal", domain.Principal{Role: domain.RoleNone}, valid, http.StatusUnauthorized, "Unauthorized"},
		{"student", domain.Principal{ID: "s1", Role: domain.RoleStudent}, valid, http.StatusForbidden, "Forbidden"},
		{"parent", domain.Principal{ID: "p1", Role: domain.RoleParent}, valid, http.StatusForbidden, "Forbidden"},
		{"norole", domain.Principal{ID: "x", Role: domain.RoleNone}, valid, http.StatusForbidden, "Forbidden"},
		{"student with invalid body is still forbidden", domain.Principal{ID: "s1", Role: domain.RoleStudent},
			attendance.RecordAttendanceRequest{}, http.StatusForbidden, "Forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := setupServiceTest(t)
			_, err := deps.service.Record(ctx, tt.p, tt.req)
			assertStatus(t, err, tt.status, tt.msg)
			assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		})
	}
}

func TestAttendanceService_Record_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		req  attendance.RecordAttendanceRequest
		want error
	}{
		{"only studentId", attendance.RecordAttendanceRequest{StudentID: "s1"}, attendanceerrors.ErrMissingFields},
		{"blank studentId", attendance.RecordAttendanceRequest{StudentID: "  ", LessonID: float64(1), Status: "PRESENT"}, attendanceerrors.ErrMissingFields},
		{"empty lessonId string", attendance.RecordAttendanceRequest{StudentID: "s1", LessonID: "", Status: "PRESENT"}, attendanceerrors.ErrMissingFields},
		{"missing status", attendance.RecordAttendanceRequest{StudentID: "s1", LessonID: float64(1)}, attendanceerrors.ErrMissingFields},
		{"non-numeric lessonId", attendance.RecordAttendanceRequest{StudentID: "s1", LessonID: "abc", Status: "PRESENT"}, attendanceerrors.ErrInvalidLessonID},
		{"fractional lessonId", attendance.RecordAttendanceRequest{StudentID: "s1", LessonID: float64(1.5), Status: "PRESENT"}, attendanceerrors.ErrInvalidLessonID},
		{"boolean lessonId", attendance.RecordAttendanceRequest{StudentID: "s1", LessonID: true, Status: "PRESENT"}, attendanceerrors.ErrInvalidLessonID},
		{"bogus status", attendance.RecordAttendanceRequest{StudentID: "s1", LessonID: float64(1), Status: "bogus"}, attendanceerrors.ErrInvalidStatus},
		{"invalid date", attendance.RecordAttendanceRequest{StudentID: "s1", LessonID: float64(1), Status: "PRESENT", Date: strPtr("not-a-date")}, attendanceerrors.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := setupServiceTest(t)
			_, err := deps.service.Record(ctx, teacher, tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, http.StatusBadRequest, apperror.ToHTTP(err).Status)
		})
	}

	t.Run("status message lists members", func(t *testing.T) {
		assert.Equal(t, "invalid status, must be one of PRESENT, ABSENT, COMPENSATION", attendanceerrors.ErrInvalidStatus.Message)
	})
}

func TestAttendanceService_Record_CaseInsensitiveStatus(t *testing.T) {
	ctx := context.Background()

	for _, raw := range []string{"present", "Present", "PRESENT", " present "} {
		t.Run(raw, func(t *testing.T) {
			deps := setupServiceTest(t)

			expectTx(t, deps.sqlMock, true)
			deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
			deps.repo.EXPECT().LockKey(ctx, gomock.Any()).Return(nil)
			deps.repo.EXPECT().FindForDay(ctx, "s1", 1, gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
			deps.repo.EXPECT().
				Create(ctx, gomock.Any()).
				DoAndReturn(func(_ context.Context, a *attendance.Attendance) error {
					assert.Equal(t, "PRESENT", *a.Status)
					return nil
				})

			_, err := deps.service.Record(ctx, teacher, attendance.RecordAttendanceRequest{
				StudentID: "s1", LessonID: float64(1), Status: raw,
			})
			assert.NoError(t, err)
		})
	}
}

func TestAttendanceService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("teacher sees unscoped filter", func(t *testing.T) {
		deps := setupServiceTest(t)
		rows := []attendance.Attendance{
			{ID: uuid.New(), StudentID: "s1", LessonID: 1, Date: fixedNow, Present: true},
		}

		deps.repo.EXPECT().
			List(ctx, gomock.Any(), 20, 20).
			DoAndReturn(func(_ context.Context, f query.Filter, _, _ int) ([]attendance.Attendance, int64, error) {
				assert.False(t, f.Scoped)
				assert.Equal(t, domain.StatusPresent, f.Status)
				return rows, 21, nil
			})

		resp, total, err := deps.service.List(ctx, teacher, attendance.ListQuery{Status: "present", Page: 2, PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(21), total)
		require.Len(t, resp, 1)
		// legacy row without status reconciles from the boolean
		assert.Equal(t, "PRESENT", resp[0].Status)
	})

	t.Run("student is scoped to self", func(t *testing.T) {
		deps := setupServiceTest(t)
		student := domain.Principal{ID: "s9", Role: domain.RoleStudent}

		deps.repo.EXPECT().
			List(ctx, gomock.Any(), 10, 0).
			DoAndReturn(func(_ context.Context, f query.Filter, _, _ int) ([]attendance.Attendance, int64, error) {
				assert.True(t, f.Scoped)
				assert.Equal(t, []string{"s9"}, f.SubjectIDs)
				return nil, 0, nil
			})

		_, _, err := deps.service.List(ctx, student, attendance.ListQuery{})
		assert.NoError(t, err)
	})

	t.Run("parent is scoped to children", func(t *testing.T) {
		deps := setupServiceTest(t)
		parent := domain.Principal{ID: "p1", Role: domain.RoleParent}

		deps.roster.EXPECT().ChildrenOf(ctx, "p1").Return([]string{"s1", "s2"}, nil)
		deps.repo.EXPECT().
			List(ctx, gomock.Any(), 10, 0).
			DoAndReturn(func(_ context.Context, f query.Filter, _, _ int) ([]attendance.Attendance, int64, error) {
				assert.Equal(t, []string{"s1", "s2"}, f.SubjectIDs)
				return nil, 0, nil
			})

		_, _, err := deps.service.List(ctx, parent, attendance.ListQuery{})
		assert.NoError(t, err)
	})

	t.Run("parent without children reads nothing", func(t *testing.T) {
		deps := setupServiceTest(t)
		parent := domain.Principal{ID: "p2", Role: domain.RoleParent}

		deps.roster.EXPECT().ChildrenOf(ctx, "p2").Return([]string{}, nil)

		resp, total, err := deps.service.List(ctx, parent, attendance.ListQuery{})
		assert.NoError(t, err)
		assert.Empty(t, resp)
		assert.Zero(t, total)
	})

	t.Run("invalid from date", func(t *testing.T) {
		deps := setupServiceTest(t)

		_, _, err := deps.service.List(ctx, admin, attendance.ListQuery{From: "yesterday"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidDate)
	})

	t.Run("store failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().List(ctx, gomock.Any(), 10, 0).Return(nil, int64(0), errors.New("timeout"))

		_, _, err := deps.service.List(ctx, admin, attendance.ListQuery{})
		assertStatus(t, err, http.StatusInternalServerError, "timeout")
	})
}

func mark(day int, status string) attendance.Attendance {
	s := status
	return attendance.Attendance{
		ID:        uuid.New(),
		StudentID: "s1",
		LessonID:  1,
		Date:      time.Date(2025, 9, day, 8, 0, 0, 0, time.UTC),
		Status:    &s,
		Present:   status != "ABSENT",
	}
}

func TestAttendanceService_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("percentage and weekday buckets", func(t *testing.T) {
		deps := setupServiceTest(t)

		var rows []attendance.Attendance
		for i := 0; i < 8; i++ {
			rows = append(rows, mark(8, "PRESENT")) // Monday
		}
		rows = append(rows, mark(9, "ABSENT"), mark(10, "COMPENSATION"))

		deps.repo.EXPECT().FindAll(ctx, gomock.Any()).Return(rows, nil)

		resp, err := deps.service.Summary(ctx, admin, attendance.ListQuery{})
		require.NoError(t, err)
		assert.Equal(t, 10, resp.Summary.Total)
		assert.Equal(t, 9, resp.Summary.Effective)
		assert.Equal(t, 90.0, resp.Summary.Percentage)
		assert.Equal(t, "90.0%", resp.Display)
		assert.Equal(t, "2025-09-08", resp.From)
		assert.Equal(t, "2025-09-14", resp.To)

		require.Len(t, resp.Weekly, 7)
		assert.Equal(t, "Mon", resp.Weekly[0].Label)
		assert.Equal(t, 8, resp.Weekly[0].Present)
		assert.Equal(t, 1, resp.Weekly[1].Absent)
		assert.Equal(t, 1, resp.Weekly[2].Present)
	})

	t.Run("last7days with no records", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().FindAll(ctx, gomock.Any()).Return(nil, nil)

		resp, err := deps.service.Summary(ctx, admin, attendance.ListQuery{Bucket: "last7days"})
		require.NoError(t, err)
		assert.Equal(t, 0.0, resp.Summary.Percentage)
		assert.Equal(t, "-", resp.Display)
		assert.Equal(t, "2025-09-06", resp.From)
		assert.Equal(t, "2025-09-12", resp.To)
		require.Len(t, resp.Weekly, 7)
		assert.Equal(t, "2025-09-12", resp.Weekly[6].Date)
	})
}

func TestAttendanceService_Export(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)

	rows := []attendance.Attendance{mark(8, "PRESENT"), mark(9, "ABSENT")}
	rows[0].Student = &attendance.StudentRef{ID: "s1", Name: "Ana", Surname: "Lim", ClassID: 2}
	rows[0].Lesson = &attendance.LessonRef{ID: 1, Name: "Math"}

	deps.repo.EXPECT().FindAll(ctx, gomock.Any()).Return(rows, nil)

	buf, filename, err := deps.service.Export(ctx, admin, attendance.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, "attendance_20250912.xlsx", filename)
	// xlsx is a zip archive
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}
