package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	attendanceerrors "go-school/internal/attendance/errors"
	"go-school/internal/domain"
	"go-school/internal/query"
	"go-school/internal/rbac"
	"go-school/internal/shared/apperror"
	"go-school/internal/shared/contextutil"
	"go-school/internal/shared/daywindow"
	"go-school/internal/stats"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, p domain.Principal, req RecordAttendanceRequest) (RecordResult, error)
	List(ctx context.Context, p domain.Principal, q ListQuery) ([]AttendanceResponse, int64, error)
	Summary(ctx context.Context, p domain.Principal, q ListQuery) (SummaryResponse, error)
	Export(ctx context.Context, p domain.Principal, q ListQuery) (*bytes.Buffer, string, error)
}

// Roster resolves the students a parent may see.
type Roster interface {
	ChildrenOf(ctx context.Context, parentID string) ([]string, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	gate   rbac.Service
	roster Roster
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) {
		if l != nil {
			s.logger = l.Named("attendance.service")
		}
	}
}

// NewService builds the student attendance service. Day windows and date filters
// are evaluated in loc.
func NewService(db *sql.DB, repo Repository, gate rbac.Service, roster Roster, loc *time.Location, opts ...Option) Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &service{
		db:     db,
		repo:   repo,
		gate:   gate,
		roster: roster,
		loc:    loc,
		now:    time.Now,
		logger: zap.L().Named("attendance.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type recordInput struct {
	StudentID string
	LessonID  int
	Status    domain.Status
	Date      time.Time
}

// Record creates the mark for (student, lesson, day) or updates the existing one.
// The lookup and the write run in one transaction holding an advisory lock on
// the dedup key, so concurrent calls for the same key are serialized.
func (s *service) Record(ctx context.Context, p domain.Principal, req RecordAttendanceRequest) (RecordResult, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if err := s.gate.Authorize(p, rbac.OpRecordStudentAttendance); err != nil {
		log.Warn("record attendance rejected", zap.String("role", p.Role.String()), zap.Error(err))
		return RecordResult{}, err
	}

	if req.bodyErr != nil {
		return RecordResult{}, apperror.InvalidBody(req.bodyErr)
	}

	in, err := s.validate(req)
	if err != nil {
		log.Debug("record attendance invalid", zap.Error(err))
		return RecordResult{}, err
	}
	window := daywindow.For(in.Date)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RecordResult{}, apperror.Internal(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.LockKey(ctx, dedupKey(in.StudentID, in.LessonID, window)); err != nil {
		return RecordResult{}, apperror.Internal(err)
	}

	rec, err := qtx.FindForDay(ctx, in.StudentID, in.LessonID, window)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("find attendance failed", zap.Error(err))
		return RecordResult{}, apperror.Internal(err)
	}

	action := ActionUpdated
	if errors.Is(err, gorm.ErrRecordNotFound) || rec == nil {
		action = ActionCreated
		rec = &Attendance{
			StudentID: in.StudentID,
			LessonID:  in.LessonID,
		}
		rec.SetDate(in.Date)
		rec.SetStatus(in.Status)
		err = qtx.Create(ctx, rec)
	} else {
		rec.SetDate(in.Date)
		rec.SetStatus(in.Status)
		err = qtx.Update(ctx, rec)
	}
	if err != nil {
		log.Error("write attendance failed", zap.String("action", action), zap.Error(err))
		return RecordResult{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return RecordResult{}, mapRepositoryError(err)
	}

	log.Info("attendance recorded",
		zap.String("action", action),
		zap.String("attendance_id", rec.ID.String()),
		zap.String("student_id", in.StudentID),
		zap.Int("lesson_id", in.LessonID),
		zap.String("status", in.Status.String()),
		zap.String("day", window.Day()),
	)

	return RecordResult{Action: action, Data: toResponse(*rec)}, nil
}

// validate checks fields in the order missing -> lessonId -> status -> date.
func (s *service) validate(req RecordAttendanceRequest) (recordInput, error) {
	studentID := strings.TrimSpace(req.StudentID)
	if studentID == "" || blank(req.LessonID) || strings.TrimSpace(req.Status) == "" {
		return recordInput{}, attendanceerrors.ErrMissingFields
	}

	lessonID, ok := coerceLessonID(req.LessonID)
	if !ok {
		return recordInput{}, attendanceerrors.ErrInvalidLessonID
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return recordInput{}, attendanceerrors.ErrInvalidStatus
	}

	date := s.now().In(s.loc)
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		t, _, err := daywindow.Parse(*req.Date, s.loc)
		if err != nil {
			return recordInput{}, attendanceerrors.ErrInvalidDate
		}
		date = t
	}

	return recordInput{StudentID: studentID, LessonID: lessonID, Status: status, Date: date}, nil
}

func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	default:
		return false
	}
}

// coerceLessonID accepts integral JSON numbers and numeric strings. Lesson ids
// are positive.
func coerceLessonID(v any) (int, bool) {
	var id int64
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || x > math.MaxInt32 {
			return 0, false
		}
		id = int64(x)
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return 0, false
		}
		id = n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 32)
		if err != nil {
			return 0, false
		}
		id = n
	case int:
		id = int64(x)
	case int64:
		id = x
	default:
		return 0, false
	}
	if id <= 0 || id > math.MaxInt32 {
		return 0, false
	}
	return int(id), true
}

func dedupKey(studentID string, lessonID int, w daywindow.Window) string {
	return fmt.Sprintf("attendance:%s:%d:%s", studentID, lessonID, w.Day())
}

func (s *service) List(ctx context.Context, p domain.Principal, q ListQuery) ([]AttendanceResponse, int64, error) {
	f, err := s.scopedFilter(ctx, p, q)
	if err != nil {
		return nil, 0, err
	}
	if f.Empty() {
		return []AttendanceResponse{}, 0, nil
	}

	page, pageSize := q.Pagination()
	rows, total, err := s.repo.List(ctx, f, pageSize, (page-1)*pageSize)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list attendance failed", zap.Error(err))
		return nil, 0, apperror.Internal(err)
	}

	resp := make([]AttendanceResponse, 0, len(rows))
	for _, a := range rows {
		a.Date = a.Date.In(s.loc)
		resp = append(resp, toResponse(a))
	}
	return resp, total, nil
}

func (s *service) Summary(ctx context.Context, p domain.Principal, q ListQuery) (SummaryResponse, error) {
	f, rows, err := s.findAll(ctx, p, q)
	if err != nil {
		return SummaryResponse{}, err
	}

	marks := s.toMarks(rows)
	summary := stats.Summarize(marks, true)
	series := stats.WeeklyFor(marks, s.now().In(s.loc), f.From, f.To, stats.ParseBucketMode(q.Bucket))

	return SummaryResponse{
		Summary: summary,
		Display: summary.Display(),
		Bucket:  series.Mode,
		From:    series.From.Format("2006-01-02"),
		To:      series.Last.Format("2006-01-02"),
		Weekly:  series.Buckets,
	}, nil
}

func (s *service) findAll(ctx context.Context, p domain.Principal, q ListQuery) (query.Filter, []Attendance, error) {
	f, err := s.scopedFilter(ctx, p, q)
	if err != nil {
		return query.Filter{}, nil, err
	}
	if f.Empty() {
		return f, nil, nil
	}

	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("load attendance failed", zap.Error(err))
		return query.Filter{}, nil, apperror.Internal(err)
	}
	for i := range rows {
		rows[i].Date = rows[i].Date.In(s.loc)
	}
	return f, rows, nil
}

// scopedFilter builds the filter and merges the caller's role scope into it.
func (s *service) scopedFilter(ctx context.Context, p domain.Principal, q ListQuery) (query.Filter, error) {
	f, err := query.Build(q.Params(), s.loc)
	if err != nil {
		return query.Filter{}, attendanceerrors.ErrInvalidDate
	}

	switch p.Role {
	case domain.RoleAdmin, domain.RoleTeacher:
		return f, nil
	case domain.RoleStudent:
		return f.RestrictSubjects([]string{p.ID}), nil
	case domain.RoleParent:
		ids, err := s.roster.ChildrenOf(ctx, p.ID)
		if err != nil {
			return query.Filter{}, apperror.Internal(err)
		}
		return f.RestrictSubjects(ids), nil
	default:
		return query.Filter{}, apperror.ErrForbidden
	}
}

func (s *service) toMarks(rows []Attendance) []stats.Mark {
	marks := make([]stats.Mark, 0, len(rows))
	for _, a := range rows {
		marks = append(marks, stats.Mark{Date: a.Date.In(s.loc), Status: a.CurrentStatus()})
	}
	return marks
}
