package teacherattendance

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-school/internal/domain"
	"go-school/internal/query"
	"go-school/internal/rbac"
	"go-school/internal/shared/apperror"
	"go-school/internal/shared/contextutil"
	"go-school/internal/shared/daywindow"
	"go-school/internal/stats"
	teacherattendanceerrors "go-school/internal/teacherattendance/errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//go:generate mockgen -source=teacher_attendance_service.go -destination=mock/teacher_attendance_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, p domain.Principal, req RecordTeacherAttendanceRequest) (RecordResult, error)
	List(ctx context.Context, q ListQuery) ([]TeacherAttendanceResponse, error)
	Summary(ctx context.Context, q ListQuery) (SummaryResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	gate   rbac.Service
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
			s.logger = l.Named("teacherattendance.service")
		}
	}
}

func NewService(db *sql.DB, repo Repository, gate rbac.Service, loc *time.Location, opts ...Option) Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &service{
		db:     db,
		repo:   repo,
		gate:   gate,
		loc:    loc,
		now:    time.Now,
		logger: zap.L().Named("teacherattendance.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record creates or updates the mark of a teacher for a day. The composite unique
// key makes a concurrent duplicate create fail; that failure surfaces as Conflict.
func (s *service) Record(ctx context.Context, p domain.Principal, req RecordTeacherAttendanceRequest) (RecordResult, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if err := s.gate.Authorize(p, rbac.OpRecordTeacherAttendance); err != nil {
		log.Warn("record teacher attendance rejected", zap.String("role", p.Role.String()), zap.Error(err))
		return RecordResult{}, err
	}

	if req.bodyErr != nil {
		return RecordResult{}, apperror.InvalidBody(req.bodyErr)
	}

	teacherID := strings.TrimSpace(req.TeacherID)
	if teacherID == "" || req.Present == nil {
		return RecordResult{}, teacherattendanceerrors.ErrMissingFields
	}

	day := daywindow.StartOfDay(s.now().In(s.loc))
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		t, _, err := daywindow.Parse(*req.Date, s.loc)
		if err != nil {
			return RecordResult{}, teacherattendanceerrors.ErrInvalidDate
		}
		day = daywindow.StartOfDay(t)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RecordResult{}, apperror.Internal(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByTeacherAndDate(ctx, teacherID, datatypes.Date(day))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("find teacher attendance failed", zap.Error(err))
		return RecordResult{}, apperror.Internal(err)
	}

	action := ActionUpdated
	if errors.Is(err, gorm.ErrRecordNotFound) || rec == nil {
		action = ActionCreated
		rec = &TeacherAttendance{
			TeacherID: teacherID,
			Date:      datatypes.Date(day),
			Present:   *req.Present,
		}
		err = qtx.Create(ctx, rec)
	} else {
		rec.Present = *req.Present
		err = qtx.Update(ctx, rec)
	}
	if err != nil {
		log.Error("write teacher attendance failed", zap.String("action", action), zap.Error(err))
		return RecordResult{}, mapRepositoryError(err)
	}

	teacher, err := qtx.FindTeacher(ctx, teacherID)
	switch {
	case err == nil:
		rec.Teacher = teacher
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return RecordResult{}, apperror.Internal(err)
	}

	if err := tx.Commit(); err != nil {
		return RecordResult{}, mapRepositoryError(err)
	}

	log.Info("teacher attendance recorded",
		zap.String("action", action),
		zap.String("attendance_id", rec.ID.String()),
		zap.String("teacher_id", teacherID),
		zap.Bool("present", rec.Present),
		zap.String("day", day.Format("2006-01-02")),
	)

	return RecordResult{Action: action, Data: toResponse(*rec)}, nil
}

func (s *service) List(ctx context.Context, q ListQuery) ([]TeacherAttendanceResponse, error) {
	f, err := s.filter(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx, f)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list teacher attendance failed", zap.Error(err))
		return nil, apperror.Internal(err)
	}

	resp := make([]TeacherAttendanceResponse, 0, len(rows))
	for _, a := range rows {
		resp = append(resp, toResponse(a))
	}
	return resp, nil
}

// Summary has no compensation: teachers are only present or absent.
func (s *service) Summary(ctx context.Context, q ListQuery) (SummaryResponse, error) {
	f, err := s.filter(q)
	if err != nil {
		return SummaryResponse{}, err
	}

	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("load teacher attendance failed", zap.Error(err))
		return SummaryResponse{}, apperror.Internal(err)
	}

	marks := make([]stats.Mark, 0, len(rows))
	for _, a := range rows {
		marks = append(marks, stats.Mark{Date: s.dayIn(a.Date), Status: a.Status()})
	}

	summary := stats.Summarize(marks, false)
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

// filter builds the predicate and widens instant bounds to whole days, since the
// date column carries no time of day.
func (s *service) filter(q ListQuery) (query.Filter, error) {
	f, err := query.Build(q.Params(), s.loc)
	if err != nil {
		return query.Filter{}, teacherattendanceerrors.ErrInvalidDate
	}
	if f.From != nil {
		from := daywindow.StartOfDay(*f.From)
		f.From = &from
	}
	if f.To != nil {
		to := daywindow.For(f.To.Add(-time.Nanosecond)).End
		f.To = &to
	}
	return f, nil
}

// dayIn places a stored calendar day at midnight in the service location.
func (s *service) dayIn(d datatypes.Date) time.Time {
	y, m, day := time.Time(d).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, s.loc)
}
