package attendance

import (
	"context"
	"database/sql"

	"go-school/internal/query"
	"go-school/internal/shared/daywindow"

	"gorm.io/gorm"
)

// listColumns maps the filter onto attendances joined with students.
var listColumns = query.Columns{
	Subject: "attendances.student_id",
	Date:    "attendances.date",
	Status:  "attendances.status",
	Present: "attendances.present",
	Class:   "students.class_id",
	Search:  []string{"students.name", "students.surname", "students.id"},
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	LockKey(ctx context.Context, key string) error
	FindForDay(ctx context.Context, studentID string, lessonID int, window daywindow.Window) (*Attendance, error)
	Create(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
	List(ctx context.Context, f query.Filter, limit, offset int) ([]Attendance, int64, error)
	FindAll(ctx context.Context, f query.Filter) ([]Attendance, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn runs statements on the bound *sql.Tx when there is one.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

// LockKey serializes writers of the same dedup key until the surrounding
// transaction ends. Outside a transaction the lock would be released immediately.
func (r *repository) LockKey(ctx context.Context, key string) error {
	return r.conn(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

// FindForDay returns the earliest mark of the student for the lesson with
// window.Start <= date < window.End, or gorm.ErrRecordNotFound.
func (r *repository) FindForDay(ctx context.Context, studentID string, lessonID int, window daywindow.Window) (*Attendance, error) {
	var a Attendance
	err := r.conn(ctx).
		Where("student_id = ?", studentID).
		Where("lesson_id = ?", lessonID).
		Where("date >= ? AND date < ?", window.Start, window.End).
		Order("date ASC").
		First(&a).Error
	return &a, err
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).Omit("Student", "Lesson").Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).
		Model(a).
		Select("date", "attendance_day", "status", "present", "updated_at").
		Updates(a).Error
}

// List pairs the page query with its count in one transaction so both see the
// same snapshot.
func (r *repository) List(ctx context.Context, f query.Filter, limit, offset int) ([]Attendance, int64, error) {
	var (
		rows  []Attendance
		total int64
	)

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.filtered(tx, f).Count(&total).Error; err != nil {
			return err
		}
		return r.filtered(tx, f).
			Select("attendances.*").
			Preload("Student").
			Preload("Lesson").
			Order("attendances.date DESC").
			Order("attendances.student_id ASC").
			Limit(limit).
			Offset(offset).
			Find(&rows).Error
	})
	return rows, total, err
}

func (r *repository) FindAll(ctx context.Context, f query.Filter) ([]Attendance, error) {
	var rows []Attendance
	err := r.filtered(r.conn(ctx), f).
		Select("attendances.*").
		Preload("Student").
		Preload("Lesson").
		Order("attendances.date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) filtered(db *gorm.DB, f query.Filter) *gorm.DB {
	return db.Model(&Attendance{}).
		Joins("JOIN students ON students.id = attendances.student_id").
		Scopes(query.Scope(f, listColumns))
}
