package teacherattendance

import (
	"context"
	"database/sql"

	"go-school/internal/query"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var listColumns = query.Columns{
	Subject: "teacher_attendances.teacher_id",
	Date:    "teacher_attendances.date",
	Present: "teacher_attendances.present",
	Search:  []string{"teachers.name", "teachers.surname", "teachers.id"},
}

//go:generate mockgen -source=teacher_attendance_repo.go -destination=mock/teacher_attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByTeacherAndDate(ctx context.Context, teacherID string, day datatypes.Date) (*TeacherAttendance, error)
	Create(ctx context.Context, a *TeacherAttendance) error
	Update(ctx context.Context, a *TeacherAttendance) error
	FindTeacher(ctx context.Context, teacherID string) (*TeacherRef, error)
	List(ctx context.Context, f query.Filter) ([]TeacherAttendance, error)
	FindAll(ctx context.Context, f query.Filter) ([]TeacherAttendance, error)
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

// FindByTeacherAndDate is a point lookup on the composite unique key.
func (r *repository) FindByTeacherAndDate(ctx context.Context, teacherID string, day datatypes.Date) (*TeacherAttendance, error) {
	var a TeacherAttendance
	err := r.conn(ctx).
		Where("teacher_id = ? AND date = ?", teacherID, day).
		First(&a).Error
	return &a, err
}

func (r *repository) Create(ctx context.Context, a *TeacherAttendance) error {
	return r.conn(ctx).Omit("Teacher").Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *TeacherAttendance) error {
	return r.conn(ctx).
		Model(a).
		Select("present", "updated_at").
		Updates(a).Error
}

func (r *repository) FindTeacher(ctx context.Context, teacherID string) (*TeacherRef, error) {
	var t TeacherRef
	err := r.conn(ctx).Where("id = ?", teacherID).First(&t).Error
	return &t, err
}

// List orders by date DESC, then teacher name ASC.
func (r *repository) List(ctx context.Context, f query.Filter) ([]TeacherAttendance, error) {
	var rows []TeacherAttendance
	err := r.filtered(r.conn(ctx), f).
		Select("teacher_attendances.*").
		Preload("Teacher").
		Order("teacher_attendances.date DESC").
		Order("teachers.name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context, f query.Filter) ([]TeacherAttendance, error) {
	var rows []TeacherAttendance
	err := r.filtered(r.conn(ctx), f).
		Select("teacher_attendances.*").
		Order("teacher_attendances.date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) filtered(db *gorm.DB, f query.Filter) *gorm.DB {
	return db.Model(&TeacherAttendance{}).
		Joins("JOIN teachers ON teachers.id = teacher_attendances.teacher_id").
		Scopes(query.Scope(f, listColumns))
}
