package attendance

import (
	"time"

	"go-school/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Attendance is one mark for a (student, lesson, day). Status is the canonical
// tri-state value; Present is the legacy boolean kept in step through SetStatus.
// Rows written before the status column existed have a NULL status.
type Attendance struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentID     string         `gorm:"column:student_id;type:varchar(64);not null;index"`
	LessonID      int            `gorm:"column:lesson_id;not null;index"`
	Date          time.Time      `gorm:"column:date;type:timestamptz;not null;index"`
	AttendanceDay datatypes.Date `gorm:"column:attendance_day;not null"`
	Status        *string        `gorm:"column:status;type:varchar(20)"`
	Present       bool           `gorm:"column:present;not null"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
	Student       *StudentRef    `gorm:"foreignKey:StudentID;references:ID"`
	Lesson        *LessonRef     `gorm:"foreignKey:LessonID;references:ID"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// CurrentStatus reconciles both representations into the canonical status.
func (a Attendance) CurrentStatus() domain.Status {
	return domain.ReconcileStatus(a.Status, a.Present)
}

// SetStatus writes both representations from a single status.
func (a *Attendance) SetStatus(s domain.Status) {
	v := s.String()
	a.Status = &v
	a.Present = domain.PresentFromStatus(s)
}

// SetDate moves the mark to t and keeps the day column used by the unique index in step.
func (a *Attendance) SetDate(t time.Time) {
	a.Date = t
	a.AttendanceDay = datatypes.Date(t)
}

type StudentRef struct {
	ID       string  `gorm:"column:id;primaryKey"`
	Name     string  `gorm:"column:name"`
	Surname  string  `gorm:"column:surname"`
	ClassID  int     `gorm:"column:class_id"`
	ParentID *string `gorm:"column:parent_id"`
}

func (StudentRef) TableName() string {
	return "students"
}

type LessonRef struct {
	ID        int    `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name"`
	ClassID   int    `gorm:"column:class_id"`
	TeacherID string `gorm:"column:teacher_id"`
}

func (LessonRef) TableName() string {
	return "lessons"
}
