package teacherattendance

import (
	"time"

	"go-school/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TeacherAttendance is the one mark of a teacher for a calendar day. The store
// enforces uniqueness of (teacher_id, date).
type TeacherAttendance struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TeacherID string         `gorm:"column:teacher_id;type:varchar(64);not null;uniqueIndex:uq_teacher_attendances_teacher_date,priority:1"`
	Date      datatypes.Date `gorm:"column:date;not null;uniqueIndex:uq_teacher_attendances_teacher_date,priority:2"`
	Present   bool           `gorm:"column:present;not null"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
	Teacher   *TeacherRef    `gorm:"foreignKey:TeacherID;references:ID"`
}

func (TeacherAttendance) TableName() string {
	return "teacher_attendances"
}

// Day returns the calendar day of the mark.
func (a TeacherAttendance) Day() string {
	return time.Time(a.Date).Format("2006-01-02")
}

func (a TeacherAttendance) Status() domain.Status {
	return domain.StatusFromPresent(a.Present)
}

type TeacherRef struct {
	ID      string `gorm:"column:id;primaryKey"`
	Name    string `gorm:"column:name"`
	Surname string `gorm:"column:surname"`
}

func (TeacherRef) TableName() string {
	return "teachers"
}
