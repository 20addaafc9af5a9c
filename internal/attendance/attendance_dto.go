package attendance

import (
	"time"

	"go-school/internal/query"
	"go-school/internal/stats"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// RecordAttendanceRequest is the write body. LessonID accepts a JSON number or a
// numeric string; the service coerces it.
type RecordAttendanceRequest struct {
	StudentID string  `json:"studentId"`
	LessonID  any     `json:"lessonId"`
	Status    string  `json:"status"`
	Date      *string `json:"date"`

	// bodyErr is set by the handler when the body could not be decoded; it is
	// reported only after the caller has been authorized.
	bodyErr error
}

type StudentSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	ClassID int    `json:"classId"`
}

type LessonSummary struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	ClassID int    `json:"classId"`
}

type AttendanceResponse struct {
	ID        string          `json:"id"`
	StudentID string          `json:"studentId"`
	LessonID  int             `json:"lessonId"`
	Date      time.Time       `json:"date"`
	Day       string          `json:"day"`
	Status    string          `json:"status"`
	Present   bool            `json:"present"`
	Student   *StudentSummary `json:"student,omitempty"`
	Lesson    *LessonSummary  `json:"lesson,omitempty"`
}

type RecordResult struct {
	Action string             `json:"action"`
	Data   AttendanceResponse `json:"data"`
}

// ListQuery carries the list, summary and export query string.
type ListQuery struct {
	Search      string `form:"search"`
	StudentID   string `form:"studentId"`
	Status      string `form:"status"`
	From        string `form:"from"`
	To          string `form:"to"`
	ClassID     string `form:"classId"`
	ClassFilter string `form:"classFilter"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Bucket      string `form:"bucket" binding:"omitempty,oneof=weekday last7days"`
}

func (q ListQuery) Params() query.Params {
	return query.Params{
		Search:      q.Search,
		StudentID:   q.StudentID,
		Status:      q.Status,
		From:        q.From,
		To:          q.To,
		ClassID:     q.ClassID,
		ClassFilter: q.ClassFilter,
	}
}

func (q ListQuery) Pagination() (page, pageSize int) {
	page, pageSize = q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}

type SummaryResponse struct {
	Summary stats.Summary    `json:"summary"`
	Display string           `json:"display"`
	Bucket  stats.BucketMode `json:"bucket"`
	From    string           `json:"from"`
	To      string           `json:"to"`
	Weekly  []stats.Bucket   `json:"weekly"`
}

func toResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:        a.ID.String(),
		StudentID: a.StudentID,
		LessonID:  a.LessonID,
		Date:      a.Date,
		Day:       a.Date.Format("2006-01-02"),
		Status:    a.CurrentStatus().String(),
		Present:   a.Present,
	}
	if a.Student != nil {
		resp.Student = &StudentSummary{
			ID:      a.Student.ID,
			Name:    a.Student.Name,
			Surname: a.Student.Surname,
			ClassID: a.Student.ClassID,
		}
	}
	if a.Lesson != nil {
		resp.Lesson = &LessonSummary{
			ID:      a.Lesson.ID,
			Name:    a.Lesson.Name,
			ClassID: a.Lesson.ClassID,
		}
	}
	return resp
}
