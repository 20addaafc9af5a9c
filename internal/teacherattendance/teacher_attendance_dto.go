package teacherattendance

import (
	"go-school/internal/query"
	"go-school/internal/stats"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

type RecordTeacherAttendanceRequest struct {
	TeacherID string  `json:"teacherId"`
	Present   *bool   `json:"present"`
	Date      *string `json:"date"`

	bodyErr error
}

type TeacherSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

type TeacherAttendanceResponse struct {
	ID        string          `json:"id"`
	TeacherID string          `json:"teacherId"`
	Date      string          `json:"date"`
	Present   bool            `json:"present"`
	Status    string          `json:"status"`
	Teacher   *TeacherSummary `json:"teacher,omitempty"`
}

type RecordResult struct {
	Action string                    `json:"action"`
	Data   TeacherAttendanceResponse `json:"data"`
}

// ListQuery: date selects a single day; from/to a range. Summary also reads bucket.
type ListQuery struct {
	Date      string `form:"date"`
	TeacherID string `form:"teacherId"`
	Search    string `form:"search"`
	From      string `form:"from"`
	To        string `form:"to"`
	Status    string `form:"status"`
	Bucket    string `form:"bucket" binding:"omitempty,oneof=weekday last7days"`
}

func (q ListQuery) Params() query.Params {
	p := query.Params{
		Search:    q.Search,
		TeacherID: q.TeacherID,
		Status:    q.Status,
		From:      q.From,
		To:        q.To,
	}
	if q.Date != "" {
		p.From, p.To = q.Date, q.Date
	}
	return p
}

type SummaryResponse struct {
	Summary stats.Summary    `json:"summary"`
	Display string           `json:"display"`
	Bucket  stats.BucketMode `json:"bucket"`
	From    string           `json:"from"`
	To      string           `json:"to"`
	Weekly  []stats.Bucket   `json:"weekly"`
}

func toResponse(a TeacherAttendance) TeacherAttendanceResponse {
	resp := TeacherAttendanceResponse{
		ID:        a.ID.String(),
		TeacherID: a.TeacherID,
		Date:      a.Day(),
		Present:   a.Present,
		Status:    a.Status().String(),
	}
	if a.Teacher != nil {
		resp.Teacher = &TeacherSummary{
			ID:      a.Teacher.ID,
			Name:    a.Teacher.Name,
			Surname: a.Teacher.Surname,
		}
	}
	return resp
}
