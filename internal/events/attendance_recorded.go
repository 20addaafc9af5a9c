package events

import "time"

const AttendanceRecordedTopic = "school.attendance.recorded.v1"

const (
	EventStudentAttendanceRecorded = "student_attendance.recorded"
	EventTeacherAttendanceRecorded = "teacher_attendance.recorded"

	SubjectStudent = "student"
	SubjectTeacher = "teacher"
)

// AttendanceRecordedEvent is published after a mark is created or updated.
// LessonID is nil for teacher marks, whose Status is derived from present.
type AttendanceRecordedEvent struct {
	EventType    string    `json:"event_type"`
	SubjectKind  string    `json:"subject_kind"`
	Action       string    `json:"action"`
	AttendanceID string    `json:"attendance_id"`
	SubjectID    string    `json:"subject_id"`
	LessonID     *int      `json:"lesson_id,omitempty"`
	Status       string    `json:"status,omitempty"`
	Present      bool      `json:"present"`
	Day          string    `json:"day"`
	RecordedBy   string    `json:"recorded_by"`
	RequestID    string    `json:"request_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
