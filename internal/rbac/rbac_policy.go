package rbac

import "go-school/internal/domain"

// Operation is a (resource, action) pair checked by the gate.
type Operation struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

func (o Operation) String() string {
	return o.Resource + ":" + o.Action
}

var (
	OpRecordStudentAttendance = Operation{Resource: "student_attendance", Action: "write"}
	OpListStudentAttendance   = Operation{Resource: "student_attendance", Action: "read"}
	OpRecordTeacherAttendance = Operation{Resource: "teacher_attendance", Action: "write"}
	OpListTeacherAttendance   = Operation{Resource: "teacher_attendance", Action: "read"}
)

// Operations lists every operation known to the gate.
func Operations() []Operation {
	return []Operation{
		OpRecordStudentAttendance,
		OpListStudentAttendance,
		OpRecordTeacherAttendance,
		OpListTeacherAttendance,
	}
}

type PolicyRow struct {
	Role      domain.Role
	Operation Operation
}

// DefaultPolicy is the allow list. Anything not listed is denied, including every
// operation for RoleNone.
func DefaultPolicy() []PolicyRow {
	return []PolicyRow{
		{Role: domain.RoleAdmin, Operation: OpRecordStudentAttendance},
		{Role: domain.RoleTeacher, Operation: OpRecordStudentAttendance},

		{Role: domain.RoleAdmin, Operation: OpRecordTeacherAttendance},
		{Role: domain.RoleAdmin, Operation: OpListTeacherAttendance},

		{Role: domain.RoleAdmin, Operation: OpListStudentAttendance},
		{Role: domain.RoleTeacher, Operation: OpListStudentAttendance},
		{Role: domain.RoleStudent, Operation: OpListStudentAttendance},
		{Role: domain.RoleParent, Operation: OpListStudentAttendance},
	}
}
