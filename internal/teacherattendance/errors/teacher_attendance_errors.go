package teacherattendanceerrors

import (
	"net/http"

	"go-school/internal/shared/apperror"
)

var (
	ErrMissingFields = apperror.New(
		apperror.CodeInvalidInput,
		"missing fields: teacherId and present are required",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date",
		http.StatusBadRequest,
	)
	ErrTeacherAttendanceConflict = apperror.New(
		apperror.CodeConflict,
		"attendance for this teacher and day already exists",
		http.StatusConflict,
	)
)
