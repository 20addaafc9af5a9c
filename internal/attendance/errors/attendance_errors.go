package attendanceerrors

import (
	"net/http"

	"go-school/internal/domain"
	"go-school/internal/shared/apperror"
)

var (
	ErrMissingFields = apperror.New(
		apperror.CodeInvalidInput,
		"missing fields: studentId, lessonId and status are required",
		http.StatusBadRequest,
	)
	ErrInvalidLessonID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid lessonId",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid status, must be one of "+domain.StatusList(),
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date",
		http.StatusBadRequest,
	)
	ErrAttendanceConflict = apperror.New(
		apperror.CodeConflict,
		"attendance for this student, lesson and day is being recorded by another request",
		http.StatusConflict,
	)
	ErrExportFailed = apperror.New(
		apperror.CodeInternalError,
		"failed to generate attendance export",
		http.StatusInternalServerError,
	)
)
