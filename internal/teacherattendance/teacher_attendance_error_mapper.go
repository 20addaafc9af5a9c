package teacherattendance

import (
	"errors"
	"strings"

	"go-school/internal/shared/apperror"
	teacherattendanceerrors "go-school/internal/teacherattendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueTeacherDay = "uq_teacher_attendances_teacher_date"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return teacherattendanceerrors.ErrTeacherAttendanceConflict
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueTeacherDay) {
		return teacherattendanceerrors.ErrTeacherAttendanceConflict
	}

	return apperror.Internal(err)
}
