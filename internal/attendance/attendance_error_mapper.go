package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-school/internal/attendance/errors"
	"go-school/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueAttendanceDay = "uq_attendances_student_lesson_day"

// mapRepositoryError turns store failures into service errors. Anything not
// recognized is Internal with the store message.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return attendanceerrors.ErrAttendanceConflict
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, uniqueAttendanceDay) {
		return attendanceerrors.ErrAttendanceConflict
	}

	return apperror.Internal(err)
}
