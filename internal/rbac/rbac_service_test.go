package rbac

import (
	"errors"
	"testing"

	"go-school/internal/domain"
	"go-school/internal/rbac/infra"
	"go-school/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================
// Helper: Test Gate
// =========================================

func newTestService(t *testing.T) Service {
	e, err := infra.NewEnforcer()
	require.NoError(t, err)

	svc, err := NewService(e, DefaultPolicy())
	require.NoError(t, err)
	return svc
}

// =========================================
// TEST: Authorization matrix
// =========================================

func TestService_Authorize_Matrix(t *testing.T) {
	svc := newTestService(t)

	allow := map[domain.Role]map[Operation]bool{
		domain.RoleAdmin: {
			OpRecordStudentAttendance: true,
			OpListStudentAttendance:   true,
			OpRecordTeacherAttendance: true,
			OpListTeacherAttendance:   true,
		},
		domain.RoleTeacher: {
			OpRecordStudentAttendance: true,
			OpListStudentAttendance:   true,
		},
		domain.RoleStudent: {
			OpListStudentAttendance: true,
		},
		domain.RoleParent: {
			OpListStudentAttendance: true,
		},
		domain.RoleNone: {},
	}

	for role, ops := range allow {
		for _, op := range Operations() {
			err := svc.Authorize(domain.Principal{ID: "user-1", Role: role}, op)
			if ops[op] {
				assert.NoError(t, err, "%s should be allowed %s", role, op)
				continue
			}
			assert.True(t, errors.Is(err, ErrForbidden), "%s should be denied %s", role, op)
		}
	}
}

func TestService_Authorize_NoPrincipal(t *testing.T) {
	svc := newTestService(t)

	for _, op := range Operations() {
		err := svc.Authorize(domain.Principal{Role: domain.RoleAdmin}, op)
		assert.ErrorIs(t, err, ErrUnauthenticated)

		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, 401, httpErr.Status)
		assert.Equal(t, "Unauthorized", httpErr.Message)
	}

	err := svc.Authorize(domain.Principal{ID: "   ", Role: domain.RoleTeacher}, OpRecordStudentAttendance)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestService_Authorize_ForbiddenMessage(t *testing.T) {
	svc := newTestService(t)

	err := svc.Authorize(domain.Principal{ID: "s-1", Role: domain.RoleStudent}, OpRecordStudentAttendance)
	httpErr := apperror.ToHTTP(err)
	assert.Equal(t, 403, httpErr.Status)
	assert.Equal(t, "Forbidden", httpErr.Message)
}

func TestService_Allowed(t *testing.T) {
	svc := newTestService(t)

	assert.ElementsMatch(t, Operations(), svc.Allowed(domain.Principal{ID: "a", Role: domain.RoleAdmin}))
	assert.Equal(t, []Operation{OpListStudentAttendance}, svc.Allowed(domain.Principal{ID: "p", Role: domain.RoleParent}))
	assert.Empty(t, svc.Allowed(domain.Principal{ID: "x", Role: domain.RoleNone}))
	assert.Empty(t, svc.Allowed(domain.Principal{}))
}
