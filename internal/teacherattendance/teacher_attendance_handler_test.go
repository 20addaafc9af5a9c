package teacherattendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-school/internal/domain"
	"go-school/internal/events"
	"go-school/internal/shared/contextutil"
	"go-school/internal/teacherattendance"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	recordFn  func(ctx context.Context, p domain.Principal, req teacherattendance.RecordTeacherAttendanceRequest) (teacherattendance.RecordResult, error)
	listFn    func(ctx context.Context, q teacherattendance.ListQuery) ([]teacherattendance.TeacherAttendanceResponse, error)
	summaryFn func(ctx context.Context, q teacherattendance.ListQuery) (teacherattendance.SummaryResponse, error)
}

func (f *fakeService) Record(ctx context.Context, p domain.Principal, req teacherattendance.RecordTeacherAttendanceRequest) (teacherattendance.RecordResult, error) {
	return f.recordFn(ctx, p, req)
}
func (f *fakeService) List(ctx context.Context, q teacherattendance.ListQuery) ([]teacherattendance.TeacherAttendanceResponse, error) {
	return f.listFn(ctx, q)
}
func (f *fakeService) Summary(ctx context.Context, q teacherattendance.ListQuery) (teacherattendance.SummaryResponse, error) {
	return f.summaryFn(ctx, q)
}

type capturePublisher struct {
	events []events.AttendanceRecordedEvent
}

func (c *capturePublisher) PublishAttendanceRecorded(_ context.Context, e events.AttendanceRecordedEvent) error {
	c.events = append(c.events, e)
	return nil
}

func withPrincipal(p domain.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(contextutil.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func setupRouter(t *testing.T, h *teacherattendance.Handler, p domain.Principal) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	teacherattendance.RegisterRoutes(r.Group("/api/v1"), h, newGate(t), withPrincipal(p))
	return r
}

func postJSON(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/teacher-attendances", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTeacherAttendanceHandler_Record(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		pub := &capturePublisher{}
		svc := &fakeService{
			recordFn: func(_ context.Context, _ domain.Principal, req teacherattendance.RecordTeacherAttendanceRequest) (teacherattendance.RecordResult, error) {
				require.NotNil(t, req.Present)
				assert.False(t, *req.Present)
				return teacherattendance.RecordResult{
					Action: teacherattendance.ActionCreated,
					Data: teacherattendance.TeacherAttendanceResponse{
						ID: "ta1", TeacherID: "t1", Date: "2025-09-12", Status: "ABSENT",
						Teacher: &teacherattendance.TeacherSummary{ID: "t1", Name: "Sari", Surname: "Wulan"},
					},
				}, nil
			},
		}
		r := setupRouter(t, teacherattendance.NewHandler(svc, pub, nil), admin)

		w := postJSON(r, `{"teacherId":"t1","present":false}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		var body struct {
			Ok     bool   `json:"ok"`
			Action string `json:"action"`
			Data   struct {
				Teacher struct {
					Surname string `json:"surname"`
				} `json:"teacher"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Ok)
		assert.Equal(t, "created", body.Action)
		assert.Equal(t, "Wulan", body.Data.Teacher.Surname)

		require.Len(t, pub.events, 1)
		assert.Equal(t, events.SubjectTeacher, pub.events[0].SubjectKind)
		assert.Equal(t, "t1", pub.events[0].SubjectID)
		assert.Nil(t, pub.events[0].LessonID)
	})

	t.Run("real service: wrong role and missing present", func(t *testing.T) {
		deps := setupServiceTest(t)
		h := teacherattendance.NewHandler(deps.service, nil, nil)

		w := postJSON(setupRouter(t, h, domain.Principal{ID: "t1", Role: domain.RoleTeacher}), `{"teacherId":"t1","present":true}`)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = postJSON(setupRouter(t, h, admin), `{"teacherId":"t1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "missing fields: teacherId and present are required")
	})
}

func TestTeacherAttendanceHandler_Read(t *testing.T) {
	svc := &fakeService{
		listFn: func(_ context.Context, q teacherattendance.ListQuery) ([]teacherattendance.TeacherAttendanceResponse, error) {
			assert.Equal(t, "2025-09-12", q.Date)
			return []teacherattendance.TeacherAttendanceResponse{{ID: "ta1"}}, nil
		},
		summaryFn: func(context.Context, teacherattendance.ListQuery) (teacherattendance.SummaryResponse, error) {
			return teacherattendance.SummaryResponse{Display: "-"}, nil
		},
	}

	t.Run("admin lists", func(t *testing.T) {
		r := setupRouter(t, teacherattendance.NewHandler(svc, nil, nil), admin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/teacher-attendances?date=2025-09-12", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"ta1"`)
	})

	t.Run("admin summary", func(t *testing.T) {
		r := setupRouter(t, teacherattendance.NewHandler(svc, nil, nil), admin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/teacher-attendances/summary", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	for _, role := range []domain.Role{domain.RoleTeacher, domain.RoleStudent, domain.RoleParent, domain.RoleNone} {
		t.Run(string(role)+" cannot list", func(t *testing.T) {
			r := setupRouter(t, teacherattendance.NewHandler(svc, nil, nil), domain.Principal{ID: "u1", Role: role})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/teacher-attendances", nil))

			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}

	t.Run("no principal is unauthorized", func(t *testing.T) {
		r := setupRouter(t, teacherattendance.NewHandler(svc, nil, nil), domain.Principal{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/teacher-attendances", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
