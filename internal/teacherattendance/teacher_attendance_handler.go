package teacherattendance

import (
	"net/http"
	"time"

	"go-school/internal/domain"
	"go-school/internal/events"
	"go-school/internal/messaging/kafka"
	"go-school/internal/shared/apperror"
	"go-school/internal/shared/contextutil"
	"go-school/internal/shared/metrics"
	"go-school/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service   Service
	publisher kafka.EventPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewHandler(service Service, publisher kafka.EventPublisher, m *metrics.Metrics, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("teacherattendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("teacherattendance.handler")
	}
	if publisher == nil {
		publisher = kafka.NoopPublisher{}
	}
	return &Handler{service: service, publisher: publisher, metrics: m, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Record(c *gin.Context) {
	ctx := c.Request.Context()
	p := contextutil.GetPrincipal(ctx)

	var req RecordTeacherAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = RecordTeacherAttendanceRequest{bodyErr: err}
	}

	res, err := h.service.Record(ctx, p, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.metrics.RecordUpsert(events.SubjectTeacher, res.Action)
	h.publish(c, p, res)

	status := http.StatusOK
	if res.Action == ActionCreated {
		status = http.StatusCreated
	}
	response.Upserted(c, status, res.Action, res.Data)
}

func (h *Handler) publish(c *gin.Context, p domain.Principal, res RecordResult) {
	ctx := c.Request.Context()

	event := events.AttendanceRecordedEvent{
		EventType:    events.EventTeacherAttendanceRecorded,
		SubjectKind:  events.SubjectTeacher,
		Action:       res.Action,
		AttendanceID: res.Data.ID,
		SubjectID:    res.Data.TeacherID,
		Status:       res.Data.Status,
		Present:      res.Data.Present,
		Day:          res.Data.Date,
		RecordedBy:   p.ID,
		RequestID:    contextutil.GetRequestID(ctx),
		OccurredAt:   time.Now().UTC(),
	}
	if err := h.publisher.PublishAttendanceRecorded(ctx, event); err != nil {
		contextutil.GetLogger(ctx, h.logger).Warn("publish teacher attendance event failed",
			zap.String("attendance_id", res.Data.ID),
			zap.Error(err),
		)
	}
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	rows, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rows, nil)
}

func (h *Handler) Summary(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Summary(c.Request.Context(), q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
