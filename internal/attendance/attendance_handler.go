package attendance

import (
	"net/http"
	"net/url"

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

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service   Service
	publisher kafka.EventPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewHandler wires the HTTP layer. publisher and m may be nil.
func NewHandler(service Service, publisher kafka.EventPublisher, m *metrics.Metrics, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
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

	var req RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = RecordAttendanceRequest{bodyErr: err}
	}

	res, err := h.service.Record(ctx, p, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.metrics.RecordUpsert(events.SubjectStudent, res.Action)
	h.publish(c, p, res)

	status := http.StatusOK
	if res.Action == ActionCreated {
		status = http.StatusCreated
	}
	response.Upserted(c, status, res.Action, res.Data)
}

// publish is best effort: the write is already committed.
func (h *Handler) publish(c *gin.Context, p domain.Principal, res RecordResult) {
	ctx := c.Request.Context()
	lessonID := res.Data.LessonID

	event := events.AttendanceRecordedEvent{
		EventType:    events.EventStudentAttendanceRecorded,
		SubjectKind:  events.SubjectStudent,
		Action:       res.Action,
		AttendanceID: res.Data.ID,
		SubjectID:    res.Data.StudentID,
		LessonID:     &lessonID,
		Status:       res.Data.Status,
		Present:      res.Data.Present,
		Day:          res.Data.Day,
		RecordedBy:   p.ID,
		RequestID:    contextutil.GetRequestID(ctx),
		OccurredAt:   res.Data.Date,
	}
	if err := h.publisher.PublishAttendanceRecorded(ctx, event); err != nil {
		contextutil.GetLogger(ctx, h.logger).Warn("publish attendance event failed",
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

	p := contextutil.GetPrincipal(c.Request.Context())
	rows, total, err := h.service.List(c.Request.Context(), p, q)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, pageSize := q.Pagination()
	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, rows, &meta)
}

func (h *Handler) Summary(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	p := contextutil.GetPrincipal(c.Request.Context())
	resp, err := h.service.Summary(c.Request.Context(), p, q)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	p := contextutil.GetPrincipal(c.Request.Context())
	buf, filename, err := h.service.Export(c.Request.Context(), p, q)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
