package consumer

import (
	"context"
	"encoding/json"

	"go-school/internal/bootstrap"
	"go-school/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeAttendanceRecorded writes an audit entry for every attendance mark
// event until ctx is cancelled. Undecodable messages are committed and skipped.
func ConsumeAttendanceRecorded(
	ctx context.Context,
	reader MessageReader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_audit")
	log.Info("attendance audit consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance audit consumer stopped")
				return
			}
			log.Error("fetch attendance message failed", zap.Error(err))
			continue
		}

		var event events.AttendanceRecordedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode attendance event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		meta := map[string]any{
			"attendance_id": event.AttendanceID,
			"subject_kind":  event.SubjectKind,
			"subject_id":    event.SubjectID,
			"status":        event.Status,
			"present":       event.Present,
			"day":           event.Day,
			"recorded_by":   event.RecordedBy,
			"request_id":    event.RequestID,
		}
		if event.LessonID != nil {
			meta["lesson_id"] = *event.LessonID
		}

		audit.Log(ctx, bootstrap.AuditLog{
			Action:  auditAction(event),
			Message: event.SubjectKind + " attendance " + event.Action,
			Meta:    meta,
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance message failed", zap.Error(err))
		}
	}
}

func auditAction(e events.AttendanceRecordedEvent) string {
	switch e.EventType {
	case events.EventTeacherAttendanceRecorded:
		return "TEACHER_ATTENDANCE_RECORDED"
	default:
		return "STUDENT_ATTENDANCE_RECORDED"
	}
}
