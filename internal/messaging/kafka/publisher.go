package kafka

import (
	"context"
	"encoding/json"

	"go-school/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

//go:generate mockgen -source=publisher.go -destination=mock/publisher_mock.go -package=mock
type EventPublisher interface {
	PublishAttendanceRecorded(ctx context.Context, event events.AttendanceRecordedEvent) error
}

// MessageWriter is the part of *kafkago.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishAttendanceRecorded(context.Context, events.AttendanceRecordedEvent) error {
	return nil
}

type publisher struct {
	writer MessageWriter
}

func NewPublisher(writer MessageWriter) EventPublisher {
	return &publisher{writer: writer}
}

func (p *publisher) PublishAttendanceRecorded(ctx context.Context, event events.AttendanceRecordedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: events.AttendanceRecordedTopic,
		Key:   []byte(event.SubjectID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "subject_kind", Value: []byte(event.SubjectKind)},
		},
	})
}

// NewWriter returns an async writer; delivery failures are only logged so a
// broker outage never fails an attendance write.
func NewWriter(broker string, logger *zap.Logger) *kafkago.Writer {
	log := logger.Named("kafka.writer")
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(broker),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafkago.Message, err error) {
			if err != nil {
				log.Error("kafka delivery failed", zap.Int("count", len(messages)), zap.Error(err))
			}
		},
	}
}
