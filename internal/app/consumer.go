package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-school/internal/bootstrap"
	"go-school/internal/config"
	"go-school/internal/events"
	"go-school/internal/messaging/kafka/consumer"
	"go-school/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer audits attendance events until SIGINT/SIGTERM.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	if err := connection.PingKafkaWithRetry(cfg.Kafka.Broker, 5, logger); err != nil {
		return err
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.AttendanceRecordedTopic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeAttendanceRecorded(ctx, reader, bootstrap.NewStdoutAuditLogger(), logger)

	log.Info("consumer shut down")
	return nil
}
