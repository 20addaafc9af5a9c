package app

import (
	"fmt"

	"go-school/internal/config"
	"go-school/internal/messaging/kafka"
	"go-school/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module on router.
// The returned cleanup closes what was opened.
func BuildApp(router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(), error) {
	log := logger.Named("app")
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("close resource failed", zap.Error(err))
			}
		}
	}

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.Database.MaxRetries, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	closers = append(closers, sqlDB.Close)

	// redis is optional: without it idempotency is off and the roster is uncached
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis.Addr, 3, logger)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", zap.Error(err))
			rdb = nil
		} else {
			closers = append(closers, rdb.Close)
		}
	}

	var publisher kafka.EventPublisher = kafka.NoopPublisher{}
	if cfg.Kafka.Broker != "" {
		writer := kafka.NewWriter(cfg.Kafka.Broker, logger)
		closers = append(closers, writer.Close)
		publisher = kafka.NewPublisher(writer)
		log.Info("attendance events enabled", zap.String("broker", cfg.Kafka.Broker))
	}

	// 2. Register Modules & Routes
	if err := registerModules(router, deps{
		cfg:       cfg,
		sqlDB:     sqlDB,
		gormDB:    gormDB,
		rdb:       rdb,
		publisher: publisher,
		logger:    logger,
	}); err != nil {
		cleanup()
		return nil, fmt.Errorf("register modules: %w", err)
	}

	return cleanup, nil
}
