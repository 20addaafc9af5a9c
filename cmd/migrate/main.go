package main

import (
	"flag"

	"go-school/internal/config"
	"go-school/internal/database"
	"go-school/internal/shared/connection"
	"go-school/internal/shared/logger"

	"go.uber.org/zap"
)

func main() {
	down := flag.Int("down", 0, "number of migrations to roll back instead of migrating up")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.Database.MaxRetries, log)
	if err != nil {
		log.Fatal("connect database failed", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatal("get sql.DB failed", zap.Error(err))
	}
	defer sqlDB.Close()

	if *down > 0 {
		err = database.RollbackMigrations(sqlDB, *down, log)
	} else {
		err = database.RunMigrations(sqlDB, log)
	}
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
}
