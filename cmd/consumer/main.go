package main

import (
	"go-school/internal/app"
	"go-school/internal/config"
	"go-school/internal/shared/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := app.RunConsumer(cfg, log); err != nil {
		log.Fatal("run consumer failed", zap.Error(err))
	}
}
