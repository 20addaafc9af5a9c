package main

import (
	"go-school/internal/app"
	"go-school/internal/bootstrap"
	"go-school/internal/config"
	"go-school/internal/shared/apperror"
	"go-school/internal/shared/logger"

	"github.com/gin-gonic/gin"
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

	apperror.Init()
	r := gin.New()
	r.Use(gin.Recovery())

	// build dependency + routes
	cleanup, err := app.BuildApp(r, cfg, log)
	if err != nil {
		log.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	err = bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		bootstrap.NewStdoutAuditLogger(),
	)
	if err != nil {
		log.Error("server stopped with error", zap.Error(err))
	}
}
