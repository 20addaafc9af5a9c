package app

import (
	"database/sql"
	"net/http"

	"go-school/internal/attendance"
	"go-school/internal/config"
	"go-school/internal/messaging/kafka"
	"go-school/internal/middleware"
	"go-school/internal/rbac"
	"go-school/internal/rbac/infra"
	"go-school/internal/roster"
	"go-school/internal/shared/apperror"
	"go-school/internal/shared/metrics"
	"go-school/internal/shared/response"
	"go-school/internal/teacherattendance"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type deps struct {
	cfg       *config.Config
	sqlDB     *sql.DB
	gormDB    *gorm.DB
	rdb       *redis.Client
	publisher kafka.EventPublisher
	logger    *zap.Logger
}

func registerModules(router *gin.Engine, d deps) error {
	m := metrics.New()

	router.Use(
		middleware.ContextLogger(d.logger),
		middleware.Metrics(m),
		middleware.CORS(d.cfg.Server.AllowOrigins),
		middleware.RateLimitByIP(rate.Limit(d.cfg.RateLimit.RPS*4), d.cfg.RateLimit.Burst*4),
	)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	gate, err := rbac.NewService(enforcer, rbac.DefaultPolicy(), d.logger)
	if err != nil {
		return err
	}

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(d.gormDB)
	teacherAttendanceRepo := teacherattendance.NewRepository(d.gormDB)
	rosterRepo := roster.NewRepository(d.gormDB)

	// --- Services ---
	rosterService := roster.NewService(rosterRepo, d.rdb, d.cfg.RosterTTL, d.logger)
	attendanceService := attendance.NewService(d.sqlDB, attendanceRepo, gate, rosterService, d.cfg.Location,
		attendance.WithLogger(d.logger))
	teacherAttendanceService := teacherattendance.NewService(d.sqlDB, teacherAttendanceRepo, gate, d.cfg.Location,
		teacherattendance.WithLogger(d.logger))

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService, d.publisher, m, d.logger)
	teacherAttendanceHandler := teacherattendance.NewHandler(teacherAttendanceService, d.publisher, m, d.logger)
	rbacHandler := rbac.NewHandler(gate)

	// --- Routes Registration ---
	auth := middleware.AuthMiddleware(d.cfg.Auth.JWTSecret)
	protected := []gin.HandlerFunc{
		auth,
		middleware.RateLimitByUser(rate.Limit(d.cfg.RateLimit.RPS), d.cfg.RateLimit.Burst),
		middleware.Idempotency(d.rdb, d.cfg.Idempotency, d.logger),
	}

	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, gate, protected...)
		teacherattendance.RegisterRoutes(api, teacherAttendanceHandler, gate, protected...)
		rbac.RegisterRoutes(api, rbacHandler, auth)
	}

	router.GET("/healthz", healthz(d.sqlDB, d.rdb))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	router.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, apperror.CodeNotFound, "route not found", nil)
	})

	return nil
}

func healthz(db *sql.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		status := gin.H{"db": "ok"}
		code := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			status["db"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if rdb != nil {
			status["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				status["redis"] = err.Error()
			}
		}

		response.Success(c, code, status, nil)
	}
}
