package attendance

import (
	"go-school/internal/middleware"
	"go-school/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /attendances. mw runs on every route (auth first).
// The POST is authorized inside the service; reads are gated here.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, gate rbac.Service, mw ...gin.HandlerFunc) {
	attendances := r.Group("/attendances")
	attendances.Use(mw...)
	{
		attendances.POST("", h.Record)

		read := middleware.RBACAuthorize(gate, rbac.OpListStudentAttendance)
		attendances.GET("", read, h.List)
		attendances.GET("/summary", read, h.Summary)
		attendances.GET("/export", read, h.Export)
	}
}
