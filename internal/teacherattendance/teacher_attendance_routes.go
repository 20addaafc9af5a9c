package teacherattendance

import (
	"go-school/internal/middleware"
	"go-school/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, gate rbac.Service, mw ...gin.HandlerFunc) {
	attendances := r.Group("/teacher-attendances")
	attendances.Use(mw...)
	{
		attendances.POST("", h.Record)

		read := middleware.RBACAuthorize(gate, rbac.OpListTeacherAttendance)
		attendances.GET("", read, h.List)
		attendances.GET("/summary", read, h.Summary)
	}
}
