package middleware

import (
	"go-school/internal/domain"
	"go-school/internal/rbac"
	"go-school/internal/shared/apperror"
	"go-school/internal/shared/contextutil"
	"go-school/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService adalah interface lokal.
// Apapun yang punya method Authorize bisa dipakai sebagai gate di route.
type RBACService interface {
	Authorize(p domain.Principal, op rbac.Operation) error
}

// RBACAuthorize gates a route on op. Reads are gated here; writes are gated again
// inside their services so the check precedes body validation.
func RBACAuthorize(service RBACService, op rbac.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := contextutil.GetPrincipal(c.Request.Context())

		if err := service.Authorize(p, op); err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
