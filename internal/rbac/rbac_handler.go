package rbac

import (
	"net/http"

	"go-school/internal/shared/contextutil"
	"go-school/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type PermissionsResponse struct {
	PrincipalID string      `json:"principal_id"`
	Role        string      `json:"role"`
	Operations  []Operation `json:"operations"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Permissions reports which operations the caller may perform, so dashboards can
// hide controls the gate would reject.
func (h *Handler) Permissions(c *gin.Context) {
	p := contextutil.GetPrincipal(c.Request.Context())
	if !p.Authenticated() {
		response.Error(c, http.StatusUnauthorized, ErrUnauthenticated.Code, ErrUnauthenticated.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, PermissionsResponse{
		PrincipalID: p.ID,
		Role:        p.Role.String(),
		Operations:  h.service.Allowed(p),
	}, nil)
}
