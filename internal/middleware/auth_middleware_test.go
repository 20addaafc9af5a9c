package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-school/internal/domain"
	"go-school/internal/middleware"
	"go-school/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func authRouter(got *domain.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthMiddleware(testSecret))
	r.GET("/me", func(c *gin.Context) {
		*got = contextutil.GetPrincipal(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("success - sub and role", func(t *testing.T) {
		var got domain.Principal
		r := authRouter(&got)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
			"sub":  "teacher-7",
			"role": "Teacher",
			"exp":  time.Now().Add(time.Hour).Unix(),
		}))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, domain.Principal{ID: "teacher-7", Role: domain.RoleTeacher}, got)
	})

	t.Run("success - user_id claim, missing role becomes norole", func(t *testing.T) {
		var got domain.Principal
		r := authRouter(&got)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, jwt.MapClaims{"user_id": "u-1"})})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, domain.RoleNone, got.Role)
		assert.Equal(t, "u-1", got.ID)
	})

	t.Run("missing token", func(t *testing.T) {
		var got domain.Principal
		r := authRouter(&got)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Unauthorized")
	})

	t.Run("wrong secret", func(t *testing.T) {
		var got domain.Principal
		r := authRouter(&got)

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x", "role": "admin"})
		s, err := token.SignedString([]byte("other"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+s)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		var got domain.Principal
		r := authRouter(&got)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
			"sub": "x",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no subject", func(t *testing.T) {
		var got domain.Principal
		r := authRouter(&got)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"role": "admin"}))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
