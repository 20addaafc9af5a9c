package middleware

import (
	"errors"
	"fmt"
	"strings"

	"go-school/internal/domain"
	"go-school/internal/shared/apperror"
	"go-school/internal/shared/contextutil"
	"go-school/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// AuthMiddleware resolves the principal from a bearer token (or the access_token
// cookie). Tokens are issued elsewhere; only the subject and role claims are read.
// A token without a role claim yields RoleNone, which the gate denies everywhere.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortUnauthorized(c)
			return
		}

		principal, err := ParsePrincipal(tokenString, secret)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(CtxUserID, principal.ID)
		c.Set(CtxRole, principal.Role.String())
		ctx := contextutil.WithPrincipal(c.Request.Context(), principal)
		ctx = contextutil.WithLoggerFields(ctx, zap.String("user_id", principal.ID), zap.String("role", principal.Role.String()))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// ParsePrincipal validates an HMAC-signed token and maps its claims.
// The subject is taken from "sub", falling back to "user_id".
func ParsePrincipal(tokenString, secret string) (domain.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return domain.Principal{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return domain.Principal{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Principal{}, errors.New("invalid token claims")
	}

	id, _ := claims["sub"].(string)
	if strings.TrimSpace(id) == "" {
		id, _ = claims["user_id"].(string)
	}

	p := domain.Principal{ID: strings.TrimSpace(id)}
	role, _ := claims["role"].(string)
	p.Role = domain.ParseRole(role)

	if !p.Authenticated() {
		return domain.Principal{}, errors.New("subject not found in token")
	}
	return p, nil
}

func abortUnauthorized(c *gin.Context) {
	e := apperror.ErrUnauthorized
	response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
	c.Abort()
}
