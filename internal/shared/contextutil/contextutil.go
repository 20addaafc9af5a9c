package contextutil

import (
	"context"

	"go-school/internal/domain"

	"go.uber.org/zap"
)

// contextKey adalah tipe privat agar tidak terjadi tabrakan key dengan library lain
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	principalKey contextKey = "principal"
	loggerKey    contextKey = "logger"
)

// --- Request ID Helpers ---

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

// --- User ID Helpers ---

func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}

func GetUserID(ctx context.Context) string {
	if uid, ok := ctx.Value(userIDKey).(string); ok {
		return uid
	}
	return ""
}

// --- Principal Helpers ---

// WithPrincipal stores the authenticated actor resolved by the auth middleware.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	ctx = context.WithValue(ctx, principalKey, p)
	return WithUserID(ctx, p.ID)
}

// GetPrincipal returns the actor of the request, or an unauthenticated principal
// with role norole when none was resolved.
func GetPrincipal(ctx context.Context) domain.Principal {
	if p, ok := ctx.Value(principalKey).(domain.Principal); ok {
		return p
	}
	return domain.Principal{Role: domain.RoleNone}
}

// --- Logger Helpers ---

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithLoggerFields adds fields to the request logger, if one is attached.
func WithLoggerFields(ctx context.Context, fields ...zap.Field) context.Context {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return WithLogger(ctx, l.With(fields...))
	}
	return ctx
}

// GetLogger mengambil logger dari context.
// Jika tidak ada, mengembalikan fallback (defaultLogger) agar tidak panic.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}

	if defaultLogger != nil {
		return defaultLogger
	}

	return zap.NewNop()
}

type Metadata struct {
	RequestID string
	UserID    string
}

func ExtractMetadata(ctx context.Context) Metadata {
	return Metadata{
		RequestID: GetRequestID(ctx),
		UserID:    GetUserID(ctx),
	}
}
