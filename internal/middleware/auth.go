package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-crm/internal/apperr"
	"github.com/ukydev/fleet-crm/internal/auth"
	"github.com/ukydev/fleet-crm/internal/models"
	"github.com/ukydev/fleet-crm/internal/respond"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	UserContextKey      contextKey = "user"
	RequestIDContextKey contextKey = "request_id"
	LoggerContextKey    contextKey = "logger"
)

// AuthMiddleware identifies the user behind a request.
type AuthMiddleware struct {
	authService *auth.Service
	required    bool
}

// NewAuthMiddleware creates the identify middleware. With required set,
// requests without a token are rejected.
func NewAuthMiddleware(authService *auth.Service, required bool) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		required:    required,
	}
}

// Identify validates the bearer token, if any, and adds its claims to the
// request context. Viewers may only read.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		log := LoggerFromContext(r.Context(), nil)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			if m.required {
				respond.Error(w, log, apperr.Unauthorized("authorization header required", nil))
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		token, err := m.authService.ExtractTokenFromHeader(authHeader)
		if err != nil {
			respond.Error(w, log, apperr.Unauthorized("invalid token", err))
			return
		}
		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token expired"
			}
			respond.Error(w, log, apperr.Unauthorized(msg, err))
			return
		}

		if isWrite(r.Method) && !claims.CanWrite() {
			respond.Error(w, log, apperr.Forbidden("insufficient permissions"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// GetUserFromContext extracts user claims from request context
func GetUserFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)
	return claims, ok
}

// ActorFromContext returns the id of the acting user, or "" for anonymous
// requests.
func ActorFromContext(ctx context.Context) string {
	if claims, ok := GetUserFromContext(ctx); ok {
		return claims.UserID
	}
	return ""
}

// LoggerFromContext returns the request-scoped logger, or fallback.
func LoggerFromContext(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if log, ok := ctx.Value(LoggerContextKey).(logrus.FieldLogger); ok {
		return log
	}
	return fallback
}

// RequestIDFromContext returns the request id set by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}
