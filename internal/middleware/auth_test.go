package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-crm/internal/auth"
	"github.com/ukydev/fleet-crm/internal/models"
)

func tokenFor(t *testing.T, service *auth.Service, role models.Role) string {
	t.Helper()
	token, err := service.GenerateToken(models.Claims{UserID: "u-42", Username: "noa", Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_Identify(t *testing.T) {
	authService := auth.NewService("test-secret", time.Hour)

	t.Run("valid token", func(t *testing.T) {
		middleware := NewAuthMiddleware(authService, true)
		req := httptest.NewRequest("POST", "/api/riders", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, authService, models.RoleOperator))
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
			claims, ok := GetUserFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, "noa", claims.Username)
			assert.Equal(t, "u-42", ActorFromContext(r.Context()))
		})

		middleware.Identify(handler).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header when optional", func(t *testing.T) {
		middleware := NewAuthMiddleware(authService, false)
		req := httptest.NewRequest("GET", "/api/riders", nil)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
			assert.Equal(t, "", ActorFromContext(r.Context()))
		})

		middleware.Identify(handler).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
	})

	t.Run("missing header when required", func(t *testing.T) {
		middleware := NewAuthMiddleware(authService, true)
		req := httptest.NewRequest("GET", "/api/riders", nil)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { handlerCalled = true })

		middleware.Identify(handler).ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("invalid token", func(t *testing.T) {
		middleware := NewAuthMiddleware(authService, false)
		req := httptest.NewRequest("GET", "/api/riders", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { handlerCalled = true })

		middleware.Identify(handler).ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("viewer cannot write", func(t *testing.T) {
		middleware := NewAuthMiddleware(authService, false)
		token := tokenFor(t, authService, models.RoleViewer)

		read := httptest.NewRequest("GET", "/api/tasks", nil)
		read.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		middleware.Identify(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, read)
		assert.Equal(t, http.StatusOK, w.Code)

		write := httptest.NewRequest("DELETE", "/api/tasks/abc", nil)
		write.Header.Set("Authorization", "Bearer "+token)
		w = httptest.NewRecorder()
		middleware.Identify(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Error("handler must not run")
		})).ServeHTTP(w, write)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("health skips auth", func(t *testing.T) {
		middleware := NewAuthMiddleware(authService, true)
		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { handlerCalled = true })

		middleware.Identify(handler).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
	})
}
