package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_RateLimit(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	middleware := NewRateLimitMiddleware()
	middleware.now = func() time.Time { return now }
	handler := middleware.RateLimit(2, time.Minute)(okHandler())

	call := func(ip string) int {
		req := httptest.NewRequest("GET", "/api/riders", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("192.168.1.1"))
	assert.Equal(t, http.StatusOK, call("192.168.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("192.168.1.1"))
	assert.Equal(t, http.StatusOK, call("192.168.1.2"))

	now = now.Add(61 * time.Second)
	assert.Equal(t, http.StatusOK, call("192.168.1.1"))

	now = now.Add(10 * time.Minute)
	middleware.Prune(time.Minute)
	assert.Empty(t, middleware.requests)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	handler := NewRateLimitMiddleware().RateLimit(0, time.Minute)(okHandler())
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{"X-Forwarded-For", map[string]string{"X-Forwarded-For": "192.168.1.1, 10.0.0.1"}, "127.0.0.1:8080", "192.168.1.1"},
		{"X-Real-IP", map[string]string{"X-Real-IP": "192.168.1.2"}, "127.0.0.1:8080", "192.168.1.2"},
		{"RemoteAddr", map[string]string{}, "192.168.1.3:8080", "192.168.1.3"},
		{"IPv6 RemoteAddr", map[string]string{}, "[::1]:8080", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}

func TestCORS(t *testing.T) {
	t.Run("preflight answered", func(t *testing.T) {
		handlerCalled := false
		h := CORS(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { handlerCalled = true }))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/vehicles/123", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, handlerCalled)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list", func(t *testing.T) {
		h := CORS([]string{"https://crm.example"})(okHandler())

		req := httptest.NewRequest("GET", "/api/vehicles", nil)
		req.Header.Set("Origin", "https://crm.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "https://crm.example", w.Header().Get("Access-Control-Allow-Origin"))

		req.Header.Set("Origin", "https://evil.example")
		w = httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestIDAndAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	var seenID string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		assert.NotNil(t, LoggerFromContext(r.Context(), nil))
		w.WriteHeader(http.StatusTeapot)
	}), RequestID, AccessLog(log))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/tasks", nil))

	assert.NotEmpty(t, seenID)
	assert.Equal(t, seenID, w.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), seenID)
	assert.Contains(t, buf.String(), `"status":418`)

	req := httptest.NewRequest("GET", "/api/tasks", nil)
	req.Header.Set("X-Request-ID", "given-id")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "given-id", seenID)
}
