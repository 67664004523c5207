package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimitMiddleware(10, time.Minute)(okHandler())

	// The full per-minute quota is available immediately.
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
		req.RemoteAddr = "198.51.100.7:40000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	req.RemoteAddr = "198.51.100.7:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "11th request within the window")
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimitMiddlewareIsPerRoute(t *testing.T) {
	handler := RateLimitMiddleware(1, time.Minute)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	req.RemoteAddr = "198.51.100.7:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same client, same route: limited.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Same client, different route: fresh window.
	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/players", nil)
	req2.RemoteAddr = "198.51.100.7:40000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req2)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddlewareIsPerClient(t *testing.T) {
	handler := RateLimitMiddleware(1, time.Minute)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	req.RemoteAddr = "198.51.100.7:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	other := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	other.RemoteAddr = "203.0.113.9:40000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code, "a different client has its own window")
}

func TestRateLimitQuotaDoesNotRefillWithinWindow(t *testing.T) {
	l := newRouteLimiter(2, time.Minute)
	base := time.Now()

	ok, _ := l.allow("198.51.100.7|/api/v1/teams/all", base)
	require.True(t, ok)
	ok, _ = l.allow("198.51.100.7|/api/v1/teams/all", base.Add(10*time.Second))
	require.True(t, ok)

	// Spacing requests out inside the window must not regain quota.
	ok, retryAfter := l.allow("198.51.100.7|/api/v1/teams/all", base.Add(30*time.Second))
	assert.False(t, ok, "3rd request within the window, quota is 2")
	assert.Equal(t, 30*time.Second, retryAfter)

	// The next window starts fresh.
	ok, _ = l.allow("198.51.100.7|/api/v1/teams/all", base.Add(time.Minute))
	assert.True(t, ok)
}
