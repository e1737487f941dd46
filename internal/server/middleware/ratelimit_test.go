package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/fitsync/internal/server/handlers"
)

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(1, 3, time.Minute, discardLogger())
	defer limiter.Stop()

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("ip:10.0.0.1"), "burst request %d", i+1)
	}
	assert.False(t, limiter.Allow("ip:10.0.0.1"))

	// другие ключи считаются отдельно
	assert.True(t, limiter.Allow("ip:10.0.0.2"))

	// через секунду восстанавливается один токен
	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("ip:10.0.0.1"))
	assert.False(t, limiter.Allow("ip:10.0.0.1"))
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	limiter := NewRateLimiter(1, 1, time.Minute, discardLogger())
	defer limiter.Stop()

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("ip:a")
	now = now.Add(30 * time.Second)
	limiter.Allow("ip:b")

	now = now.Add(45 * time.Second)
	limiter.evictIdle()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.limiters, "ip:a")
	assert.Contains(t, limiter.limiters, "ip:b")
}

func TestRateLimiter_Middleware(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2, time.Minute, discardLogger())
	defer limiter.Stop()

	handler := limiter.Middleware(KeyByIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tables/runs/records", nil)
		req.RemoteAddr = "192.168.1.10:50123"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// тот же клиент с другого порта делит лимит
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:60000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestKeyFuncs(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		user    string
		want    string
	}{
		{name: "remote addr", remote: "10.1.1.1:1234", want: "ip:10.1.1.1"},
		{name: "remote addr without port", remote: "10.1.1.1", want: "ip:10.1.1.1"},
		{name: "forwarded chain", remote: "10.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, want: "ip:203.0.113.5"},
		{name: "real ip", remote: "10.0.0.1:1", headers: map[string]string{"X-Real-IP": "198.51.100.7"}, want: "ip:198.51.100.7"},
		{name: "authenticated user", remote: "10.0.0.1:1", user: "user-1", want: "user:user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if tt.user != "" {
				req = req.WithContext(handlers.WithUserID(req.Context(), tt.user))
			}
			assert.Equal(t, tt.want, KeyByUser(req))
		})
	}
}
