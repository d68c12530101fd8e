package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(3, time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.Equal(t, 0, rl.Remaining("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "keys are independent")

	now = now.Add(time.Minute)
	assert.Equal(t, 3, rl.Remaining("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"), "window reset")

	now = now.Add(5 * time.Minute)
	rl.Allow("10.0.0.3")
	rl.mu.Lock()
	_, stale := rl.clients["10.0.0.2"]
	rl.mu.Unlock()
	assert.False(t, stale, "idle clients are evicted")
}

func TestLoginRateLimit(t *testing.T) {
	router := gin.New()
	router.Use(LoginRateLimit(NewRateLimiter(2, time.Minute)))
	router.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "192.168.1.100:12345"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, send().Code)

	blocked := send()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Contains(t, blocked.Body.String(), "ERR_RATE_LIMITED")
}
