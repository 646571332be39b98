package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterBurst(t *testing.T) {
	rl := NewRateLimiter()

	allowed := 0
	for i := 0; i < 25; i++ {
		if rl.Allow("client-a") {
			allowed++
		}
	}
	assert.Equal(t, 20, allowed, "burst capacity is 20")
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter()

	for i := 0; i < 25; i++ {
		rl.Allow("client-a")
	}
	assert.True(t, rl.Allow("client-b"), "exhausting one key must not affect another")
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter()

	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RateLimitMiddleware(rl))

	var lastCode int
	for i := 0; i < 25; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		lastCode = rec.Code
	}
	require.Equal(t, http.StatusTooManyRequests, lastCode)
}
