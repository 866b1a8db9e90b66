package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"khushi/internal/config"
	"khushi/internal/middleware"
)

func rateLimitedRouter(rl *middleware.TenantRateLimiter, tenantID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if tenantID != uuid.Nil {
			c.Set(middleware.ContextKeyTenantID, tenantID)
		}
		c.Next()
	})
	r.Use(rl.Middleware())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	r.ServeHTTP(w, req)
	return w
}

func TestTenantRateLimiter_RejectsOverBurst(t *testing.T) {
	// A negligible refill rate makes the burst the whole budget.
	rl := middleware.NewTenantRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})
	r := rateLimitedRouter(rl, uuid.New())

	assert.Equal(t, http.StatusOK, hit(r).Code)
	assert.Equal(t, http.StatusOK, hit(r).Code)

	w := hit(r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestTenantRateLimiter_TenantsAreIndependent(t *testing.T) {
	rl := middleware.NewTenantRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})
	first := rateLimitedRouter(rl, uuid.New())
	second := rateLimitedRouter(rl, uuid.New())

	assert.Equal(t, http.StatusOK, hit(first).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(first).Code)
	assert.Equal(t, http.StatusOK, hit(second).Code)
}

func TestTenantRateLimiter_NoTenantPassesThrough(t *testing.T) {
	rl := middleware.NewTenantRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})
	r := rateLimitedRouter(rl, uuid.Nil)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r).Code)
	}
}
