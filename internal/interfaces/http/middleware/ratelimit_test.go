package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bizdesk/backend/internal/infrastructure/cache"
	"github.com/bizdesk/backend/internal/infrastructure/telemetry"
	"github.com/bizdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func rateLimitedRouter(cfg RateLimitConfig) *gin.Engine {
	router := gin.New()
	router.Use(RateLimit(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func hit(router http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	t.Run("allows requests within limit and sets headers", func(t *testing.T) {
		router := rateLimitedRouter(RateLimitConfig{Name: "api", Limiter: cache.NewMemoryRateLimiter(3, time.Minute)})

		w := hit(router, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	})

	t.Run("rejects once the window is used up", func(t *testing.T) {
		router := rateLimitedRouter(RateLimitConfig{Name: "api", Limiter: cache.NewMemoryRateLimiter(2, time.Minute)})

		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.2:1").Code)
		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.2:1").Code)

		w := hit(router, "10.0.0.2:1")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("Retry-After"))
		assert.Equal(t, dto.ErrCodeRateLimited, errorCode(t, w))
	})

	t.Run("limits each client separately", func(t *testing.T) {
		router := rateLimitedRouter(RateLimitConfig{Name: "api", Limiter: cache.NewMemoryRateLimiter(1, time.Minute)})

		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.3:1").Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(router, "10.0.0.3:1").Code)
		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.4:1").Code)
	})

	t.Run("custom key function", func(t *testing.T) {
		router := rateLimitedRouter(RateLimitConfig{
			Name:    "api",
			Limiter: cache.NewMemoryRateLimiter(1, time.Minute),
			KeyFunc: func(*gin.Context) string { return "everyone" },
		})

		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.5:1").Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(router, "10.0.0.6:1").Code)
	})

	t.Run("window resets", func(t *testing.T) {
		router := rateLimitedRouter(RateLimitConfig{Name: "api", Limiter: cache.NewMemoryRateLimiter(1, 50*time.Millisecond)})

		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.7:1").Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(router, "10.0.0.7:1").Code)
		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.7:1").Code)
	})
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (cache.Decision, error) {
	return cache.Decision{}, errors.New("connection refused")
}

func TestRateLimit_BackendErrorLetsRequestThrough(t *testing.T) {
	router := rateLimitedRouter(RateLimitConfig{Name: "api", Limiter: brokenLimiter{}})

	w := hit(router, "10.0.0.8:1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_RecordsRejections(t *testing.T) {
	mp, reader := setupTestMeter(t)
	metrics, err := telemetry.NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	router := rateLimitedRouter(RateLimitConfig{
		Name:    "auth",
		Limiter: cache.NewMemoryRateLimiter(1, time.Minute),
		Metrics: metrics,
	})
	hit(router, "10.0.0.9:1")
	hit(router, "10.0.0.9:1")
	hit(router, "10.0.0.9:1")

	m := findMetricByName(collectMetrics(t, reader), "http.server.rate_limited")
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	limiter, _ := sum.DataPoints[0].Attributes.Value("limiter")
	assert.Equal(t, "auth", limiter.AsString())
}
