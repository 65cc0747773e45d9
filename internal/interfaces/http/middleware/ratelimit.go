package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/bizdesk/backend/internal/infrastructure/cache"
	"github.com/bizdesk/backend/internal/infrastructure/logger"
	"github.com/bizdesk/backend/internal/infrastructure/telemetry"
	"github.com/bizdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitConfig configures a rate limiting middleware
type RateLimitConfig struct {
	// Name labels the limiter in keys, logs and metrics ("api", "auth")
	Name    string
	Limiter cache.RateLimiter
	// KeyFunc extracts the client key; defaults to the client IP
	KeyFunc func(*gin.Context) string
	Metrics *telemetry.Metrics
	Logger  *zap.Logger
}

// RateLimit returns a rate limiting middleware over cfg.Limiter.
// Limiter backend errors are logged and the request is let through.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		decision, err := cfg.Limiter.Allow(ctx, keyFunc(c))
		if err != nil {
			logger.Enrich(ctx, log).Error("Rate limiter unavailable", zap.String("limiter", cfg.Name), zap.Error(err))
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := int(math.Ceil(time.Until(decision.ResetAt).Seconds()))
			h.Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			cfg.Metrics.RecordRateLimited(ctx, cfg.Name)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
			))
			return
		}

		c.Next()
	}
}
