package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnhub/internal/infrastructure/ratelimit"
	sharedConfig "learnhub/internal/shared/config"
	"learnhub/internal/shared/utils"
)

// RateLimitMiddleware enforces per-IP request limits through the shared
// Redis-backed limiter, so limits hold across instances.
type RateLimitMiddleware struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.RateLimitConfig
	enabled bool
}

func NewRateLimitMiddleware(limiter ratelimit.RateLimiter, cfg sharedConfig.RateLimitConfig) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		config: ratelimit.RateLimitConfig{
			RequestsPerMinute: cfg.RequestsPerMinute,
			RequestsPerHour:   cfg.RequestsPerHour,
		},
		enabled: cfg.Enabled,
	}
}

func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		allowed, err := m.limiter.Allow("ip:"+c.ClientIP(), m.config)
		if err != nil {
			// Redis unavailable; letting traffic through beats a full outage.
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
