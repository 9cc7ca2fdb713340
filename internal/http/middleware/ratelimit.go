package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aiclub-backend/internal/http/response"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/ratelimit"
)

const (
	headerRateLimitLimit     = "RateLimit-Limit"
	headerRateLimitRemaining = "RateLimit-Remaining"
	headerRateLimitReset     = "RateLimit-Reset"
	headerRateLimitPolicy    = "RateLimit-Policy"
)

// RateLimit counts requests per client IP. Store failures let the request through.
func RateLimit(log *logger.Logger, limiter *ratelimit.Limiter) gin.HandlerFunc {
	policy := limiter.Policy()
	mwLog := log.With("middleware", "RateLimit", "policy", policy.Name)
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			mwLog.Warn("Rate limit store unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set(headerRateLimitLimit, strconv.Itoa(res.Limit))
		h.Set(headerRateLimitRemaining, strconv.Itoa(res.Remaining))
		h.Set(headerRateLimitReset, strconv.FormatInt(res.ResetSeconds(), 10))
		h.Set(headerRateLimitPolicy, policy.HeaderValue())

		if !res.Allowed {
			h.Set("Retry-After", strconv.FormatInt(res.ResetSeconds(), 10))
			response.AbortWithError(c, http.StatusTooManyRequests, "rate_limited", fmt.Errorf("%s", policy.Message))
			return
		}
		c.Next()
	}
}
