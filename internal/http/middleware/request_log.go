package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/platform/ctxutil"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

// RequestLogger writes one line per request. The route pattern is logged instead of
// the raw URL so the manual viewer's ?token= never reaches the log sink.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}
		status := c.Writer.Status()
		fields := requestLogFields(c, status, time.Since(start))

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("HTTP request", fields...)
		case status == http.StatusTooManyRequests:
			log.Warn("HTTP request rate limited", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func requestLogFields(c *gin.Context, status int, elapsed time.Duration) []interface{} {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	fields := []interface{}{
		"method", strings.ToUpper(c.Request.Method),
		"route", route,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
		"client_ip", c.ClientIP(),
	}

	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		if td.TraceID != "" {
			fields = append(fields, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			fields = append(fields, "request_id", td.RequestID)
		}
	}

	// Caller identity; anonymous chat and license traffic has none.
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != uuid.Nil {
		fields = append(fields, "user_id", rd.UserID.String(), "role", rd.Role)
		if rd.ClubID != nil {
			fields = append(fields, "club_id", rd.ClubID.String())
		}
	}

	// Set by RateLimit on the chat and analysis routes.
	h := c.Writer.Header()
	if policy := h.Get(headerRateLimitPolicy); policy != "" {
		fields = append(fields,
			"ratelimit_policy", policy,
			"ratelimit_remaining", h.Get(headerRateLimitRemaining),
		)
	}

	if last := c.Errors.Last(); last != nil {
		fields = append(fields, "error", last.Error())
	}
	return fields
}
