package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/aiclub-backend/internal/http/response"
	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
	"github.com/yungbote/aiclub-backend/internal/platform/ctxutil"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireAuth only accepts the Authorization header.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return am.requireAuth(false)
}

// RequireAuthAllowQueryToken also accepts ?token= so the manual viewer can be
// embedded in an iframe. Use it on that route only; query strings end up in logs.
func (am *AuthMiddleware) RequireAuthAllowQueryToken() gin.HandlerFunc {
	return am.requireAuth(true)
}

func (am *AuthMiddleware) requireAuth(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c, allowQuery)
		if tokenString == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			if ae, ok := apierr.As(err); ok {
				response.AbortWithError(c, http.StatusUnauthorized, ae.Code, ae)
				return
			}
			am.log.Error("Token check failed", "error", err)
			response.RespondAPIError(c, err)
			c.Abort()
			return
		}
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			response.AbortWithError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// OptionalAuth attaches request data when a valid token is present and otherwise
// lets the request through anonymously.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := extractToken(c, false); tokenString != "" {
			if ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString); err == nil {
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (am *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil {
			response.AbortWithError(c, http.StatusUnauthorized, "unauthorized", errors.New("authentication required"))
			return
		}
		for _, r := range roles {
			if rd.Role == r {
				c.Next()
				return
			}
		}
		response.AbortWithError(c, http.StatusForbidden, "forbidden", errors.New("insufficient role"))
	}
}

func extractToken(c *gin.Context, allowQuery bool) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if allowQuery {
		return strings.TrimSpace(c.Query("token"))
	}
	return ""
}
