package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/yungbote/aiclub-backend/internal/domain"
	httpH "github.com/yungbote/aiclub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/aiclub-backend/internal/http/middleware"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/ratelimit"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	TrustedProxies []string

	AuthMiddleware  *httpMW.AuthMiddleware
	ChatLimiter     *ratelimit.Limiter
	AnalysisLimiter *ratelimit.Limiter

	AuthHandler          *httpH.AuthHandler
	UserHandler          *httpH.UserHandler
	AgentHandler         *httpH.AgentHandler
	DynamicPromptHandler *httpH.DynamicPromptHandler
	ProgressHandler      *httpH.ProgressHandler
	TutorHandler         *httpH.TutorHandler
	AdminHandler         *httpH.AdminHandler
	LicenseHandler       *httpH.LicenseHandler
	ManualHandler        *httpH.ManualHandler
	HealthHandler        *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	am := cfg.AuthMiddleware
	superAdmin := []gin.HandlerFunc{am.RequireAuth(), am.RequireRole(types.RoleSuperAdmin)}
	anyAdmin := []gin.HandlerFunc{am.RequireAuth(), am.RequireRole(types.RoleAdmin, types.RoleSuperAdmin)}
	manualViewer := []gin.HandlerFunc{am.RequireAuthAllowQueryToken(), am.RequireRole(types.RoleAdmin, types.RoleSuperAdmin)}
	learner := []gin.HandlerFunc{am.RequireAuth(), am.RequireRole(types.RoleStudent, types.RoleAdmin, types.RoleSuperAdmin)}

	with := func(mw []gin.HandlerFunc, h ...gin.HandlerFunc) []gin.HandlerFunc {
		out := make([]gin.HandlerFunc, 0, len(mw)+len(h))
		return append(append(out, mw...), h...)
	}

	api := r.Group("/api")

	// Auth
	if cfg.AuthHandler != nil {
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
		api.POST("/logout", am.RequireAuth(), cfg.AuthHandler.Logout)
	}

	// Users
	if cfg.UserHandler != nil {
		api.GET("/me", am.RequireAuth(), cfg.UserHandler.GetMe)
		api.POST("/users/register", with(superAdmin, cfg.UserHandler.Register)...)
	}

	// Agents
	if cfg.AgentHandler != nil {
		api.GET("/agents", am.OptionalAuth(), cfg.AgentHandler.List)
		api.GET("/agents/embed-url", cfg.AgentHandler.EmbedURL)
		api.GET("/agents/:id", am.OptionalAuth(), cfg.AgentHandler.Get)
		api.GET("/agents/:id/icon", cfg.AgentHandler.Icon)
		api.POST("/agents/create-agent", with(superAdmin, cfg.AgentHandler.Create)...)
		api.PUT("/agents/:id", with(superAdmin, cfg.AgentHandler.Update)...)
		api.DELETE("/agents/:id", with(superAdmin, cfg.AgentHandler.Delete)...)
	}
	if cfg.DynamicPromptHandler != nil {
		api.GET("/agents/dynamic-prompts", with(superAdmin, cfg.DynamicPromptHandler.List)...)
		api.POST("/agents/dynamic-prompts", with(superAdmin, cfg.DynamicPromptHandler.Create)...)
		api.PUT("/agents/dynamic-prompts/:id", with(superAdmin, cfg.DynamicPromptHandler.Update)...)
		api.DELETE("/agents/dynamic-prompts/:id", with(superAdmin, cfg.DynamicPromptHandler.Delete)...)
	}

	// Progress
	if cfg.ProgressHandler != nil {
		api.GET("/progress", with(learner, cfg.ProgressHandler.Get)...)
		api.POST("/progress/apps", with(learner, cfg.ProgressHandler.UnlockApp)...)
	}

	// Tutor (rate limited per client IP)
	if cfg.TutorHandler != nil {
		chat := with(learner)
		if cfg.ChatLimiter != nil {
			chat = append(chat, httpMW.RateLimit(cfg.Log, cfg.ChatLimiter))
		}
		api.POST("/chat", append(chat, cfg.TutorHandler.Chat)...)

		analysis := []gin.HandlerFunc{am.RequireAuth()}
		if cfg.AnalysisLimiter != nil {
			analysis = append(analysis, httpMW.RateLimit(cfg.Log, cfg.AnalysisLimiter))
		}
		api.POST("/analysis", append(analysis, cfg.TutorHandler.Analyze)...)
	}

	// Admin dashboard
	if cfg.AdminHandler != nil {
		api.GET("/admin", with(superAdmin, cfg.AdminHandler.ListUsers)...)
		api.GET("/admin/dashboard-counts", with(superAdmin, cfg.AdminHandler.DashboardCounts)...)
		api.GET("/admin/clubs", with(superAdmin, cfg.AdminHandler.ListClubs)...)
		api.PUT("/admin/:id", with(superAdmin, cfg.AdminHandler.UpdateUser)...)
		api.DELETE("/students/:id", with(superAdmin, cfg.AdminHandler.DeleteStudent)...)
	}

	// License requests
	if cfg.LicenseHandler != nil {
		api.POST("/license-requests", cfg.LicenseHandler.Submit)
		api.DELETE("/license-requests/:id", with(superAdmin, cfg.LicenseHandler.Delete)...)
		api.GET("/admin/license-requests", with(superAdmin, cfg.LicenseHandler.List)...)
		api.POST("/admin/license-requests/:id/approve", with(superAdmin, cfg.LicenseHandler.Approve)...)
		api.POST("/admin/license-requests/:id/reject", with(superAdmin, cfg.LicenseHandler.Reject)...)
	}

	// Trainer manuals
	if cfg.ManualHandler != nil {
		api.GET("/manuals", with(superAdmin, cfg.ManualHandler.List)...)
		api.POST("/manuals", with(superAdmin, cfg.ManualHandler.Upload)...)
		api.GET("/manuals/latest", with(anyAdmin, cfg.ManualHandler.Latest)...)
		api.GET("/manuals/view/:id", with(manualViewer, cfg.ManualHandler.View)...)
		api.DELETE("/manuals/:id", with(superAdmin, cfg.ManualHandler.Delete)...)
	}

	return r, nil
}
