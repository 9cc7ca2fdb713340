package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/aiclub-backend/internal/http"
	httpH "github.com/yungbote/aiclub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/aiclub-backend/internal/http/middleware"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/ratelimit"
)

type Middleware struct {
	Auth            *httpMW.AuthMiddleware
	ChatLimiter     *ratelimit.Limiter
	AnalysisLimiter *ratelimit.Limiter
}

type Handlers struct {
	Health        *httpH.HealthHandler
	Auth          *httpH.AuthHandler
	User          *httpH.UserHandler
	Agent         *httpH.AgentHandler
	DynamicPrompt *httpH.DynamicPromptHandler
	Progress      *httpH.ProgressHandler
	Tutor         *httpH.TutorHandler
	Admin         *httpH.AdminHandler
	License       *httpH.LicenseHandler
	Manual        *httpH.ManualHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) (Handlers, error) {
	log.Info("Wiring handlers...")
	sqlDB, err := db.DB()
	if err != nil {
		return Handlers{}, err
	}
	return Handlers{
		Health:        httpH.NewHealthHandler(sqlDB),
		Auth:          httpH.NewAuthHandler(log, services.Auth),
		User:          httpH.NewUserHandler(log, services.User),
		Agent:         httpH.NewAgentHandler(log, services.Agent),
		DynamicPrompt: httpH.NewDynamicPromptHandler(log, services.DynamicPrompt),
		Progress:      httpH.NewProgressHandler(log, services.Progress),
		Tutor:         httpH.NewTutorHandler(log, services.Tutor),
		Admin:         httpH.NewAdminHandler(log, services.Admin),
		License:       httpH.NewLicenseHandler(log, services.License),
		Manual:        httpH.NewManualHandler(log, services.Manual),
	}, nil
}

func wireMiddleware(log *logger.Logger, services Services, store ratelimit.Store) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:            httpMW.NewAuthMiddleware(log, services.Auth),
		ChatLimiter:     ratelimit.NewLimiter(ratelimit.ChatPolicy, store),
		AnalysisLimiter: ratelimit.NewLimiter(ratelimit.AnalysisPolicy, store),
	}
}

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) http.RouterConfig {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.RouterConfig{
		Log:             log,
		ServiceName:     serviceName,
		AllowedOrigins:  cfg.AllowedOrigins,
		TrustedProxies:  cfg.TrustedProxies,
		AuthMiddleware:  middleware.Auth,
		ChatLimiter:     middleware.ChatLimiter,
		AnalysisLimiter: middleware.AnalysisLimiter,

		AuthHandler:          handlers.Auth,
		UserHandler:          handlers.User,
		AgentHandler:         handlers.Agent,
		DynamicPromptHandler: handlers.DynamicPrompt,
		ProgressHandler:      handlers.Progress,
		TutorHandler:         handlers.Tutor,
		AdminHandler:         handlers.Admin,
		LicenseHandler:       handlers.License,
		ManualHandler:        handlers.Manual,
		HealthHandler:        handlers.Health,
	}
}
