package app

import (
	"fmt"
	"os"

	"github.com/benbjohnson/clock"
	"gorm.io/gorm"

	"github.com/yungbote/aiclub-backend/internal/data/aggregates"
	"github.com/yungbote/aiclub-backend/internal/learning/badges"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"github.com/yungbote/aiclub-backend/internal/services"
)

type Services struct {
	Auth          services.AuthService
	User          services.UserService
	Agent         services.AgentService
	AgentIcon     services.AgentIconService
	DynamicPrompt services.DynamicPromptService
	Progress      services.ProgressService
	Tutor         services.TutorService
	Admin         services.AdminService
	License       services.LicenseService
	Manual        services.ManualService
}

func loadBadgeTable(path string) (badges.Table, error) {
	if path == "" {
		return badges.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return badges.Table{}, fmt.Errorf("read badge table: %w", err)
	}
	return badges.Parse(raw)
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, clk clock.Clock) (Services, error) {
	log.Info("Wiring services...")

	tx := aggregates.NewGormTxRunner(db, log)

	table, err := loadBadgeTable(cfg.BadgesFile)
	if err != nil {
		return Services{}, err
	}

	icons, err := services.NewAgentIconService(log)
	if err != nil {
		return Services{}, fmt.Errorf("init agent icon service: %w", err)
	}

	authService := services.NewAuthService(log, tx, repos.User, repos.UserToken, services.AuthConfig{
		JWTSecret:  cfg.JWTSecretKey,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		Clock:      clk,
	})
	userService := services.NewUserService(log, repos.User, repos.Club)
	progressService := services.NewProgressService(log, tx, repos.Progress, repos.Agent, table)

	return Services{
		Auth:          authService,
		User:          userService,
		Agent:         services.NewAgentService(log, repos.Agent, icons),
		AgentIcon:     icons,
		DynamicPrompt: services.NewDynamicPromptService(log, repos.Agent, repos.DynamicPrompt),
		Progress:      progressService,
		Tutor:         services.NewTutorService(log, tx, repos.Agent, repos.DynamicPrompt, progressService, clients.OpenAI),
		Admin: services.NewAdminService(
			log,
			repos.User,
			repos.Club,
			repos.UserToken,
			repos.Agent,
			repos.LicenseRequest,
			repos.Manual,
		),
		License: services.NewLicenseService(log, tx, repos.LicenseRequest, repos.Club, userService, clk),
		Manual:  services.NewManualService(log, tx, repos.Manual, clients.GcpBucket),
	}, nil
}
