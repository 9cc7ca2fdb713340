package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/aiclub-backend/internal/data/repos"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
)

type Repos struct {
	User           repos.UserRepo
	UserToken      repos.UserTokenRepo
	Club           repos.ClubRepo
	Agent          repos.AgentRepo
	DynamicPrompt  repos.DynamicPromptRepo
	Progress       repos.StudentProgressRepo
	LicenseRequest repos.LicenseRequestRepo
	Manual         repos.ManualRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		UserToken:      repos.NewUserTokenRepo(db, log),
		Club:           repos.NewClubRepo(db, log),
		Agent:          repos.NewAgentRepo(db, log),
		DynamicPrompt:  repos.NewDynamicPromptRepo(db, log),
		Progress:       repos.NewStudentProgressRepo(db, log),
		LicenseRequest: repos.NewLicenseRequestRepo(db, log),
		Manual:         repos.NewManualRepo(db, log),
	}
}
