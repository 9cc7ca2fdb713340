package repos

import (
	"github.com/yungbote/aiclub-backend/internal/data/repos/auth"
	"github.com/yungbote/aiclub-backend/internal/data/repos/catalog"
	"github.com/yungbote/aiclub-backend/internal/data/repos/club"
	"github.com/yungbote/aiclub-backend/internal/data/repos/license"
	"github.com/yungbote/aiclub-backend/internal/data/repos/manual"
	"github.com/yungbote/aiclub-backend/internal/data/repos/progress"
	"github.com/yungbote/aiclub-backend/internal/data/repos/user"
	"github.com/yungbote/aiclub-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type UserListFilter = user.ListFilter
type UserTokenRepo = auth.UserTokenRepo
type ClubRepo = club.ClubRepo

type AgentRepo = catalog.AgentRepo
type DynamicPromptRepo = catalog.DynamicPromptRepo

type StudentProgressRepo = progress.StudentProgressRepo

type LicenseRequestRepo = license.LicenseRequestRepo

type ManualRepo = manual.ManualRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewUserTokenRepo(db *gorm.DB, log *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, log)
}
func NewClubRepo(db *gorm.DB, log *logger.Logger) ClubRepo { return club.NewClubRepo(db, log) }

func NewAgentRepo(db *gorm.DB, log *logger.Logger) AgentRepo { return catalog.NewAgentRepo(db, log) }
func NewDynamicPromptRepo(db *gorm.DB, log *logger.Logger) DynamicPromptRepo {
	return catalog.NewDynamicPromptRepo(db, log)
}

func NewStudentProgressRepo(db *gorm.DB, log *logger.Logger) StudentProgressRepo {
	return progress.NewStudentProgressRepo(db, log)
}

func NewLicenseRequestRepo(db *gorm.DB, log *logger.Logger) LicenseRequestRepo {
	return license.NewLicenseRequestRepo(db, log)
}

func NewManualRepo(db *gorm.DB, log *logger.Logger) ManualRepo { return manual.NewManualRepo(db, log) }
