package domain

import (
	"github.com/yungbote/aiclub-backend/internal/domain/auth"
	"github.com/yungbote/aiclub-backend/internal/domain/catalog"
	"github.com/yungbote/aiclub-backend/internal/domain/club"
	"github.com/yungbote/aiclub-backend/internal/domain/license"
	"github.com/yungbote/aiclub-backend/internal/domain/manual"
	"github.com/yungbote/aiclub-backend/internal/domain/progress"
	"github.com/yungbote/aiclub-backend/internal/domain/user"
)

const (
	RoleSuperAdmin = user.RoleSuperAdmin
	RoleAdmin      = user.RoleAdmin
	RoleStudent    = user.RoleStudent

	LicenseStatusPending  = license.StatusPending
	LicenseStatusApproved = license.StatusApproved
	LicenseStatusRejected = license.StatusRejected
)

var (
	ValidRole          = user.ValidRole
	ValidLicenseStatus = license.ValidStatus
)

type User = user.User
type UserToken = auth.UserToken
type Club = club.Club

type Agent = catalog.Agent
type DynamicPrompt = catalog.DynamicPrompt

type StudentProgress = progress.StudentProgress

type LicenseRequest = license.LicenseRequest

type Manual = manual.Manual
type ManualSequence = manual.ManualSequence

// Models lists every table AutoMigrate manages, parents first.
func Models() []any {
	return []any{
		&User{},
		&UserToken{},
		&Club{},
		&Agent{},
		&DynamicPrompt{},
		&StudentProgress{},
		&LicenseRequest{},
		&Manual{},
		&ManualSequence{},
	}
}
