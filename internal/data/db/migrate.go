package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/aiclub-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsureIndexes(db)
}

// EnsureIndexes creates composite indexes the struct tags cannot express.
// The statements are portable between postgres and sqlite.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []string{
		// Soft-deleted users must not block their email from registering again.
		`DROP INDEX IF EXISTS idx_user_email;`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_email_live ON "user"(email) WHERE deleted_at IS NULL;`,
		`CREATE INDEX IF NOT EXISTS idx_user_role_club ON "user"(role, club_id);`,
		`CREATE INDEX IF NOT EXISTS idx_license_request_status_created ON license_request(status, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_agent_active_order ON agent(is_active, display_order);`,
		`CREATE INDEX IF NOT EXISTS idx_dynamic_prompt_agent_created ON dynamic_prompt(agent_id, created_at);`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}
