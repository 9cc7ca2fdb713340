package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudentProgress holds the two counters badges are derived from. Both only grow.
type StudentProgress struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex;column:user_id" json:"user_id"`
	PromptsCompleted int                         `gorm:"not null;default:0;column:prompts_completed" json:"prompts_completed"`
	AppsUnlocked     datatypes.JSONSlice[string] `gorm:"column:apps_unlocked" json:"apps_unlocked"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (StudentProgress) TableName() string { return "student_progress" }

func (p *StudentProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.AppsUnlocked == nil {
		p.AppsUnlocked = datatypes.JSONSlice[string]{}
	}
	return nil
}

// HasApp reports whether app is already unlocked.
func (p *StudentProgress) HasApp(app string) bool {
	for _, a := range p.AppsUnlocked {
		if a == app {
			return true
		}
	}
	return false
}
