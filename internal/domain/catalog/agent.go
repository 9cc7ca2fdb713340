package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Agent is an AI-tutor profile shown in the catalog. Icon bytes live in the row and are
// served from their own endpoint, so they never appear in JSON.
type Agent struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"not null;column:title" json:"title"`
	Subtitle        string    `gorm:"column:subtitle" json:"subtitle"`
	Prompt          string    `gorm:"type:text;column:prompt" json:"prompt"`
	ToolName        string    `gorm:"index;column:tool_name" json:"tool_name"`
	Icon            []byte    `gorm:"column:icon" json:"-"`
	IconContentType string    `gorm:"column:icon_content_type" json:"-"`
	IconPresent     bool      `gorm:"->;column:icon_present;-:migration" json:"-"`
	VideoURL        string    `gorm:"column:video_url" json:"video_url,omitempty"`
	IsActive        bool      `gorm:"not null;index;column:is_active" json:"is_active"`
	DisplayOrder    int       `gorm:"not null;default:0;index;column:display_order" json:"display_order"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Agent) TableName() string { return "agent" }

func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// HasIcon is true when the row carries icon bytes or was listed with the icon_present projection.
func (a *Agent) HasIcon() bool { return a != nil && (a.IconPresent || len(a.Icon) > 0) }
