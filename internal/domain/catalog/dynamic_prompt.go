package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DynamicPrompt is a system/user prompt pair attached to an agent. An agent can carry several.
type DynamicPrompt struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AgentID      uuid.UUID `gorm:"type:uuid;not null;index;column:agent_id" json:"agent_id"`
	Agent        *Agent    `gorm:"constraint:OnDelete:CASCADE;foreignKey:AgentID;references:ID" json:"-"`
	SystemPrompt string    `gorm:"type:text;not null;column:system_prompt" json:"system_prompt"`
	UserPrompt   string    `gorm:"type:text;column:user_prompt" json:"user_prompt"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (DynamicPrompt) TableName() string { return "dynamic_prompt" }

func (p *DynamicPrompt) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
