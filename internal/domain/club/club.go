package club

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Club is a licensed organization. Club admins (role "admin") belong to exactly one club.
type Club struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string     `gorm:"not null;uniqueIndex;column:name" json:"name"`
	LicenseRequestID *uuid.UUID `gorm:"type:uuid;index;column:license_request_id" json:"license_request_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Club) TableName() string { return "club" }

func (c *Club) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
