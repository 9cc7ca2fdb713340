package license

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// LicenseRequest is submitted from the public contact form. Approval creates the club and
// its admin user; ClubID and UserID point at them afterwards.
type LicenseRequest struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationName string     `gorm:"not null;column:organization_name" json:"organization_name"`
	RequesterName    string     `gorm:"not null;column:requester_name" json:"requester_name"`
	Email            string     `gorm:"not null;index;column:email" json:"email"`
	Description      string     `gorm:"type:text;column:description" json:"description"`
	Status           string     `gorm:"not null;default:pending;index;column:status" json:"status"`
	ReviewedBy       *uuid.UUID `gorm:"type:uuid;column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ClubID           *uuid.UUID `gorm:"type:uuid;column:club_id" json:"club_id,omitempty"`
	UserID           *uuid.UUID `gorm:"type:uuid;column:user_id" json:"user_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (LicenseRequest) TableName() string { return "license_request" }

func (r *LicenseRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	return nil
}
