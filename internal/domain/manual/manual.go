package manual

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Manual is one uploaded version of the trainer manual. Rows are never edited in place;
// a newer version supersedes older ones.
type Manual struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Version     int        `gorm:"not null;uniqueIndex;column:version" json:"version"`
	FileName    string     `gorm:"not null;column:file_name" json:"file_name"`
	StorageKey  string     `gorm:"not null;column:storage_key" json:"-"`
	FileURL     string     `gorm:"-" json:"file_url"`
	ContentType string     `gorm:"not null;column:content_type" json:"content_type"`
	SizeBytes   int64      `gorm:"not null;column:size_bytes" json:"size_bytes"`
	UploadedBy  *uuid.UUID `gorm:"type:uuid;column:uploaded_by" json:"uploaded_by,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Manual) TableName() string { return "manual" }

func (m *Manual) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ManualSequence holds the last version number handed out. It only moves forward,
// so deleting the newest manual never frees its number.
type ManualSequence struct {
	Name  string `gorm:"primaryKey;column:name" json:"name"`
	Value int    `gorm:"not null;column:value" json:"value"`
}

func (ManualSequence) TableName() string { return "manual_sequence" }
