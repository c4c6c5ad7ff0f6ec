package models

import (
	"time"

	"gorm.io/gorm"
)

// Activity is a free-form timestamped note attached to any entity.
// No invariants beyond ownership scoping.
type Activity struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	EntityType     string         `gorm:"not null;index:idx_activity_entity" json:"entity_type"`
	EntityID       uint           `gorm:"not null;index:idx_activity_entity" json:"entity_id"`
	CreatedByID    uint           `gorm:"not null" json:"created_by_id"`
	Note           string         `gorm:"not null" json:"note"`

	// Relationships
	CreatedBy User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
