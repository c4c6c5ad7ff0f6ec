package models

import (
	"time"

	"gorm.io/gorm"
)

// InterviewStatus represents the lifecycle of a scheduled interview
type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "scheduled"
	InterviewCompleted InterviewStatus = "completed"
	InterviewCancelled InterviewStatus = "cancelled"
)

// Interview is a scheduled meeting for one application. It may only be
// created once the application has been submitted to the client.
type Interview struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
	OrganizationID  uint            `gorm:"not null;index" json:"organization_id"`
	ApplicationID   uint            `gorm:"not null;index" json:"application_id"`
	Type            string          `gorm:"not null" json:"type"`
	ScheduledDate   time.Time       `gorm:"not null" json:"scheduled_date"`
	DurationMinutes uint            `json:"duration_minutes"`
	Status          InterviewStatus `gorm:"type:varchar(20);default:'scheduled'" json:"status"`
	Feedback        string          `json:"feedback"`
	Rating          uint            `json:"rating"`

	// Relationships
	Application Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}
