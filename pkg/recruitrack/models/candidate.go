package models

import (
	"time"

	"gorm.io/gorm"
)

// Candidate represents a person being tracked for placement
type Candidate struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	FirstName      string         `gorm:"not null" json:"first_name"`
	LastName       string         `gorm:"not null" json:"last_name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Location       string         `json:"location"`
	CurrentTitle   string         `json:"current_title"`
	CurrentCompany string         `json:"current_company"`
	LinkedIn       string         `json:"linkedin"`
	Skills         []string       `gorm:"serializer:json" json:"skills"`
	Rating         uint           `json:"rating"`
	Status         string         `gorm:"type:varchar(20);default:'active'" json:"status"`

	// Relationships
	Applications []Application `gorm:"foreignKey:CandidateID" json:"applications,omitempty"`
}
