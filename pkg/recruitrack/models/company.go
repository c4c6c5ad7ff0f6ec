package models

import (
	"time"

	"gorm.io/gorm"
)

// Company represents a client company that posts jobs
type Company struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	Name           string         `gorm:"not null" json:"name"`
	Industry       string         `json:"industry"`
	Location       string         `json:"location"`
	Website        string         `json:"website"`
	Notes          string         `json:"notes"`

	// Relationships
	Contacts []CompanyContact `gorm:"foreignKey:CompanyID" json:"contacts,omitempty"`
	Jobs     []Job            `gorm:"foreignKey:CompanyID" json:"jobs,omitempty"`
}

// CompanyContact is a named point of contact at a company
type CompanyContact struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	CompanyID      uint           `gorm:"not null;index" json:"company_id"`
	Name           string         `gorm:"not null" json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	Title          string         `json:"title"`

	// Relationships
	Company Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}
