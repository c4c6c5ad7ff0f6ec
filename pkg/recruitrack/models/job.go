package models

import (
	"time"

	"gorm.io/gorm"
)

// JobStatus represents the lifecycle of a job opening
type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusActive    JobStatus = "active"
	JobStatusPaused    JobStatus = "paused"
	JobStatusFilled    JobStatus = "filled"
	JobStatusCancelled JobStatus = "cancelled"
)

// ValidJobStatus reports whether s is a known job status
func ValidJobStatus(s JobStatus) bool {
	switch s {
	case JobStatusDraft, JobStatusActive, JobStatusPaused, JobStatusFilled, JobStatusCancelled:
		return true
	}
	return false
}

// Job represents an open position at a company
type Job struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	CompanyID      uint           `gorm:"not null;index" json:"company_id"`
	Title          string         `gorm:"not null" json:"title"`
	Description    string         `json:"description"`
	Location       string         `json:"location"`
	SalaryMin      uint           `json:"salary_min"`
	SalaryMax      uint           `json:"salary_max"`
	Status         JobStatus      `gorm:"type:varchar(20);default:'draft'" json:"status"`

	// Relationships
	Company      Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Applications []Application `gorm:"foreignKey:JobID" json:"applications,omitempty"`
}
