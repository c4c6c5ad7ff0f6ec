package models

import (
	"time"

	"gorm.io/gorm"
)

// ApplicationStatus represents a candidate's progress against one job
type ApplicationStatus string

const (
	ApplicationAssociated        ApplicationStatus = "associated"
	ApplicationSubmittedToClient ApplicationStatus = "submitted-to-client"
	ApplicationInterview         ApplicationStatus = "interview"
	ApplicationPlaced            ApplicationStatus = "placed"
	ApplicationRejected          ApplicationStatus = "rejected"
)

// ValidApplicationStatus reports whether s is a known application status
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationAssociated, ApplicationSubmittedToClient, ApplicationInterview,
		ApplicationPlaced, ApplicationRejected:
		return true
	}
	return false
}

// StageRank orders statuses by pipeline progress. Used to project a
// candidate's overall stage from their applications; rejected ranks
// lowest so an active application always wins.
func StageRank(s ApplicationStatus) int {
	switch s {
	case ApplicationAssociated:
		return 1
	case ApplicationSubmittedToClient:
		return 2
	case ApplicationInterview:
		return 3
	case ApplicationPlaced:
		return 4
	}
	return 0
}

// Application is the edge between a candidate and a job. At most one
// non-deleted application exists per (candidate, job) pair.
// SubmittedToClientDate doubles as the interview-eligibility gate:
// interviews may only be scheduled once it is set, regardless of Status.
type Application struct {
	ID                    uint              `gorm:"primarykey" json:"id"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
	DeletedAt             gorm.DeletedAt    `gorm:"index" json:"-"`
	OrganizationID        uint              `gorm:"not null;index" json:"organization_id"`
	CandidateID           uint              `gorm:"not null;uniqueIndex:idx_candidate_job" json:"candidate_id"`
	JobID                 uint              `gorm:"not null;uniqueIndex:idx_candidate_job" json:"job_id"`
	Status                ApplicationStatus `gorm:"type:varchar(30);default:'associated'" json:"status"`
	AppliedDate           time.Time         `json:"applied_date"`
	SubmittedToClientDate *time.Time        `json:"submitted_to_client_date,omitempty"`
	InterviewDate         *time.Time        `json:"interview_date,omitempty"`
	PlacedDate            *time.Time        `json:"placed_date,omitempty"`
	OfferedSalary         uint              `json:"offered_salary"`

	// Relationships
	Candidate  Candidate   `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	Job        Job         `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Interviews []Interview `gorm:"foreignKey:ApplicationID" json:"interviews,omitempty"`
}
