package models

import (
	"time"

	"gorm.io/gorm"
)

// Shortlist is a named, organization-scoped set of candidates
type Shortlist struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `json:"description"`
	CreatedByID    uint           `gorm:"not null" json:"created_by_id"`

	// Relationships
	Candidates []ShortlistCandidate `gorm:"foreignKey:ShortlistID" json:"candidates,omitempty"`
}

// ShortlistCandidate links a candidate to a shortlist with per-member
// notes. Each (shortlist, candidate) pair is unique.
type ShortlistCandidate struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	ShortlistID uint           `gorm:"not null;uniqueIndex:idx_shortlist_candidate" json:"shortlist_id"`
	CandidateID uint           `gorm:"not null;uniqueIndex:idx_shortlist_candidate" json:"candidate_id"`
	Notes       string         `json:"notes"`
	AddedByID   uint           `gorm:"not null" json:"added_by_id"`
	AddedAt     time.Time      `gorm:"not null" json:"added_at"`

	// Relationships
	Shortlist Shortlist `gorm:"foreignKey:ShortlistID" json:"shortlist,omitempty"`
	Candidate Candidate `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
}
