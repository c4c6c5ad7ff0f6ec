package models

import (
	"time"

	"gorm.io/gorm"
)

// EntityType identifies which kind of entity a document or activity
// is attached to
type EntityType string

const (
	EntityCandidate EntityType = "candidate"
	EntityCompany   EntityType = "company"
)

// ValidEntityType reports whether t is a known entity type
func ValidEntityType(t EntityType) bool {
	return t == EntityCandidate || t == EntityCompany
}

// Document is an uploaded file attached to a candidate or company.
// For a fixed (entity_type, entity_id, document_type) at most one
// document has IsPrimary set.
type Document struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	EntityType     EntityType     `gorm:"type:varchar(20);not null;index:idx_doc_entity" json:"entity_type"`
	EntityID       uint           `gorm:"not null;index:idx_doc_entity" json:"entity_id"`
	DocumentType   string         `gorm:"not null;index:idx_doc_entity" json:"document_type"`
	FileName       string         `gorm:"not null" json:"file_name"`
	FilePath       string         `gorm:"not null" json:"-"`
	FileSize       int64          `json:"file_size"`
	ContentType    string         `json:"content_type"`
	IsPrimary      bool           `gorm:"default:false" json:"is_primary"`
	UploadedByID   uint           `gorm:"not null" json:"uploaded_by_id"`
}
