// Package documents associates uploaded files with candidates and
// companies and maintains the primary-document invariant: at most one
// primary per (entity_type, entity_id, document_type).
package documents

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/apperrors"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/auth"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/storage"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/tenancy"
	"gorm.io/gorm"
)

// Handler handles document requests
type Handler struct {
	db    *gorm.DB
	store storage.FileStore
}

// NewHandler creates a new documents handler
func NewHandler(db *gorm.DB, store storage.FileStore) *Handler {
	return &Handler{db: db, store: store}
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID           uint   `json:"id"`
	EntityType   string `json:"entity_type"`
	EntityID     uint   `json:"entity_id"`
	DocumentType string `json:"document_type"`
	FileName     string `json:"file_name"`
	FileSize     int64  `json:"file_size"`
	ContentType  string `json:"content_type"`
	IsPrimary    bool   `json:"is_primary"`
	CreatedAt    string `json:"created_at"`
}

// UploadResponse is the upload result. IsFirst tells the caller this is
// the first document of its (entity, type) pair, so the UI can prompt
// to mark it primary.
type UploadResponse struct {
	Document DocumentResponse `json:"document"`
	IsFirst  bool             `json:"is_first"`
}

func documentToResponse(doc models.Document) DocumentResponse {
	return DocumentResponse{
		ID:           doc.ID,
		EntityType:   string(doc.EntityType),
		EntityID:     doc.EntityID,
		DocumentType: doc.DocumentType,
		FileName:     doc.FileName,
		FileSize:     doc.FileSize,
		ContentType:  doc.ContentType,
		IsPrimary:    doc.IsPrimary,
		CreatedAt:    doc.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// entityExists checks the referenced entity within the organization.
func entityExists(db *gorm.DB, orgID uint, entityType models.EntityType, entityID uint) (bool, error) {
	var count int64
	var err error
	switch entityType {
	case models.EntityCandidate:
		err = db.Model(&models.Candidate{}).Where("organization_id = ? AND id = ?", orgID, entityID).Count(&count).Error
	case models.EntityCompany:
		err = db.Model(&models.Company{}).Where("organization_id = ? AND id = ?", orgID, entityID).Count(&count).Error
	}
	return count > 0, err
}

// Upload stores the blob, then inserts the document row. The row insert
// is the authoritative success signal: if it fails the blob is removed
// best-effort and the caller sees ErrUploadFailed either way.
func Upload(db *gorm.DB, store storage.FileStore, orgID, userID uint,
	entityType models.EntityType, entityID uint, documentType, fileName, contentType string,
	data []byte) (models.Document, bool, error) {

	ok, err := entityExists(db, orgID, entityType, entityID)
	if err != nil {
		return models.Document{}, false, err
	}
	if !ok {
		return models.Document{}, false, fmt.Errorf("%s %d: %w", entityType, entityID, apperrors.ErrNotFound)
	}

	ref, err := store.Store(data, fileName)
	if err != nil {
		return models.Document{}, false, fmt.Errorf("storing blob: %w", apperrors.ErrUploadFailed)
	}

	var existing int64
	db.Model(&models.Document{}).
		Where("organization_id = ? AND entity_type = ? AND entity_id = ? AND document_type = ?",
			orgID, entityType, entityID, documentType).
		Count(&existing)

	doc := models.Document{
		OrganizationID: orgID,
		EntityType:     entityType,
		EntityID:       entityID,
		DocumentType:   documentType,
		FileName:       fileName,
		FilePath:       ref,
		FileSize:       int64(len(data)),
		ContentType:    contentType,
		UploadedByID:   userID,
	}
	if err := db.Create(&doc).Error; err != nil {
		if cleanupErr := store.Remove(ref); cleanupErr != nil {
			log.Printf("Failed to clean up blob %s after insert failure: %v", ref, cleanupErr)
		}
		return models.Document{}, false, fmt.Errorf("inserting document row: %w", apperrors.ErrUploadFailed)
	}

	return doc, existing == 0, nil
}

// SetPrimary makes the target document the single primary for its
// (entity, type) group. The clear and the set run in one transaction so
// concurrent calls serialize to exactly one winner.
func SetPrimary(db *gorm.DB, orgID, documentID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := tenancy.Scoped(tx, orgID).First(&doc, documentID).Error; err != nil {
			return apperrors.Translate(err)
		}

		if err := tx.Model(&models.Document{}).
			Where("organization_id = ? AND entity_type = ? AND entity_id = ? AND document_type = ? AND id != ?",
				orgID, doc.EntityType, doc.EntityID, doc.DocumentType, doc.ID).
			Update("is_primary", false).Error; err != nil {
			return err
		}

		return tx.Model(&doc).Update("is_primary", true).Error
	})
}

// Delete removes the row, then the blob. A deleted primary leaves zero
// primaries; nothing is auto-promoted.
func Delete(db *gorm.DB, store storage.FileStore, orgID, documentID uint) error {
	var doc models.Document
	if err := tenancy.Scoped(db, orgID).First(&doc, documentID).Error; err != nil {
		return apperrors.Translate(err)
	}

	if err := db.Delete(&doc).Error; err != nil {
		return err
	}

	if err := store.Remove(doc.FilePath); err != nil {
		log.Printf("Failed to remove blob %s for deleted document %d: %v", doc.FilePath, doc.ID, err)
	}
	return nil
}

// Upload handles a multipart document upload
// @Summary Upload a document
// @Description Store a file against a candidate or company; reports whether it is the first of its type
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param entity_type formData string true "candidate or company"
// @Param entity_id formData int true "Entity ID"
// @Param document_type formData string true "Document type (e.g. resume)"
// @Param file formData file true "File"
// @Success 201 {object} UploadResponse
// @Failure 404 {object} map[string]string "Entity not found"
// @Security BearerAuth
// @Router /documents [post]
func (h *Handler) Upload(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	userID, _ := auth.GetUserID(c)

	entityType := models.EntityType(c.PostForm("entity_type"))
	if !models.ValidEntityType(entityType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_type must be candidate or company"})
		return
	}
	entityID, err := strconv.ParseUint(c.PostForm("entity_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity_id"})
		return
	}
	documentType := c.PostForm("document_type")
	if documentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document_type is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	doc, isFirst, err := Upload(h.db, h.store, orgID, userID, entityType, uint(entityID),
		documentType, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{Document: documentToResponse(doc), IsFirst: isFirst})
}

// List returns documents for an entity
// @Summary List documents
// @Tags documents
// @Produce json
// @Param entity_type query string true "candidate or company"
// @Param entity_id query int true "Entity ID"
// @Success 200 {array} DocumentResponse
// @Security BearerAuth
// @Router /documents [get]
func (h *Handler) List(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	entityType := models.EntityType(c.Query("entity_type"))
	if !models.ValidEntityType(entityType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_type must be candidate or company"})
		return
	}
	entityID := c.Query("entity_id")
	if entityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_id is required"})
		return
	}

	var docs []models.Document
	if err := tenancy.Scoped(h.db, orgID).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").Find(&docs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}

	responses := make([]DocumentResponse, len(docs))
	for i, doc := range docs {
		responses[i] = documentToResponse(doc)
	}
	c.JSON(http.StatusOK, responses)
}

// SetPrimary marks a document as the primary for its type
// @Summary Set the primary document
// @Description Atomically make this document the single primary of its (entity, type) group
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} map[string]string "Primary updated"
// @Failure 404 {object} map[string]string "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/primary [put]
func (h *Handler) SetPrimary(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	documentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	if err := SetPrimary(h.db, orgID, uint(documentID)); err != nil {
		c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Primary document updated"})
}

// Download returns the URL for a document's blob
// @Summary Get a document download URL
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} map[string]string "URL"
// @Failure 404 {object} map[string]string "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/download [get]
func (h *Handler) Download(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	documentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	var doc models.Document
	if err := tenancy.Scoped(h.db, orgID).First(&doc, documentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":       h.store.URL(doc.FilePath),
		"file_name": doc.FileName,
	})
}

// Delete removes a document and its blob
// @Summary Delete a document
// @Description Remove the row and backing blob; no other document is auto-promoted to primary
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} map[string]string "Document deleted"
// @Failure 404 {object} map[string]string "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	documentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	if err := Delete(h.db, h.store, orgID, uint(documentID)); err != nil {
		c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// RegisterRoutes registers document routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Upload)
	rg.PUT("/:id/primary", h.SetPrimary)
	rg.GET("/:id/download", h.Download)
	rg.DELETE("/:id", h.Delete)
}
