// Package shortlists manages named candidate sets with per-member
// notes, bulk membership edits, duplication, and bulk association of a
// shortlist's candidates with a job.
package shortlists

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/apperrors"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/auth"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/tenancy"
	"gorm.io/gorm"
)

// Handler handles shortlist requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new shortlists handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateShortlistRequest represents the request to create a shortlist
type CreateShortlistRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
}

// UpdateShortlistRequest represents the request to update a shortlist
type UpdateShortlistRequest struct {
	Name        string  `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

// DuplicateShortlistRequest represents the request to duplicate a shortlist
type DuplicateShortlistRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// ShortlistResponse represents a shortlist in API responses
type ShortlistResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	CreatedByID    uint   `json:"created_by_id"`
	CandidateCount int    `json:"candidate_count"`
	CreatedAt      string `json:"created_at"`
}

func (h *Handler) shortlistToResponse(shortlist models.Shortlist) ShortlistResponse {
	var count int64
	h.db.Model(&models.ShortlistCandidate{}).Where("shortlist_id = ?", shortlist.ID).Count(&count)
	return ShortlistResponse{
		ID:             shortlist.ID,
		Name:           shortlist.Name,
		Description:    shortlist.Description,
		CreatedByID:    shortlist.CreatedByID,
		CandidateCount: int(count),
		CreatedAt:      shortlist.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// findShortlist loads a shortlist within the caller's organization.
func (h *Handler) findShortlist(c *gin.Context, orgID uint) (models.Shortlist, bool) {
	shortlistID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shortlist ID"})
		return models.Shortlist{}, false
	}

	var shortlist models.Shortlist
	if err := tenancy.Scoped(h.db, orgID).First(&shortlist, shortlistID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shortlist not found"})
		return models.Shortlist{}, false
	}
	return shortlist, true
}

// List returns all shortlists for the caller's organization
// @Summary List shortlists
// @Tags shortlists
// @Produce json
// @Success 200 {array} ShortlistResponse
// @Security BearerAuth
// @Router /shortlists [get]
func (h *Handler) List(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	var shortlists []models.Shortlist
	if err := tenancy.Scoped(h.db, orgID).Order("created_at DESC").Find(&shortlists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shortlists"})
		return
	}

	responses := make([]ShortlistResponse, len(shortlists))
	for i, s := range shortlists {
		responses[i] = h.shortlistToResponse(s)
	}
	c.JSON(http.StatusOK, responses)
}

// Create creates a new shortlist
// @Summary Create a shortlist
// @Tags shortlists
// @Accept json
// @Produce json
// @Param request body CreateShortlistRequest true "Shortlist details"
// @Success 201 {object} ShortlistResponse
// @Security BearerAuth
// @Router /shortlists [post]
func (h *Handler) Create(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	userID, _ := auth.GetUserID(c)

	var req CreateShortlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shortlist := models.Shortlist{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		CreatedByID:    userID,
	}
	if err := h.db.Create(&shortlist).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shortlist"})
		return
	}

	c.JSON(http.StatusCreated, h.shortlistToResponse(shortlist))
}

// Get returns a specific shortlist
// @Summary Get a shortlist
// @Tags shortlists
// @Produce json
// @Param id path int true "Shortlist ID"
// @Success 200 {object} ShortlistResponse
// @Failure 404 {object} map[string]string "Shortlist not found"
// @Security BearerAuth
// @Router /shortlists/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	shortlist, ok := h.findShortlist(c, orgID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.shortlistToResponse(shortlist))
}

// Update updates a shortlist's metadata
// @Summary Update a shortlist
// @Tags shortlists
// @Accept json
// @Produce json
// @Param id path int true "Shortlist ID"
// @Param request body UpdateShortlistRequest true "Updated details"
// @Success 200 {object} ShortlistResponse
// @Security BearerAuth
// @Router /shortlists/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	shortlist, ok := h.findShortlist(c, orgID)
	if !ok {
		return
	}

	var req UpdateShortlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != "" {
		shortlist.Name = strings.TrimSpace(req.Name)
	}
	if req.Description != nil {
		shortlist.Description = *req.Description
	}
	if err := h.db.Save(&shortlist).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shortlist"})
		return
	}

	c.JSON(http.StatusOK, h.shortlistToResponse(shortlist))
}

// Delete deletes a shortlist and its memberships
// @Summary Delete a shortlist
// @Tags shortlists
// @Produce json
// @Param id path int true "Shortlist ID"
// @Success 200 {object} map[string]string "Shortlist deleted"
// @Security BearerAuth
// @Router /shortlists/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	shortlist, ok := h.findShortlist(c, orgID)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shortlist_id = ?", shortlist.ID).Delete(&models.ShortlistCandidate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&shortlist).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shortlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Shortlist deleted"})
}

// Duplicate copies a shortlist and all its memberships
// @Summary Duplicate a shortlist
// @Description Copy metadata and every membership into a new shortlist with fresh attribution
// @Tags shortlists
// @Accept json
// @Produce json
// @Param id path int true "Shortlist ID"
// @Param request body DuplicateShortlistRequest true "Name for the copy"
// @Success 201 {object} ShortlistResponse
// @Security BearerAuth
// @Router /shortlists/{id}/duplicate [post]
func (h *Handler) Duplicate(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	userID, _ := auth.GetUserID(c)
	shortlist, ok := h.findShortlist(c, orgID)
	if !ok {
		return
	}

	var req DuplicateShortlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	copy, err := Duplicate(h.db, orgID, userID, shortlist.ID, strings.TrimSpace(req.Name))
	if err != nil {
		c.JSON(apperrors.Status(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, h.shortlistToResponse(copy))
}

// RegisterRoutes registers shortlist routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/duplicate", h.Duplicate)
}
