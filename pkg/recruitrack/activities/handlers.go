package activities

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/auth"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/tenancy"
	"gorm.io/gorm"
)

// Handler handles activity-note requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new activities handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateActivityRequest represents the request to record an activity note
type CreateActivityRequest struct {
	EntityType string `json:"entity_type" binding:"required,oneof=candidate company job application shortlist"`
	EntityID   uint   `json:"entity_id" binding:"required"`
	Note       string `json:"note" binding:"required,min=1,max=5000"`
}

// UpdateActivityRequest represents the request to edit an activity note
type UpdateActivityRequest struct {
	Note string `json:"note" binding:"required,min=1,max=5000"`
}

// ActivityResponse represents an activity note in API responses
type ActivityResponse struct {
	ID          uint   `json:"id"`
	EntityType  string `json:"entity_type"`
	EntityID    uint   `json:"entity_id"`
	Note        string `json:"note"`
	CreatedByID uint   `json:"created_by_id"`
	CreatedBy   string `json:"created_by,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func activityToResponse(a models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		Note:        a.Note,
		CreatedByID: a.CreatedByID,
		CreatedBy:   a.CreatedBy.Name,
		CreatedAt:   a.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List returns activity notes, optionally filtered by entity
// @Summary List activity notes
// @Tags activities
// @Produce json
// @Param entity_type query string false "Filter by entity type"
// @Param entity_id query int false "Filter by entity ID"
// @Success 200 {array} ActivityResponse
// @Security BearerAuth
// @Router /activities [get]
func (h *Handler) List(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	query := tenancy.Scoped(h.db, orgID).Preload("CreatedBy")
	if entityType := c.Query("entity_type"); entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if entityID := c.Query("entity_id"); entityID != "" {
		query = query.Where("entity_id = ?", entityID)
	}

	var activities []models.Activity
	if err := query.Order("created_at DESC").Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activities"})
		return
	}

	responses := make([]ActivityResponse, len(activities))
	for i, activity := range activities {
		responses[i] = activityToResponse(activity)
	}
	c.JSON(http.StatusOK, responses)
}

// Create records an activity note against an entity
// @Summary Record an activity note
// @Tags activities
// @Accept json
// @Produce json
// @Param request body CreateActivityRequest true "Note details"
// @Success 201 {object} ActivityResponse
// @Security BearerAuth
// @Router /activities [post]
func (h *Handler) Create(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	userID, _ := auth.GetUserID(c)

	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity := models.Activity{
		OrganizationID: orgID,
		EntityType:     req.EntityType,
		EntityID:       req.EntityID,
		CreatedByID:    userID,
		Note:           req.Note,
	}
	if err := h.db.Create(&activity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity"})
		return
	}

	c.JSON(http.StatusCreated, activityToResponse(activity))
}

// Update edits an activity note. Only the author may edit.
// @Summary Edit an activity note
// @Tags activities
// @Accept json
// @Produce json
// @Param id path int true "Activity ID"
// @Param request body UpdateActivityRequest true "Updated note"
// @Success 200 {object} ActivityResponse
// @Failure 403 {object} map[string]string "Not the author"
// @Failure 404 {object} map[string]string "Activity not found"
// @Security BearerAuth
// @Router /activities/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	userID, _ := auth.GetUserID(c)
	activityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}

	var activity models.Activity
	if err := tenancy.Scoped(h.db, orgID).First(&activity, activityID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}
	if activity.CreatedByID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can edit a note"})
		return
	}

	var req UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	activity.Note = req.Note
	if err := h.db.Save(&activity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update activity"})
		return
	}

	c.JSON(http.StatusOK, activityToResponse(activity))
}

// Delete removes an activity note. Only the author may delete.
// @Summary Delete an activity note
// @Tags activities
// @Produce json
// @Param id path int true "Activity ID"
// @Success 200 {object} map[string]string "Activity deleted"
// @Failure 403 {object} map[string]string "Not the author"
// @Failure 404 {object} map[string]string "Activity not found"
// @Security BearerAuth
// @Router /activities/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	userID, _ := auth.GetUserID(c)
	activityID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activity ID"})
		return
	}

	var activity models.Activity
	if err := tenancy.Scoped(h.db, orgID).First(&activity, activityID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found"})
		return
	}
	if activity.CreatedByID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can delete a note"})
		return
	}

	if err := h.db.Delete(&activity).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Activity deleted"})
}

// RegisterRoutes registers activity routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
