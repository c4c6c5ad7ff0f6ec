package organizations

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/auth"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/tenancy"
	"gorm.io/gorm"
)

// Handler handles organization-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new organizations handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// UpdateOrgRequest represents the request to update an organization
type UpdateOrgRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// OrgResponse represents an organization in API responses
type OrgResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
	CreatedAt   string `json:"created_at"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID       uint   `json:"id"`
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	JoinedAt string `json:"joined_at"`
}

// Get returns the caller's organization
// @Summary Get the current organization
// @Description Get details of the caller's organization
// @Tags organizations
// @Produce json
// @Success 200 {object} OrgResponse
// @Security BearerAuth
// @Router /organization [get]
func (h *Handler) Get(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	var org models.Organization
	if err := h.db.First(&org, orgID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	var memberCount int64
	h.db.Model(&models.OrganizationMembership{}).Where("organization_id = ?", orgID).Count(&memberCount)

	c.JSON(http.StatusOK, OrgResponse{
		ID:          org.ID,
		Name:        org.Name,
		MemberCount: int(memberCount),
		CreatedAt:   org.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// Update updates the caller's organization
// @Summary Update the current organization
// @Description Rename the caller's organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param request body UpdateOrgRequest true "Updated organization details"
// @Success 200 {object} OrgResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /organization [put]
func (h *Handler) Update(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var org models.Organization
	if err := h.db.First(&org, orgID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	org.Name = strings.TrimSpace(req.Name)
	if err := h.db.Save(&org).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update organization"})
		return
	}

	var memberCount int64
	h.db.Model(&models.OrganizationMembership{}).Where("organization_id = ?", orgID).Count(&memberCount)

	c.JSON(http.StatusOK, OrgResponse{
		ID:          org.ID,
		Name:        org.Name,
		MemberCount: int(memberCount),
		CreatedAt:   org.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// ListMembers returns all members of the caller's organization
// @Summary List organization members
// @Description Get all members of the caller's organization
// @Tags organizations
// @Produce json
// @Success 200 {array} MemberResponse
// @Security BearerAuth
// @Router /organization/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	var memberships []models.OrganizationMembership
	if err := h.db.Preload("User").Where("organization_id = ?", orgID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	members := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		members[i] = MemberResponse{
			ID:       m.ID,
			UserID:   m.UserID,
			Email:    m.User.Email,
			Name:     m.User.Name,
			JoinedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	c.JSON(http.StatusOK, members)
}

// RemoveMember removes a member from the caller's organization
// @Summary Remove a member
// @Description Remove a member from the caller's organization
// @Tags organizations
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} map[string]string "Member removed"
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /organization/members/{userId} [delete]
func (h *Handler) RemoveMember(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	userID, _ := auth.GetUserID(c)

	targetUserID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var membership models.OrganizationMembership
	if err := h.db.Where("organization_id = ? AND user_id = ?", orgID, targetUserID).First(&membership).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	// Cannot remove yourself if you're the only member
	if userID == uint(targetUserID) {
		var memberCount int64
		h.db.Model(&models.OrganizationMembership{}).Where("organization_id = ?", orgID).Count(&memberCount)
		if memberCount <= 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot remove the only member"})
			return
		}
	}

	if err := h.db.Delete(&membership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// RegisterRoutes registers organization routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.PUT("", h.Update)
	rg.GET("/members", h.ListMembers)
	rg.DELETE("/members/:userId", h.RemoveMember)
}
