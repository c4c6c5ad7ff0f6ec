package invitations

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/auth"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/tenancy"
	"gorm.io/gorm"
)

const (
	// CodeLength is the length of the invitation code in bytes (16 bytes = 32 hex chars)
	CodeLength = 16
)

var (
	errAlreadyMember  = errors.New("user is already a member")
	errAlreadyInvited = errors.New("an invitation for this email is already pending")
)

// Handler handles invitation requests
type Handler struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewHandler creates a new invitations handler
func NewHandler(db *gorm.DB, ttl time.Duration) *Handler {
	return &Handler{db: db, ttl: ttl}
}

// CreateInvitationRequest represents the request to invite a user
type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AcceptInvitationRequest represents the request to redeem an invitation
type AcceptInvitationRequest struct {
	Code string `json:"code" binding:"required"`
}

// InvitationResponse represents an invitation in API responses
type InvitationResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Code      string `json:"code,omitempty"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
}

// generateCode generates a new random invitation code
func generateCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func invitationToResponse(inv models.Invitation, includeCode bool) InvitationResponse {
	resp := InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Status:    string(inv.Status(time.Now())),
		ExpiresAt: inv.ExpiresAt.Format("2006-01-02T15:04:05Z"),
		CreatedAt: inv.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if includeCode {
		resp.Code = inv.Code
	}
	return resp
}

// Create invites a user to the caller's organization
// @Summary Create an invitation
// @Description Invite a user by email; fails if they are already a member or already invited
// @Tags invitations
// @Accept json
// @Produce json
// @Param request body CreateInvitationRequest true "Invitation details"
// @Success 201 {object} InvitationResponse
// @Failure 409 {object} map[string]string "Already a member or already invited"
// @Security BearerAuth
// @Router /invitations [post]
func (h *Handler) Create(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)
	userID, _ := auth.GetUserID(c)

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := generateCode()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invitation code"})
		return
	}

	now := time.Now()
	invitation := models.Invitation{
		OrganizationID: orgID,
		Email:          req.Email,
		Code:           code,
		CreatedByID:    userID,
		ExpiresAt:      now.Add(h.ttl),
	}

	// The member check, pending check, and insert succeed or fail
	// together. The partial unique index on (organization_id, email)
	// for unredeemed rows makes the loser of two concurrent creates
	// fail with a duplicate key instead of minting a second invitation.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var memberCount int64
		if err := tx.Model(&models.OrganizationMembership{}).
			Joins("JOIN users ON users.id = organization_memberships.user_id").
			Where("organization_memberships.organization_id = ? AND users.email = ?", orgID, req.Email).
			Count(&memberCount).Error; err != nil {
			return err
		}
		if memberCount > 0 {
			return errAlreadyMember
		}

		var pendingCount int64
		if err := tx.Model(&models.Invitation{}).
			Where("organization_id = ? AND email = ? AND used_at IS NULL AND expires_at > ?",
				orgID, req.Email, now).
			Count(&pendingCount).Error; err != nil {
			return err
		}
		if pendingCount > 0 {
			return errAlreadyInvited
		}

		// Expired unredeemed rows still occupy the unique index; purge
		// them so a fresh invitation can be issued.
		if err := tx.Unscoped().
			Where("organization_id = ? AND email = ? AND used_at IS NULL", orgID, req.Email).
			Delete(&models.Invitation{}).Error; err != nil {
			return err
		}

		return tx.Create(&invitation).Error
	})
	switch {
	case err == nil:
	case errors.Is(err, errAlreadyMember):
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a member"})
		return
	case errors.Is(err, errAlreadyInvited), errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"error": "An invitation for this email is already pending"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	// The code is only returned on creation so it can be delivered to
	// the invitee; listings never expose it.
	c.JSON(http.StatusCreated, invitationToResponse(invitation, true))
}

// List returns all invitations for the caller's organization
// @Summary List invitations
// @Description Get all invitations with their derived status
// @Tags invitations
// @Produce json
// @Success 200 {array} InvitationResponse
// @Security BearerAuth
// @Router /invitations [get]
func (h *Handler) List(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	var invitations []models.Invitation
	if err := h.db.Where("organization_id = ?", orgID).Order("created_at DESC").Find(&invitations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}

	responses := make([]InvitationResponse, len(invitations))
	for i, inv := range invitations {
		responses[i] = invitationToResponse(inv, false)
	}

	c.JSON(http.StatusOK, responses)
}

// Cancel deletes a pending invitation
// @Summary Cancel an invitation
// @Description Hard-delete a pending invitation; accepted invitations are untouched
// @Tags invitations
// @Produce json
// @Param id path int true "Invitation ID"
// @Success 200 {object} map[string]string "Invitation cancelled"
// @Failure 409 {object} map[string]string "Invitation already accepted"
// @Security BearerAuth
// @Router /invitations/{id} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	orgID, _ := tenancy.GetOrgID(c)

	invitationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invitation ID"})
		return
	}

	var invitation models.Invitation
	if err := h.db.Where("organization_id = ?", orgID).First(&invitation, invitationID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}

	if invitation.UsedAt != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation has already been accepted"})
		return
	}

	if err := h.db.Unscoped().Delete(&invitation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel invitation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation cancelled"})
}

// Accept redeems an invitation code for the authenticated user
// @Summary Accept an invitation
// @Description Redeem a pending invitation whose email matches the caller; creates the membership
// @Tags invitations
// @Accept json
// @Produce json
// @Param request body AcceptInvitationRequest true "Invitation code"
// @Success 200 {object} map[string]interface{} "Joined organization"
// @Failure 403 {object} map[string]string "Email does not match"
// @Failure 409 {object} map[string]string "Already used"
// @Failure 410 {object} map[string]string "Invitation expired"
// @Security BearerAuth
// @Router /invitations/accept [post]
func (h *Handler) Accept(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	email, _ := auth.GetEmail(c)

	var req AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var invitation models.Invitation
	if err := h.db.Where("code = ?", req.Code).First(&invitation).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		return
	}

	if invitation.UsedAt != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation has already been used"})
		return
	}
	if time.Now().After(invitation.ExpiresAt) {
		c.JSON(http.StatusGone, gin.H{"error": "Invitation has expired"})
		return
	}
	// Case-sensitive match between the session email and the invitee
	if email != invitation.Email {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invitation was issued for a different email"})
		return
	}

	// Membership creation and the used_at stamp succeed or fail
	// together. The stamp uses a guarded update so a concurrent accept
	// of the same code loses cleanly instead of minting a second
	// membership.
	now := time.Now()
	err := h.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND used_at IS NULL", invitation.ID).
			Updates(map[string]interface{}{"used_at": now, "used_by_id": userID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrDuplicatedKey
		}

		membership := models.OrganizationMembership{
			OrganizationID: invitation.OrganizationID,
			UserID:         userID,
		}
		return tx.Create(&membership).Error
	})

	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Invitation could not be accepted"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Joined organization",
		"organization_id": invitation.OrganizationID,
	})
}

// RegisterRoutes registers invitation management routes (organization scoped)
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/:id", h.Cancel)
}

// RegisterAcceptRoute registers the accept route, which only requires
// authentication since the caller has no organization yet
func (h *Handler) RegisterAcceptRoute(rg *gin.RouterGroup) {
	rg.POST("/accept", h.Accept)
}
