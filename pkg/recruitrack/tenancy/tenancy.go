// Package tenancy resolves the authenticated caller to their single
// organization and gates every domain route behind that resolution.
// Membership is re-resolved on every request, never cached, since it
// can change between calls.
package tenancy

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/apperrors"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/auth"
	"github.com/recruitrack/recruitrack/pkg/recruitrack/models"
	"gorm.io/gorm"
)

// ContextKeyOrgID is the key for the resolved organization ID in gin context
const ContextKeyOrgID = "organization_id"

// Resolve returns the organization the user belongs to.
// Returns ErrNotAMember when the user has no membership.
func Resolve(db *gorm.DB, userID uint) (uint, error) {
	var membership models.OrganizationMembership
	err := db.Where("user_id = ?", userID).First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrNotAMember
		}
		return 0, err
	}
	return membership.OrganizationID, nil
}

// Middleware resolves the caller's organization and stores it in the
// request context. Requires auth.AuthMiddleware to have run first.
func Middleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		orgID, err := Resolve(db, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotAMember) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of any organization"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve organization"})
			}
			c.Abort()
			return
		}

		c.Set(ContextKeyOrgID, orgID)
		c.Next()
	}
}

// GetOrgID returns the resolved organization ID from the gin context
func GetOrgID(c *gin.Context) (uint, bool) {
	orgID, exists := c.Get(ContextKeyOrgID)
	if !exists {
		return 0, false
	}
	return orgID.(uint), true
}

// Scoped returns a query handle filtered to the organization. Every
// domain read goes through this so cross-tenant rows are simply absent.
func Scoped(db *gorm.DB, orgID uint) *gorm.DB {
	return db.Where("organization_id = ?", orgID)
}
