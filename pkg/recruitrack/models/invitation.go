package models

import (
	"time"

	"gorm.io/gorm"
)

// InvitationStatus is the derived lifecycle state of an invitation.
// Only "accepted" is stored (via UsedAt); "pending" and "expired" are
// computed from the expiry horizon at read time.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
)

// Invitation is a single-use, time-limited code that grants membership
// in an organization when redeemed by a user with a matching email.
// The partial unique index on (organization_id, email) holds only
// unredeemed rows, so at most one redeemable invitation can exist per
// address; expired unredeemed rows are purged before re-inviting.
type Invitation struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;index;uniqueIndex:idx_pending_invitation,where:used_at IS NULL" json:"organization_id"`
	Email          string         `gorm:"not null;index;uniqueIndex:idx_pending_invitation,where:used_at IS NULL" json:"email"`
	Code           string         `gorm:"uniqueIndex;not null" json:"-"`
	CreatedByID    uint           `gorm:"not null" json:"created_by_id"`
	ExpiresAt      time.Time      `gorm:"not null" json:"expires_at"`
	UsedAt         *time.Time     `json:"used_at,omitempty"`
	UsedByID       *uint          `json:"used_by_id,omitempty"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedBy    User         `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// Status derives the lifecycle state at the given instant.
func (i *Invitation) Status(now time.Time) InvitationStatus {
	if i.UsedAt != nil {
		return InvitationAccepted
	}
	if now.After(i.ExpiresAt) {
		return InvitationExpired
	}
	return InvitationPending
}

// IsPending reports whether the invitation is still redeemable.
func (i *Invitation) IsPending(now time.Time) bool {
	return i.Status(now) == InvitationPending
}
