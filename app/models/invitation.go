package models

import (
	"time"

	"gorm.io/gorm"
)

// Invitation is a pending team invitation. The signed token travels by
// email; the row is the source of truth for acceptance state.
type Invitation struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CompanyID  uint           `gorm:"not null;index" json:"company_id"`
	Email      string         `gorm:"type:varchar(200);not null;index" json:"email"`
	Role       string         `gorm:"type:varchar(20);not null;default:'viewer'" json:"role"`
	Token      string         `gorm:"type:varchar(512);not null;uniqueIndex:ux_invitations_token,length:191" json:"-"`
	ExpiresAt  time.Time      `gorm:"not null" json:"expires_at"`
	AcceptedAt *time.Time     `gorm:"type:timestamp;default:null" json:"accepted_at,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Company Company `json:"-"`
}

// IsOpen reports whether the invitation can still be accepted.
func (i *Invitation) IsOpen() bool {
	return i.AcceptedAt == nil && time.Now().Before(i.ExpiresAt)
}
