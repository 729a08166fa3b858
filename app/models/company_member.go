package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MEMBER_ROLE_OWNER   = "owner"
	MEMBER_ROLE_MANAGER = "manager"
	MEMBER_ROLE_VIEWER  = "viewer"
)

// CompanyMember links a user to a company with a role. The owning user is
// also represented here with the owner role so team listings and the
// team.members.max limit count everyone uniformly.
type CompanyMember struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CompanyID uint           `gorm:"not null;index:ux_company_members_company_user,unique,priority:1" json:"company_id"`
	UserID    uint           `gorm:"not null;index:ux_company_members_company_user,unique,priority:2;index" json:"user_id"`
	Role      string         `gorm:"type:varchar(20);not null;default:'viewer'" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Company Company `json:"-"`
	User    User    `json:"-"`
}

// CanManage reports whether the member may create or modify tenant data.
func (m *CompanyMember) CanManage() bool {
	return m.Role == MEMBER_ROLE_OWNER || m.Role == MEMBER_ROLE_MANAGER
}
