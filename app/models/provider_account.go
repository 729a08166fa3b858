package models

import "time"

// ProviderAccount links a login identity from an external OAuth provider
// (Google, Microsoft) to a local user. One user can have several provider
// accounts, one per provider.
type ProviderAccount struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"index" json:"user_id"`
	Provider       string     `gorm:"index:provider_uid,unique;type:varchar(50)" json:"provider"`
	ProviderUserID string     `gorm:"index:provider_uid,unique;type:varchar(191)" json:"provider_user_id"`
	AccessToken    string     `gorm:"type:text" json:"-"`
	RefreshToken   string     `gorm:"type:text" json:"-"`
	ExpiresAt      *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TokenExpired reports whether the stored access token has passed its expiry.
// Accounts without an expiry never expire.
func (p *ProviderAccount) TokenExpired() bool {
	return p.ExpiresAt != nil && time.Now().After(*p.ExpiresAt)
}
