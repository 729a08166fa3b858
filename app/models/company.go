package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Company is the tenant. All billboards, clients, contracts and templates
// are owned by exactly one company; plan rules are evaluated against
// Company.Plan.
type Company struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	OwnerUserID    uint    `gorm:"not null;index" json:"owner_user_id"`
	Name           string  `gorm:"type:varchar(200);not null" json:"name" validate:"required,min=2,max=200"`
	Address        string  `gorm:"type:varchar(255)" json:"address" validate:"max=255"`
	City           string  `gorm:"type:varchar(100)" json:"city" validate:"max=100"`
	ZipCode        string  `gorm:"type:varchar(20)" json:"zip_code" validate:"max=20"`
	Country        string  `gorm:"type:varchar(100)" json:"country" validate:"max=100"`
	TaxID          string  `gorm:"type:varchar(50)" json:"tax_id" validate:"max=50"`
	RegistrationNo string  `gorm:"type:varchar(50)" json:"registration_no" validate:"max=50"`
	Phone          string  `gorm:"type:varchar(50)" json:"phone" validate:"max=50"`
	Email          string  `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email,max=200"`
	Representative string  `gorm:"type:varchar(150)" json:"representative" validate:"max=150"`
	CurrencyCode   string  `gorm:"type:varchar(3);default:'EUR'" json:"currency_code" validate:"omitempty,len=3"`
	CurrencySymbol string  `gorm:"type:varchar(8);default:'€'" json:"currency_symbol" validate:"max=8"`
	ExchangeRate   float64 `gorm:"type:decimal(12,6);default:1" json:"exchange_rate"` // local currency units per contract currency unit
	Plan           string  `gorm:"type:varchar(50);default:'free';index" json:"plan"`

	APIKeyHash       string     `gorm:"type:char(64);default:''" json:"-"`
	APIKeyPrefix     string     `gorm:"type:varchar(20);default:''" json:"api_key_prefix"`
	APIKeyCreatedAt  *time.Time `json:"api_key_created_at"`
	APIKeyLastUsedAt *time.Time `json:"api_key_last_used_at"`
	APIKeyRevokedAt  *time.Time `json:"api_key_revoked_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (co *Company) Validate() error {
	v := validator.New()

	return v.Struct(co)
}

var apiKeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

const apiKeyPrefix = "adb_"

// HasActiveAPIKey reports whether the company has an active API key configured
func (co *Company) HasActiveAPIKey() bool {
	return co != nil && co.APIKeyHash != "" && co.APIKeyRevokedAt == nil
}

// IssueAPIKey generates a new API key, persists metadata on the struct, and returns the raw secret.
// Callers must persist the struct via the database after invoking this method.
func (co *Company) IssueAPIKey() (string, error) {
	rawKey, prefix, hash, err := generateAPIKeyMaterial()
	if err != nil {
		return "", err
	}
	now := time.Now()
	co.APIKeyHash = hash
	co.APIKeyPrefix = prefix
	co.APIKeyCreatedAt = &now
	co.APIKeyRevokedAt = nil
	co.APIKeyLastUsedAt = nil
	return rawKey, nil
}

// RevokeAPIKey clears the stored API key metadata without deleting the record.
func (co *Company) RevokeAPIKey() {
	co.APIKeyHash = ""
	co.APIKeyPrefix = ""
	now := time.Now()
	co.APIKeyRevokedAt = &now
	co.APIKeyLastUsedAt = nil
}

// TouchAPIKeyUsage updates the last-used timestamp metadata.
func (co *Company) TouchAPIKeyUsage() {
	now := time.Now()
	co.APIKeyLastUsedAt = &now
}

// HashAPIKey returns the SHA-256 hash for the provided API key.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}

func generateAPIKeyMaterial() (string, string, string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", "", err
	}
	encoded := strings.ToLower(apiKeyEncoding.EncodeToString(b))
	rawKey := apiKeyPrefix + encoded
	if len(rawKey) < 12 {
		return "", "", "", fmt.Errorf("api key generation failed: key too short")
	}
	prefix := rawKey[:min(len(rawKey), 16)]
	hash := HashAPIKey(rawKey)
	return rawKey, prefix, hash, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
