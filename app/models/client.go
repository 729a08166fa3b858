package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Client is an advertiser the company rents billboard space to.
type Client struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CompanyID      uint           `gorm:"not null;index" json:"company_id"`
	Name           string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,min=2,max=200"`
	Address        string         `gorm:"type:varchar(255)" json:"address" validate:"max=255"`
	City           string         `gorm:"type:varchar(100)" json:"city" validate:"max=100"`
	Country        string         `gorm:"type:varchar(100)" json:"country" validate:"max=100"`
	TaxID          string         `gorm:"type:varchar(50)" json:"tax_id" validate:"max=50"`
	Phone          string         `gorm:"type:varchar(50)" json:"phone" validate:"max=50"`
	Email          string         `gorm:"type:varchar(200)" json:"email" validate:"omitempty,email,max=200"`
	Representative string         `gorm:"type:varchar(150)" json:"representative" validate:"max=150"`
	Notes          string         `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Company Company `json:"-"`
}

func (cl *Client) Validate() error {
	v := validator.New()

	return v.Struct(cl)
}
