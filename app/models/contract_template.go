package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ContractTemplate is a free-text document body containing {{placeholder}}
// tokens. Rendering happens in internal/pkg/placeholder.
type ContractTemplate struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CompanyID uint           `gorm:"not null;index" json:"company_id"`
	Name      string         `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	Body      string         `gorm:"type:longtext;not null" json:"body" validate:"required"`
	IsDefault bool           `gorm:"default:false;index" json:"is_default"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Company Company `json:"-"`
}

func (t *ContractTemplate) Validate() error {
	v := validator.New()

	return v.Struct(t)
}
