package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BillboardStatusAvailable   = "available"
	BillboardStatusRented      = "rented"
	BillboardStatusMaintenance = "maintenance"
	BillboardStatusRetired     = "retired"
)

// Billboard is a single physical advertising face location owned by a company.
type Billboard struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UUID         string         `gorm:"type:char(36);uniqueIndex" json:"uuid"`
	CompanyID    uint           `gorm:"not null;index" json:"company_id"`
	Code         string         `gorm:"type:varchar(50);not null" json:"code" validate:"required,min=1,max=50"`
	Address      string         `gorm:"type:varchar(255)" json:"address" validate:"max=255"`
	City         string         `gorm:"type:varchar(100)" json:"city" validate:"max=100"`
	Municipality string         `gorm:"type:varchar(100)" json:"municipality" validate:"max=100"`
	Latitude     *float64       `gorm:"type:decimal(10,7)" json:"latitude,omitempty"`
	Longitude    *float64       `gorm:"type:decimal(10,7)" json:"longitude,omitempty"`
	WidthM       float64        `gorm:"type:decimal(6,2);default:0" json:"width_m"`
	HeightM      float64        `gorm:"type:decimal(6,2);default:0" json:"height_m"`
	Faces        int            `gorm:"default:1" json:"faces" validate:"min=1,max=8"`
	Lighted      bool           `gorm:"default:false" json:"lighted"`
	Status       string         `gorm:"type:varchar(20);default:'available';index" json:"status" validate:"omitempty,oneof=available rented maintenance retired"`
	MonthlyPrice float64        `gorm:"type:decimal(12,2);default:0" json:"monthly_price"`
	PhotoPath    string         `gorm:"type:varchar(255);default:''" json:"photo_path"`
	ThumbPath    string         `gorm:"type:varchar(255);default:''" json:"thumb_path"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Company Company `json:"-"`
}

func (b *Billboard) Validate() error {
	v := validator.New()

	return v.Struct(b)
}

// BeforeCreate assigns a public UUID when none is set.
func (b *Billboard) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == "" {
		b.UUID = uuid.NewString()
	}
	return nil
}

// Dimensions returns the face size formatted for documents, e.g. "4.00 x 3.00 m".
func (b *Billboard) Dimensions() string {
	if b.WidthM <= 0 && b.HeightM <= 0 {
		return ""
	}
	return fmt.Sprintf("%.2f x %.2f m", b.WidthM, b.HeightM)
}

// LocationLine renders the address used in contract documents.
func (b *Billboard) LocationLine() string {
	switch {
	case b.Address != "" && b.City != "":
		return b.Address + ", " + b.City
	case b.Address != "":
		return b.Address
	default:
		return b.City
	}
}
