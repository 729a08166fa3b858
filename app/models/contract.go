package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContractStatusDraft      = "draft"
	ContractStatusActive     = "active"
	ContractStatusExpired    = "expired"
	ContractStatusTerminated = "terminated"
)

const (
	ContractTypeRental      = "rental"
	ContractTypeMaintenance = "maintenance"
	ContractTypeAgency      = "agency"
)

// Contract is the aggregate root tying a client to a set of billboards for a
// period. Financial amounts are stored in the contract currency; the owning
// company's exchange rate converts them for documents.
type Contract struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UUID          string         `gorm:"type:char(36);uniqueIndex" json:"uuid"`
	CompanyID     uint           `gorm:"not null;index" json:"company_id"`
	ClientID      uint           `gorm:"not null;index" json:"client_id"`
	Number        string         `gorm:"type:varchar(50);not null;index" json:"number" validate:"required,min=1,max=50"`
	Type          string         `gorm:"type:varchar(20);default:'rental'" json:"type" validate:"omitempty,oneof=rental maintenance agency"`
	Status        string         `gorm:"type:varchar(20);default:'draft';index" json:"status" validate:"omitempty,oneof=draft active expired terminated"`
	StartDate     time.Time      `json:"start_date"`
	EndDate       time.Time      `json:"end_date"`
	SignedAt      *time.Time     `gorm:"type:timestamp;default:null" json:"signed_at,omitempty"`
	SignedBy      string         `gorm:"type:varchar(150)" json:"signed_by" validate:"max=150"`
	TotalAmount   float64        `gorm:"type:decimal(14,2);default:0" json:"total_amount"`
	MonthlyAmount float64        `gorm:"type:decimal(14,2);default:0" json:"monthly_amount"`
	CurrencyCode  string         `gorm:"type:varchar(3);default:'EUR'" json:"currency_code" validate:"omitempty,len=3"`
	PaymentTerms  string         `gorm:"type:varchar(255)" json:"payment_terms" validate:"max=255"`
	Notes         string         `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Company    Company     `json:"-"`
	Client     Client      `json:"client"`
	Billboards []Billboard `gorm:"many2many:contract_billboards;" json:"billboards"`
}

func (c *Contract) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// BeforeCreate assigns a public UUID when none is set.
func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	return nil
}

// IsRunning reports whether the contract is active for the given moment.
func (c *Contract) IsRunning(at time.Time) bool {
	return c.Status == ContractStatusActive && !at.Before(c.StartDate) && !at.After(c.EndDate)
}

// DurationMonths returns the whole number of months between start and end,
// rounding partial months up. Used for document rendering only.
func (c *Contract) DurationMonths() int {
	if c.EndDate.Before(c.StartDate) {
		return 0
	}
	months := 0
	t := c.StartDate
	for t.Before(c.EndDate) {
		t = t.AddDate(0, 1, 0)
		months++
	}
	return months
}
