package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillingSettings holds per-user billing defaults
type BillingSettings struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Tax defaults applied when a bill does not specify rates
	DefaultCGSTRate float64 `gorm:"not null;column:default_cgst_rate" json:"default_cgst_rate"`
	DefaultSGSTRate float64 `gorm:"not null;column:default_sgst_rate" json:"default_sgst_rate"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *BillingSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillingSettings model
func (BillingSettings) TableName() string {
	return "billing_settings"
}
