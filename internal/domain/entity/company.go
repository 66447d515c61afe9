package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the issuing business profile. Each user has at most one.
type Company struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CompanyName    string    `gorm:"size:255;not null" json:"company_name"`
	Address        string    `gorm:"type:text;not null" json:"address"`
	GSTNumber      string    `gorm:"size:20;not null;column:gst_number" json:"gst_number"`
	Phone          *string   `gorm:"size:50" json:"phone,omitempty"`
	ProprietorName *string   `gorm:"size:255" json:"proprietor_name,omitempty"`
	Email          *string   `gorm:"size:255" json:"email,omitempty"`
	// Logo is an image data URL, e.g. "data:image/png;base64,..."
	Logo          *string   `gorm:"type:text" json:"logo,omitempty"`
	BankName      *string   `gorm:"size:255" json:"bank_name,omitempty"`
	AccountNumber *string   `gorm:"size:100" json:"account_number,omitempty"`
	IFSC          *string   `gorm:"size:20;column:ifsc" json:"ifsc,omitempty"`
	Branch        *string   `gorm:"size:255" json:"branch,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new company
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Company model
func (Company) TableName() string {
	return "companies"
}
