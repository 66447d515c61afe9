package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/tax"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Bill is an issued GST invoice. Items, rates and Tax are always computed
// server-side; PDFURL is set only after the document was rendered.
type Bill struct {
	ID         uuid.UUID                         `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID                         `gorm:"type:uuid;not null;uniqueIndex:idx_bills_user_number" json:"user_id"`
	CompanyID  uuid.UUID                         `gorm:"type:uuid;not null;index" json:"company_id"`
	ReceiverID uuid.UUID                         `gorm:"type:uuid;not null;index" json:"receiver_id"`
	BillNumber int64                             `gorm:"not null;uniqueIndex:idx_bills_user_number" json:"bill_number"`
	Date       time.Time                         `gorm:"not null;index" json:"date"`
	Items      datatypes.JSONSlice[tax.LineItem] `gorm:"not null" json:"items"`
	CGSTRate   float64                           `gorm:"not null;column:cgst_rate" json:"cgst_rate"`
	SGSTRate   float64                           `gorm:"not null;column:sgst_rate" json:"sgst_rate"`
	Tax        tax.Breakdown                     `gorm:"embedded;embeddedPrefix:tax_" json:"tax"`
	QRPayload  string                            `gorm:"type:text" json:"qr_payload"`
	PDFURL     string                            `gorm:"size:255;column:pdf_url" json:"pdf_url"`
	CreatedAt  time.Time                         `json:"created_at"`
	UpdatedAt  time.Time                         `json:"updated_at"`

	// Relationships, resolved at read time
	Company  *Company  `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Receiver *Receiver `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// DocumentKey is the document store key of the rendered invoice
func (b *Bill) DocumentKey() string {
	return b.ID.String() + ".pdf"
}

// TaxRates returns the rates the bill was computed with
func (b *Bill) TaxRates() tax.Rates {
	return tax.Rates{CGSTPercent: b.CGSTRate, SGSTPercent: b.SGSTRate}
}

// LineItems returns the bill items as a plain slice
func (b *Bill) LineItems() []tax.LineItem {
	return []tax.LineItem(b.Items)
}
