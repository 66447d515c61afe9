package request

import "github.com/google/uuid"

// BillItemRequest is one submitted line item. Amounts are computed server-side.
type BillItemRequest struct {
	Description string  `json:"description" binding:"required,max=500"`
	HSNCode     string  `json:"hsn_code" binding:"max=20"`
	Quantity    float64 `json:"quantity" binding:"gt=0"`
	Rate        float64 `json:"rate" binding:"gte=0"`
}

// BillRequest is used for both creating and replacing a bill.
// Date accepts "2006-01-02" or RFC 3339.
type BillRequest struct {
	ReceiverID uuid.UUID         `json:"receiver_id" binding:"required"`
	BillNumber int64             `json:"bill_number" binding:"gt=0"`
	Date       string            `json:"date" binding:"required"`
	Items      []BillItemRequest `json:"items" binding:"dive"`
	CGSTRate   *float64          `json:"cgst_rate" binding:"omitempty,gte=0,lte=100"`
	SGSTRate   *float64          `json:"sgst_rate" binding:"omitempty,gte=0,lte=100"`
}

// BillFilterRequest represents bill list parameters
type BillFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
