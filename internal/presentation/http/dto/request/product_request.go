package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Description  string  `json:"description" binding:"required"`
	HSNCode      *string `json:"hsn_code" binding:"omitempty,max=20"`
	Rate         float64 `json:"rate" binding:"gte=0"`
	IsSuggestion bool    `json:"is_suggestion"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search string `form:"search"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
