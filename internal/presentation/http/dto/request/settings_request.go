package request

// UpdateSettingsRequest sets the owner's default tax rates
type UpdateSettingsRequest struct {
	DefaultCGSTRate *float64 `json:"default_cgst_rate" binding:"required,gte=0,lte=100"`
	DefaultSGSTRate *float64 `json:"default_sgst_rate" binding:"required,gte=0,lte=100"`
}
