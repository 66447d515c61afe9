package request

// ReceiverRequest is used for both creating and replacing a receiver
type ReceiverRequest struct {
	Name      string  `json:"name" binding:"required,max=255"`
	Address   string  `json:"address" binding:"required,max=500"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Email     *string `json:"email" binding:"omitempty,max=255,email"`
	GSTNumber *string `json:"gst_number" binding:"omitempty,max=20"`
}
