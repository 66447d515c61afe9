package request

// SaveCompanyRequest creates or replaces the company profile
type SaveCompanyRequest struct {
	CompanyName    string  `json:"company_name" binding:"required,max=255"`
	Address        string  `json:"address" binding:"required,max=500"`
	GSTNumber      string  `json:"gst_number" binding:"required,max=20"`
	Phone          *string `json:"phone" binding:"omitempty,max=50"`
	ProprietorName *string `json:"proprietor_name" binding:"omitempty,max=255"`
	Email          *string `json:"email" binding:"omitempty,max=255,email"`
	Logo           *string `json:"logo"`
	BankName       *string `json:"bank_name" binding:"omitempty,max=255"`
	AccountNumber  *string `json:"account_number" binding:"omitempty,max=100"`
	IFSC           *string `json:"ifsc" binding:"omitempty,max=20"`
	Branch         *string `json:"branch" binding:"omitempty,max=255"`
}
