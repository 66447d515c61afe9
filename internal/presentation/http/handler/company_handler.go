package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/gstbill-api/internal/application/service"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/request"
	"github.com/sangkips/gstbill-api/internal/presentation/http/dto/response"
)

// CompanyHandler handles the company profile
type CompanyHandler struct {
	companyService *service.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Get returns the owner's company profile
func (h *CompanyHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	company, err := h.companyService.GetCompany(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Company retrieved successfully", company)
}

// Save creates the profile (201) or replaces it (200)
func (h *CompanyHandler) Save(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.SaveCompanyRequest
	if !bindJSON(c, &req) {
		return
	}

	company, created, err := h.companyService.SaveCompany(c.Request.Context(), &service.SaveCompanyInput{
		UserID:         userID,
		CompanyName:    req.CompanyName,
		Address:        req.Address,
		GSTNumber:      req.GSTNumber,
		Phone:          req.Phone,
		ProprietorName: req.ProprietorName,
		Email:          req.Email,
		Logo:           req.Logo,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		IFSC:           req.IFSC,
		Branch:         req.Branch,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if created {
		response.Created(c, "Company created successfully", company)
		return
	}
	response.OK(c, "Company updated successfully", company)
}
