package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/pkg/apperror"
)

// CompanyService manages the single company profile of an owner
type CompanyService struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyService creates a new company service
func NewCompanyService(companyRepo repository.CompanyRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo}
}

// SaveCompanyInput represents the company profile input
type SaveCompanyInput struct {
	UserID         uuid.UUID
	CompanyName    string
	Address        string
	GSTNumber      string
	Phone          *string
	ProprietorName *string
	Email          *string
	Logo           *string
	BankName       *string
	AccountNumber  *string
	IFSC           *string
	Branch         *string
}

// GetCompany returns the owner's company profile
func (s *CompanyService) GetCompany(ctx context.Context, userID uuid.UUID) (*entity.Company, error) {
	company, err := s.companyRepo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company profile")
	}
	return company, nil
}

// SaveCompany creates the company profile, or replaces it when one exists.
// created reports which of the two happened.
func (s *CompanyService) SaveCompany(ctx context.Context, input *SaveCompanyInput) (company *entity.Company, created bool, err error) {
	company, err = s.companyRepo.GetByOwner(ctx, input.UserID)
	if err != nil {
		return nil, false, err
	}

	if company == nil {
		company = &entity.Company{UserID: input.UserID}
		created = true
	}

	company.CompanyName = input.CompanyName
	company.Address = input.Address
	company.GSTNumber = input.GSTNumber
	company.Phone = input.Phone
	company.ProprietorName = input.ProprietorName
	company.Email = input.Email
	company.Logo = input.Logo
	company.BankName = input.BankName
	company.AccountNumber = input.AccountNumber
	company.IFSC = input.IFSC
	company.Branch = input.Branch

	if created {
		err = s.companyRepo.Create(ctx, company)
	} else {
		err = s.companyRepo.Update(ctx, company)
	}
	if err != nil {
		if isDuplicate(err) {
			return nil, false, apperror.NewConflictError("Company profile already exists")
		}
		return nil, false, err
	}

	return company, created, nil
}
