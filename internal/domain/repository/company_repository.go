package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
)

// CompanyRepository defines the interface for company profile operations.
// Every lookup is scoped to the owning user; a company owned by someone
// else is reported as not found (nil, nil).
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	Update(ctx context.Context, company *entity.Company) error
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*entity.Company, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Company, error)
}
