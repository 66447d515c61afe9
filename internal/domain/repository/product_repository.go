package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
)

// ProductRepository defines the interface for product suggestion operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Product, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	// List returns the owner's products, filtered by a case-insensitive description match when search is set.
	List(ctx context.Context, ownerID uuid.UUID, search string, limit int) ([]entity.Product, error)
}
