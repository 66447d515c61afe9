package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/pkg/apperror"
)

const defaultProductLimit = 50

// ProductService handles the product suggestion catalog
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID       uuid.UUID
	Description  string
	HSNCode      *string
	Rate         float64
	IsSuggestion bool
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	product := &entity.Product{
		UserID:       input.UserID,
		Description:  input.Description,
		HSNCode:      input.HSNCode,
		Rate:         input.Rate,
		IsSuggestion: input.IsSuggestion,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// ListProducts lists the owner's products, optionally filtered by description
func (s *ProductService) ListProducts(ctx context.Context, userID uuid.UUID, search string, limit int) ([]entity.Product, error) {
	if limit <= 0 {
		limit = defaultProductLimit
	}
	return s.productRepo.List(ctx, userID, search, limit)
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, userID, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, userID, id)
}
