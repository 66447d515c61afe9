package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gstbill-api/internal/domain/repository"
	"gorm.io/gorm"
)

const maxProductListLimit = 100

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Scopes(OwnerScope(ownerID)).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, ownerID uuid.UUID, search string, limit int) ([]entity.Product, error) {
	if limit < 1 || limit > maxProductListLimit {
		limit = maxProductListLimit
	}

	var products []entity.Product
	query := r.db.WithContext(ctx).Scopes(OwnerScope(ownerID))
	if search != "" {
		query = query.Where("LOWER(description) LIKE ?", containsPattern(search))
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&products).Error
	return products, err
}
