package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gstbill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type receiverRepository struct {
	db *gorm.DB
}

// NewReceiverRepository creates a new receiver repository
func NewReceiverRepository(db *gorm.DB) domainRepo.ReceiverRepository {
	return &receiverRepository{db: db}
}

func (r *receiverRepository) Create(ctx context.Context, receiver *entity.Receiver) error {
	return r.db.WithContext(ctx).Create(receiver).Error
}

func (r *receiverRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Receiver, error) {
	var receiver entity.Receiver
	err := r.db.WithContext(ctx).Scopes(OwnerScope(ownerID)).First(&receiver, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receiver, err
}

func (r *receiverRepository) Update(ctx context.Context, receiver *entity.Receiver) error {
	res := r.db.WithContext(ctx).
		Model(receiver).
		Scopes(OwnerScope(receiver.UserID)).
		Select("name", "address", "phone", "email", "gst_number").
		Updates(receiver)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainRepo.ErrNotFound
	}
	return nil
}

func (r *receiverRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Delete(&entity.Receiver{}, "id = ?", id).Error
}

func (r *receiverRepository) List(ctx context.Context, ownerID uuid.UUID, search string) ([]entity.Receiver, error) {
	var receivers []entity.Receiver
	query := r.db.WithContext(ctx).Scopes(OwnerScope(ownerID))
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", containsPattern(search))
	}
	err := query.Order("name ASC").Find(&receivers).Error
	return receivers, err
}
