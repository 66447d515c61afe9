package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
)

// ReceiverRepository defines the interface for receiver data operations
type ReceiverRepository interface {
	Create(ctx context.Context, receiver *entity.Receiver) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Receiver, error)
	Update(ctx context.Context, receiver *entity.Receiver) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	// List returns the owner's receivers, filtered by a case-insensitive name match when search is set.
	List(ctx context.Context, ownerID uuid.UUID, search string) ([]entity.Receiver, error)
}
