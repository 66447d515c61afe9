package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/pkg/pagination"
)

// BillFilterParams represents filter parameters for listing bills
type BillFilterParams struct {
	Search     string
	Pagination pagination.Params
}

// PublishFunc runs inside the write transaction after the bill row was
// written. Returning an error rolls the write back.
type PublishFunc func() error

// BillRepository defines the interface for bill data operations.
// All reads are scoped to the owner and resolve Company and Receiver.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill, publish PublishFunc) error
	Update(ctx context.Context, bill *entity.Bill, publish PublishFunc) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Bill, error)
	GetByNumber(ctx context.Context, ownerID uuid.UUID, number int64) (*entity.Bill, error)
	List(ctx context.Context, ownerID uuid.UUID, params *BillFilterParams) ([]entity.Bill, int64, error)
	// ListAll returns every bill of the owner without relationships, for aggregation.
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]entity.Bill, error)
	MaxBillNumber(ctx context.Context, ownerID uuid.UUID) (int64, error)
	CountByReceiver(ctx context.Context, ownerID, receiverID uuid.UUID) (int64, error)
}
