package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	domainRepo "github.com/sangkips/gstbill-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// Create inserts the bill and runs publish in the same transaction.
// The bill only becomes visible when both succeed.
func (r *billRepository) Create(ctx context.Context, bill *entity.Bill, publish domainRepo.PublishFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(bill).Error; err != nil {
			return translateError(err)
		}
		if publish != nil {
			return publish()
		}
		return nil
	})
}

// Update overwrites every mutable column of the bill and runs publish in
// the same transaction.
func (r *billRepository) Update(ctx context.Context, bill *entity.Bill, publish domainRepo.PublishFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(bill).
			Scopes(OwnerScope(bill.UserID)).
			Select("*").
			Omit("id", "user_id", "created_at", clause.Associations).
			Updates(bill)
		if res.Error != nil {
			return translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return domainRepo.ErrNotFound
		}
		if publish != nil {
			return publish()
		}
		return nil
	})
}

func (r *billRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Delete(&entity.Bill{}, "id = ?", id).Error
}

func (r *billRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.withRelations(r.db.WithContext(ctx)).
		Scopes(OwnerScope(ownerID)).
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetByNumber(ctx context.Context, ownerID uuid.UUID, number int64) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		First(&bill, "bill_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) List(ctx context.Context, ownerID uuid.UUID, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	if params == nil {
		params = &domainRepo.BillFilterParams{}
	}
	page := params.Pagination.Normalize()

	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.Bill{}).
		Scopes(OwnerScope(ownerID)).
		Joins("LEFT JOIN receivers ON receivers.id = bills.receiver_id")

	if params.Search != "" {
		pattern := containsPattern(params.Search)
		query = query.Where("LOWER(receivers.name) LIKE ? OR CAST(bills.bill_number AS TEXT) LIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.withRelations(query).
		Select("bills.*").
		Order("bills.date DESC").
		Order("bills.bill_number DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(OwnerScope(ownerID)).
		Order("date ASC").
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) MaxBillNumber(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var highest int64
	err := r.db.WithContext(ctx).
		Model(&entity.Bill{}).
		Scopes(OwnerScope(ownerID)).
		Select("COALESCE(MAX(bill_number), 0)").
		Scan(&highest).Error
	return highest, err
}

func (r *billRepository) CountByReceiver(ctx context.Context, ownerID, receiverID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Bill{}).
		Scopes(OwnerScope(ownerID)).
		Where("receiver_id = ?", receiverID).
		Count(&count).Error
	return count, err
}

// withRelations preloads the company and receiver a bill was issued with.
// Receivers are loaded unscoped so archived parties still resolve.
func (r *billRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Company").
		Preload("Receiver", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		})
}
