package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"gorm.io/gorm"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

// GetByUserID retrieves billing settings by user ID
func (r *settingsRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.BillingSettings, error) {
	var settings entity.BillingSettings
	err := r.db.WithContext(ctx).Scopes(OwnerScope(userID)).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Create creates new billing settings
func (r *settingsRepository) Create(ctx context.Context, settings *entity.BillingSettings) error {
	return translateError(r.db.WithContext(ctx).Create(settings).Error)
}

// Update updates existing billing settings
func (r *settingsRepository) Update(ctx context.Context, settings *entity.BillingSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
