package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
)

// SettingsRepository defines the interface for billing settings data access
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.BillingSettings, error)
	Create(ctx context.Context, settings *entity.BillingSettings) error
	Update(ctx context.Context, settings *entity.BillingSettings) error
}
