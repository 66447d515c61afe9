package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"github.com/sangkips/gstbill-api/internal/domain/repository"
	"github.com/sangkips/gstbill-api/internal/domain/tax"
)

// SettingsService handles per-owner billing defaults
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	defaults     tax.Rates
}

// NewSettingsService creates a new settings service. defaults apply to
// owners who never saved their own rates.
func NewSettingsService(settingsRepo repository.SettingsRepository, defaults tax.Rates) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		defaults:     defaults,
	}
}

// GetSettings retrieves billing settings, creating defaults if not exists
func (s *SettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.BillingSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// If no settings exist, create default settings
	if settings == nil {
		settings = &entity.BillingSettings{
			UserID:          userID,
			DefaultCGSTRate: s.defaults.CGSTPercent,
			DefaultSGSTRate: s.defaults.SGSTPercent,
		}
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			if !isDuplicate(err) {
				return nil, err
			}
			// created concurrently
			return s.settingsRepo.GetByUserID(ctx, userID)
		}
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings
type UpdateSettingsInput struct {
	UserID          uuid.UUID
	DefaultCGSTRate float64
	DefaultSGSTRate float64
}

// UpdateSettings updates billing settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.BillingSettings, error) {
	settings, err := s.GetSettings(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	settings.DefaultCGSTRate = input.DefaultCGSTRate
	settings.DefaultSGSTRate = input.DefaultSGSTRate

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Rates returns the rates a new bill uses when the request names none.
// Reading does not create a settings row.
func (s *SettingsService) Rates(ctx context.Context, userID uuid.UUID) (tax.Rates, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return tax.Rates{}, err
	}
	if settings == nil {
		return s.defaults, nil
	}
	return tax.Rates{CGSTPercent: settings.DefaultCGSTRate, SGSTPercent: settings.DefaultSGSTRate}, nil
}
