package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sabores/backend/internal/domain/settings"
)

// GormSettingsRepository implements SettingsRepository using GORM. The
// settings table holds a single row; Load creates it with defaults on
// first use.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Load returns the settings row, creating one with defaults when missing
func (r *GormSettingsRepository) Load(ctx context.Context) (*settings.Settings, error) {
	var s settings.Settings
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := settings.NewSettings("Sabores")
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		// A concurrent Load may have created the row first
		var existing settings.Settings
		if ferr := r.db.WithContext(ctx).Order("created_at ASC").First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return created, nil
}

// Save persists the settings row
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Ensure GormSettingsRepository implements SettingsRepository
var _ settings.SettingsRepository = (*GormSettingsRepository)(nil)
