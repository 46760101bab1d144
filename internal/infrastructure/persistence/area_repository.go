package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabores/backend/internal/domain/delivery"
	"github.com/sabores/backend/internal/domain/shared"
)

// GormDeliveryAreaRepository implements DeliveryAreaRepository using GORM
type GormDeliveryAreaRepository struct {
	db *gorm.DB
}

// NewGormDeliveryAreaRepository creates a new GormDeliveryAreaRepository
func NewGormDeliveryAreaRepository(db *gorm.DB) *GormDeliveryAreaRepository {
	return &GormDeliveryAreaRepository{db: db}
}

// FindByID finds a delivery area by its ID
func (r *GormDeliveryAreaRepository) FindByID(ctx context.Context, id uuid.UUID) (*delivery.DeliveryArea, error) {
	var area delivery.DeliveryArea
	if err := r.db.WithContext(ctx).First(&area, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &area, nil
}

// FindAll finds all delivery areas matching the filter
func (r *GormDeliveryAreaRepository) FindAll(ctx context.Context, filter shared.Filter) ([]delivery.DeliveryArea, error) {
	var areas []delivery.DeliveryArea
	query := applyFilter(r.db.WithContext(ctx).Model(&delivery.DeliveryArea{}), filter, "name")
	if err := query.Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

// FindActiveOrdered returns active areas in resolution order
func (r *GormDeliveryAreaRepository) FindActiveOrdered(ctx context.Context) ([]delivery.DeliveryArea, error) {
	var areas []delivery.DeliveryArea
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order ASC, created_at ASC").
		Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

// Save creates or updates a delivery area
func (r *GormDeliveryAreaRepository) Save(ctx context.Context, area *delivery.DeliveryArea) error {
	return r.db.WithContext(ctx).Save(area).Error
}

// Delete deletes a delivery area
func (r *GormDeliveryAreaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&delivery.DeliveryArea{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts delivery areas matching the filter
func (r *GormDeliveryAreaRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&delivery.DeliveryArea{}), filter, "name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormDeliveryAreaRepository implements DeliveryAreaRepository
var _ delivery.DeliveryAreaRepository = (*GormDeliveryAreaRepository)(nil)
