package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabores/backend/internal/domain/marketing"
	"github.com/sabores/backend/internal/domain/shared"
)

// GormEmailAutomationRepository implements EmailAutomationRepository using GORM
type GormEmailAutomationRepository struct {
	db *gorm.DB
}

// NewGormEmailAutomationRepository creates a new GormEmailAutomationRepository
func NewGormEmailAutomationRepository(db *gorm.DB) *GormEmailAutomationRepository {
	return &GormEmailAutomationRepository{db: db}
}

// FindByID finds an email automation by its ID
func (r *GormEmailAutomationRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketing.EmailAutomation, error) {
	var automation marketing.EmailAutomation
	if err := r.db.WithContext(ctx).First(&automation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &automation, nil
}

// FindAll finds all email automations matching the filter
func (r *GormEmailAutomationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]marketing.EmailAutomation, error) {
	var automations []marketing.EmailAutomation
	query := applyFilter(r.db.WithContext(ctx).Model(&marketing.EmailAutomation{}), filter, "name")
	if err := query.Find(&automations).Error; err != nil {
		return nil, err
	}
	return automations, nil
}

// FindActiveByTrigger returns active automations whose flow starts on the
// given trigger event. The flow is a JSON column, so the trigger match
// happens in memory.
func (r *GormEmailAutomationRepository) FindActiveByTrigger(ctx context.Context, event string) ([]marketing.EmailAutomation, error) {
	var active []marketing.EmailAutomation
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&active).Error; err != nil {
		return nil, err
	}

	matched := make([]marketing.EmailAutomation, 0, len(active))
	for _, automation := range active {
		if trigger, ok := automation.Flow.Trigger(); ok && trigger.Event == event {
			matched = append(matched, automation)
		}
	}
	return matched, nil
}

// IncrementCounters bumps total and the success or failure counter
func (r *GormEmailAutomationRepository) IncrementCounters(ctx context.Context, id uuid.UUID, success bool) error {
	return incrementRunCounters(r.db.WithContext(ctx).Model(&marketing.EmailAutomation{}), id, success)
}

// Save creates or updates an email automation
func (r *GormEmailAutomationRepository) Save(ctx context.Context, automation *marketing.EmailAutomation) error {
	return r.db.WithContext(ctx).Save(automation).Error
}

// Delete deletes an email automation
func (r *GormEmailAutomationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&marketing.EmailAutomation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts email automations matching the filter
func (r *GormEmailAutomationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&marketing.EmailAutomation{}), filter, "name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormEmailAutomationRepository implements EmailAutomationRepository
var _ marketing.EmailAutomationRepository = (*GormEmailAutomationRepository)(nil)

// GormSmsAutomationRepository implements SmsAutomationRepository using GORM
type GormSmsAutomationRepository struct {
	db *gorm.DB
}

// NewGormSmsAutomationRepository creates a new GormSmsAutomationRepository
func NewGormSmsAutomationRepository(db *gorm.DB) *GormSmsAutomationRepository {
	return &GormSmsAutomationRepository{db: db}
}

// FindByID finds an SMS automation by its ID
func (r *GormSmsAutomationRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketing.SmsAutomation, error) {
	var automation marketing.SmsAutomation
	if err := r.db.WithContext(ctx).First(&automation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &automation, nil
}

// FindAll finds all SMS automations matching the filter
func (r *GormSmsAutomationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]marketing.SmsAutomation, error) {
	var automations []marketing.SmsAutomation
	query := applyFilter(r.db.WithContext(ctx).Model(&marketing.SmsAutomation{}), filter, "name")
	if err := query.Find(&automations).Error; err != nil {
		return nil, err
	}
	return automations, nil
}

// FindActiveByTrigger returns active automations starting on the event
func (r *GormSmsAutomationRepository) FindActiveByTrigger(ctx context.Context, event string) ([]marketing.SmsAutomation, error) {
	var active []marketing.SmsAutomation
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&active).Error; err != nil {
		return nil, err
	}

	matched := make([]marketing.SmsAutomation, 0, len(active))
	for _, automation := range active {
		if trigger, ok := automation.Flow.Trigger(); ok && trigger.Event == event {
			matched = append(matched, automation)
		}
	}
	return matched, nil
}

// IncrementCounters bumps total and the success or failure counter
func (r *GormSmsAutomationRepository) IncrementCounters(ctx context.Context, id uuid.UUID, success bool) error {
	return incrementRunCounters(r.db.WithContext(ctx).Model(&marketing.SmsAutomation{}), id, success)
}

// Save creates or updates an SMS automation
func (r *GormSmsAutomationRepository) Save(ctx context.Context, automation *marketing.SmsAutomation) error {
	return r.db.WithContext(ctx).Save(automation).Error
}

// Delete deletes an SMS automation
func (r *GormSmsAutomationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&marketing.SmsAutomation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts SMS automations matching the filter
func (r *GormSmsAutomationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&marketing.SmsAutomation{}), filter, "name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormSmsAutomationRepository implements SmsAutomationRepository
var _ marketing.SmsAutomationRepository = (*GormSmsAutomationRepository)(nil)

// incrementRunCounters does the shared atomic counter update for both
// automation tables
func incrementRunCounters(query *gorm.DB, id uuid.UUID, success bool) error {
	column := "failure_runs"
	if success {
		column = "success_runs"
	}
	return query.
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"total_runs": gorm.Expr("total_runs + 1"),
			column:       gorm.Expr(column + " + 1"),
		}).Error
}
