package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabores/backend/internal/domain/shared"
	"github.com/sabores/backend/internal/domain/webhook"
)

// GormWebhookRepository implements WebhookRepository using GORM
type GormWebhookRepository struct {
	db *gorm.DB
}

// NewGormWebhookRepository creates a new GormWebhookRepository
func NewGormWebhookRepository(db *gorm.DB) *GormWebhookRepository {
	return &GormWebhookRepository{db: db}
}

// FindByID finds a webhook by its ID
func (r *GormWebhookRepository) FindByID(ctx context.Context, id uuid.UUID) (*webhook.Webhook, error) {
	var hook webhook.Webhook
	if err := r.db.WithContext(ctx).First(&hook, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &hook, nil
}

// FindAll finds all webhooks matching the filter
func (r *GormWebhookRepository) FindAll(ctx context.Context, filter shared.Filter) ([]webhook.Webhook, error) {
	var hooks []webhook.Webhook
	query := applyFilter(r.db.WithContext(ctx).Model(&webhook.Webhook{}), filter, "name", "url")
	if err := query.Find(&hooks).Error; err != nil {
		return nil, err
	}
	return hooks, nil
}

// FindActiveByEvent returns active webhooks subscribed to the event. The
// subscription list is a JSON column, so matching happens in memory; the
// webhook table stays small for a single restaurant.
func (r *GormWebhookRepository) FindActiveByEvent(ctx context.Context, event string) ([]webhook.Webhook, error) {
	var active []webhook.Webhook
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&active).Error; err != nil {
		return nil, err
	}

	subscribed := make([]webhook.Webhook, 0, len(active))
	for _, hook := range active {
		if hook.Events.Contains(event) {
			subscribed = append(subscribed, hook)
		}
	}
	return subscribed, nil
}

// IncrementCounters bumps one counter atomically
func (r *GormWebhookRepository) IncrementCounters(ctx context.Context, id uuid.UUID, success bool) error {
	column := "failure_count"
	if success {
		column = "success_count"
	}
	return r.db.WithContext(ctx).
		Model(&webhook.Webhook{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}

// Save creates or updates a webhook
func (r *GormWebhookRepository) Save(ctx context.Context, hook *webhook.Webhook) error {
	return r.db.WithContext(ctx).Save(hook).Error
}

// Delete deletes a webhook and its delivery history
func (r *GormWebhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&webhook.WebhookLog{}, "webhook_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&webhook.Webhook{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts webhooks matching the filter
func (r *GormWebhookRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applySearch(r.db.WithContext(ctx).Model(&webhook.Webhook{}), filter, "name", "url")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormWebhookRepository implements WebhookRepository
var _ webhook.WebhookRepository = (*GormWebhookRepository)(nil)

// GormWebhookLogRepository implements WebhookLogRepository using GORM
type GormWebhookLogRepository struct {
	db *gorm.DB
}

// NewGormWebhookLogRepository creates a new GormWebhookLogRepository
func NewGormWebhookLogRepository(db *gorm.DB) *GormWebhookLogRepository {
	return &GormWebhookLogRepository{db: db}
}

// Append stores a delivery record
func (r *GormWebhookLogRepository) Append(ctx context.Context, log *webhook.WebhookLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindByWebhook returns delivery history newest first
func (r *GormWebhookLogRepository) FindByWebhook(ctx context.Context, webhookID uuid.UUID, filter shared.Filter) ([]webhook.WebhookLog, error) {
	var logs []webhook.WebhookLog
	query := r.db.WithContext(ctx).
		Where("webhook_id = ?", webhookID).
		Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Ensure GormWebhookLogRepository implements WebhookLogRepository
var _ webhook.WebhookLogRepository = (*GormWebhookLogRepository)(nil)
