package webhook

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
)

// WebhookRepository persists registered webhooks
type WebhookRepository interface {
	shared.Repository[Webhook]

	// FindActiveByEvent returns active webhooks subscribed to the event
	FindActiveByEvent(ctx context.Context, event string) ([]Webhook, error)

	// IncrementCounters bumps the success or failure counter with a single
	// atomic SQL update, once per delivery attempt.
	IncrementCounters(ctx context.Context, id uuid.UUID, success bool) error
}

// WebhookLogRepository appends and reads delivery history
type WebhookLogRepository interface {
	Append(ctx context.Context, log *WebhookLog) error
	FindByWebhook(ctx context.Context, webhookID uuid.UUID, filter shared.Filter) ([]WebhookLog, error)
}
