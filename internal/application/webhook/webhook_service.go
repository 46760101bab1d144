package webhook

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/sabores/backend/internal/domain/webhook"
	webhookinfra "github.com/sabores/backend/internal/infrastructure/webhook"
)

// Request is the payload for registering or updating a webhook
type Request struct {
	Name    string            `json:"name" binding:"required,max=200"`
	URL     string            `json:"url" binding:"required,url,max=2000"`
	Method  string            `json:"method" binding:"omitempty,oneof=POST PUT PATCH"`
	Headers map[string]string `json:"headers"`
	Secret  string            `json:"secret" binding:"omitempty,max=255"`
	Events  []string          `json:"events" binding:"required,min=1"`
	Active  bool              `json:"active"`
}

// Response is the webhook representation. The secret is write-only.
type Response struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	URL          string             `json:"url"`
	Method       string             `json:"method"`
	Headers      webhook.Headers    `json:"headers,omitempty"`
	HasSecret    bool               `json:"has_secret"`
	Events       webhook.EventNames `json:"events"`
	Active       bool               `json:"active"`
	SuccessCount int64              `json:"success_count"`
	FailureCount int64              `json:"failure_count"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// ToResponse converts a webhook to its response shape
func ToResponse(w *webhook.Webhook) Response {
	return Response{
		ID:           w.ID,
		Name:         w.Name,
		URL:          w.URL,
		Method:       w.Method,
		Headers:      w.Headers,
		HasSecret:    w.Secret != "",
		Events:       w.Events,
		Active:       w.Active,
		SuccessCount: w.SuccessCount,
		FailureCount: w.FailureCount,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

// LogResponse is one delivery attempt record
type LogResponse struct {
	ID         uuid.UUID              `json:"id"`
	Event      string                 `json:"event"`
	Status     webhook.DeliveryStatus `json:"status"`
	HTTPStatus int                    `json:"http_status"`
	Error      string                 `json:"error,omitempty"`
	DurationMs int64                  `json:"duration_ms"`
	CreatedAt  time.Time              `json:"created_at"`
}

// Service handles webhook administration
type Service struct {
	webhooks   webhook.WebhookRepository
	logs       webhook.WebhookLogRepository
	dispatcher *webhookinfra.Dispatcher
}

// NewService creates a new webhook Service
func NewService(webhooks webhook.WebhookRepository, logs webhook.WebhookLogRepository, dispatcher *webhookinfra.Dispatcher) *Service {
	return &Service{
		webhooks:   webhooks,
		logs:       logs,
		dispatcher: dispatcher,
	}
}

// Create registers a new webhook
func (s *Service) Create(ctx context.Context, req Request) (*Response, error) {
	hook, err := webhook.NewWebhook(req.Name, req.URL, req.Method, req.Headers, req.Secret, req.Events)
	if err != nil {
		return nil, err
	}
	if !req.Active {
		hook.Deactivate()
	}

	if err := s.webhooks.Save(ctx, hook); err != nil {
		return nil, err
	}

	resp := ToResponse(hook)
	return &resp, nil
}

// Update replaces a webhook's configuration. An empty secret on the
// request keeps the stored one; rotating requires sending a new value.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req Request) (*Response, error) {
	hook, err := s.webhooks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	secret := req.Secret
	if secret == "" {
		secret = hook.Secret
	}

	if err := hook.Update(req.Name, req.URL, req.Method, req.Headers, secret, req.Events); err != nil {
		return nil, err
	}
	if req.Active {
		hook.Activate()
	} else {
		hook.Deactivate()
	}

	if err := s.webhooks.Save(ctx, hook); err != nil {
		return nil, err
	}

	resp := ToResponse(hook)
	return &resp, nil
}

// List retrieves all webhooks
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]Response, error) {
	hooks, err := s.webhooks.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]Response, len(hooks))
	for i := range hooks {
		items[i] = ToResponse(&hooks[i])
	}
	return items, nil
}

// GetByID retrieves one webhook
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Response, error) {
	hook, err := s.webhooks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(hook)
	return &resp, nil
}

// Delete removes a webhook and its delivery history
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.webhooks.Delete(ctx, id)
}

// Logs retrieves a webhook's delivery history, newest first
func (s *Service) Logs(ctx context.Context, id uuid.UUID, filter shared.Filter) ([]LogResponse, error) {
	if _, err := s.webhooks.FindByID(ctx, id); err != nil {
		return nil, err
	}

	logs, err := s.logs.FindByWebhook(ctx, id, filter)
	if err != nil {
		return nil, err
	}

	items := make([]LogResponse, len(logs))
	for i, log := range logs {
		items[i] = LogResponse{
			ID:         log.ID,
			Event:      log.Event,
			Status:     log.Status,
			HTTPStatus: log.HTTPStatus,
			Error:      log.Error,
			DurationMs: log.DurationMs,
			CreatedAt:  log.CreatedAt,
		}
	}
	return items, nil
}

// SendTest delivers a synthetic event so operators can verify an
// endpoint end to end, signature included.
func (s *Service) SendTest(ctx context.Context, id uuid.UUID) error {
	hook, err := s.webhooks.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if len(hook.Events) == 0 {
		return shared.NewDomainError("INVALID_EVENTS", "Webhook has no subscribed events")
	}

	s.dispatcher.Dispatch(ctx, hook.Events[0], map[string]interface{}{
		"test":       true,
		"webhook_id": hook.ID,
		"sent_at":    time.Now().UTC(),
	})
	return nil
}
