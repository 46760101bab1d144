package marketing

import (
	"context"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/marketing"
	"github.com/sabores/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AutomationService administers email and SMS drip automations. The two
// channels are stored separately but expose one API surface; the channel
// is part of every route.
type AutomationService struct {
	email     marketing.EmailAutomationRepository
	sms       marketing.SmsAutomationRepository
	runLogs   marketing.FlowRunLogRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewAutomationService creates a new AutomationService
func NewAutomationService(
	email marketing.EmailAutomationRepository,
	sms marketing.SmsAutomationRepository,
	runLogs marketing.FlowRunLogRepository,
	logger *zap.Logger,
) *AutomationService {
	return &AutomationService{
		email:   email,
		sms:     sms,
		runLogs: runLogs,
		logger:  logger.Named("marketing"),
	}
}

// SetEventPublisher sets the publisher used for storefront-reported events
func (s *AutomationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create creates an automation on the given channel
func (s *AutomationService) Create(ctx context.Context, channel marketing.Channel, req AutomationRequest) (*AutomationResponse, error) {
	switch channel {
	case marketing.ChannelEmail:
		automation, err := marketing.NewEmailAutomation(req.Name, req.Flow)
		if err != nil {
			return nil, err
		}
		automation.Description = req.Description
		if req.Active {
			automation.Activate()
		}
		if err := s.email.Save(ctx, automation); err != nil {
			return nil, err
		}
		resp := toEmailResponse(automation)
		return &resp, nil

	case marketing.ChannelSMS:
		automation, err := marketing.NewSmsAutomation(req.Name, req.Flow)
		if err != nil {
			return nil, err
		}
		automation.Description = req.Description
		if req.Active {
			automation.Activate()
		}
		if err := s.sms.Save(ctx, automation); err != nil {
			return nil, err
		}
		resp := toSmsResponse(automation)
		return &resp, nil
	}
	return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown automation channel")
}

// Update replaces an automation's name, description and flow
func (s *AutomationService) Update(ctx context.Context, channel marketing.Channel, id uuid.UUID, req AutomationRequest) (*AutomationResponse, error) {
	switch channel {
	case marketing.ChannelEmail:
		automation, err := s.email.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := automation.Update(req.Name, req.Flow); err != nil {
			return nil, err
		}
		automation.Description = req.Description
		if req.Active {
			automation.Activate()
		} else {
			automation.Deactivate()
		}
		if err := s.email.Save(ctx, automation); err != nil {
			return nil, err
		}
		resp := toEmailResponse(automation)
		return &resp, nil

	case marketing.ChannelSMS:
		automation, err := s.sms.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := automation.Update(req.Name, req.Flow); err != nil {
			return nil, err
		}
		automation.Description = req.Description
		if req.Active {
			automation.Activate()
		} else {
			automation.Deactivate()
		}
		if err := s.sms.Save(ctx, automation); err != nil {
			return nil, err
		}
		resp := toSmsResponse(automation)
		return &resp, nil
	}
	return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown automation channel")
}

// List retrieves all automations on a channel
func (s *AutomationService) List(ctx context.Context, channel marketing.Channel, filter shared.Filter) ([]AutomationResponse, error) {
	switch channel {
	case marketing.ChannelEmail:
		automations, err := s.email.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		items := make([]AutomationResponse, len(automations))
		for i := range automations {
			items[i] = toEmailResponse(&automations[i])
		}
		return items, nil

	case marketing.ChannelSMS:
		automations, err := s.sms.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		items := make([]AutomationResponse, len(automations))
		for i := range automations {
			items[i] = toSmsResponse(&automations[i])
		}
		return items, nil
	}
	return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown automation channel")
}

// GetByID retrieves one automation
func (s *AutomationService) GetByID(ctx context.Context, channel marketing.Channel, id uuid.UUID) (*AutomationResponse, error) {
	switch channel {
	case marketing.ChannelEmail:
		automation, err := s.email.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		resp := toEmailResponse(automation)
		return &resp, nil

	case marketing.ChannelSMS:
		automation, err := s.sms.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		resp := toSmsResponse(automation)
		return &resp, nil
	}
	return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown automation channel")
}

// Delete removes an automation. Queued tasks for it will fail on their
// next scheduler pass and surface in the run log.
func (s *AutomationService) Delete(ctx context.Context, channel marketing.Channel, id uuid.UUID) error {
	switch channel {
	case marketing.ChannelEmail:
		return s.email.Delete(ctx, id)
	case marketing.ChannelSMS:
		return s.sms.Delete(ctx, id)
	}
	return shared.NewDomainError("INVALID_CHANNEL", "Unknown automation channel")
}

// RunLogs retrieves an automation's run history, newest first
func (s *AutomationService) RunLogs(ctx context.Context, id uuid.UUID, filter shared.Filter) ([]RunLogResponse, error) {
	logs, err := s.runLogs.FindByAutomation(ctx, id, filter)
	if err != nil {
		return nil, err
	}

	items := make([]RunLogResponse, len(logs))
	for i := range logs {
		items[i] = toRunLogResponse(&logs[i])
	}
	return items, nil
}

// ReportAbandonedCart publishes the cart.abandoned trigger event from a
// storefront report
func (s *AutomationService) ReportAbandonedCart(ctx context.Context, req AbandonedCartRequest) error {
	if s.publisher == nil {
		return nil
	}

	event := marketing.NewCartAbandonedEvent(req.CustomerEmail, req.CustomerPhone, req.CartValue, req.ItemCount)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish cart abandoned event", zap.Error(err))
		return err
	}
	return nil
}
