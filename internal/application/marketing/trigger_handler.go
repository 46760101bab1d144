package marketing

import (
	"context"

	"github.com/sabores/backend/internal/domain/marketing"
	"github.com/sabores/backend/internal/domain/ordering"
	"github.com/sabores/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TriggerHandler subscribes to the event bus and starts flow runs on the
// active automations matching the event's trigger. Runs are started for
// both channels; each automation walks its own graph independently, so
// one failing run never blocks the others.
type TriggerHandler struct {
	runner *FlowRunner
	email  marketing.EmailAutomationRepository
	sms    marketing.SmsAutomationRepository
	logger *zap.Logger
}

// NewTriggerHandler creates a trigger handler
func NewTriggerHandler(
	runner *FlowRunner,
	email marketing.EmailAutomationRepository,
	sms marketing.SmsAutomationRepository,
	logger *zap.Logger,
) *TriggerHandler {
	return &TriggerHandler{
		runner: runner,
		email:  email,
		sms:    sms,
		logger: logger.Named("marketing-triggers"),
	}
}

// EventTypes implements shared.EventHandler
func (h *TriggerHandler) EventTypes() []string {
	return []string{marketing.TriggerOrderCreated, marketing.TriggerCartAbandoned}
}

// Handle implements shared.EventHandler
func (h *TriggerHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	runCtx, ok := h.runContext(event)
	if !ok {
		return nil
	}
	h.startRuns(ctx, event.EventType(), runCtx)
	return nil
}

func (h *TriggerHandler) runContext(event shared.DomainEvent) (marketing.RunContext, bool) {
	switch e := event.(type) {
	case *ordering.OrderCreatedEvent:
		orderID := e.OrderID
		return marketing.RunContext{
			CustomerEmail: e.CustomerEmail,
			CustomerPhone: e.CustomerPhone,
			OrderID:       &orderID,
			OrderNumber:   e.OrderNumber,
			CartValue:     e.Total,
		}, true

	case *marketing.CartAbandonedEvent:
		return marketing.RunContext{
			CustomerEmail: e.CustomerEmail,
			CustomerPhone: e.CustomerPhone,
			CartValue:     e.CartValue,
		}, true
	}
	return marketing.RunContext{}, false
}

func (h *TriggerHandler) startRuns(ctx context.Context, trigger string, runCtx marketing.RunContext) {
	emails, err := h.email.FindActiveByTrigger(ctx, trigger)
	if err != nil {
		h.logger.Error("failed to load email automations for trigger",
			zap.String("trigger", trigger),
			zap.Error(err),
		)
	}
	for i := range emails {
		automation := &emails[i]
		if err := h.runner.Start(ctx, automation.ID, marketing.ChannelEmail, automation.Flow, runCtx); err != nil {
			h.logger.Warn("email automation run failed",
				zap.String("automation_id", automation.ID.String()),
				zap.String("trigger", trigger),
				zap.Error(err),
			)
		}
	}

	texts, err := h.sms.FindActiveByTrigger(ctx, trigger)
	if err != nil {
		h.logger.Error("failed to load sms automations for trigger",
			zap.String("trigger", trigger),
			zap.Error(err),
		)
	}
	for i := range texts {
		automation := &texts[i]
		if err := h.runner.Start(ctx, automation.ID, marketing.ChannelSMS, automation.Flow, runCtx); err != nil {
			h.logger.Warn("sms automation run failed",
				zap.String("automation_id", automation.ID.String()),
				zap.String("trigger", trigger),
				zap.Error(err),
			)
		}
	}
}
