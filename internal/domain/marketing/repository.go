package marketing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
)

// EmailAutomationRepository persists email automations
type EmailAutomationRepository interface {
	shared.Repository[EmailAutomation]
	FindActiveByTrigger(ctx context.Context, event string) ([]EmailAutomation, error)

	// IncrementCounters bumps total and success or failure with a single
	// atomic SQL update.
	IncrementCounters(ctx context.Context, id uuid.UUID, success bool) error
}

// SmsAutomationRepository persists SMS automations
type SmsAutomationRepository interface {
	shared.Repository[SmsAutomation]
	FindActiveByTrigger(ctx context.Context, event string) ([]SmsAutomation, error)
	IncrementCounters(ctx context.Context, id uuid.UUID, success bool) error
}

// FlowTaskRepository persists queued flow continuations
type FlowTaskRepository interface {
	Save(ctx context.Context, task *FlowTask) error
	FindByID(ctx context.Context, id uuid.UUID) (*FlowTask, error)

	// FindDue returns pending tasks whose due time has passed
	FindDue(ctx context.Context, now time.Time, limit int) ([]FlowTask, error)

	// Claim flips the task PENDING -> RUNNING with a conditional update.
	// Returns false when another scheduler pass already claimed it.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
}

// FlowRunLogRepository appends and reads immutable run records
type FlowRunLogRepository interface {
	Append(ctx context.Context, log *FlowRunLog) error
	FindByAutomation(ctx context.Context, automationID uuid.UUID, filter shared.Filter) ([]FlowRunLog, error)
}
