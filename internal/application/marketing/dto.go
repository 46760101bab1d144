package marketing

import (
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/marketing"
	"github.com/shopspring/decimal"
)

// AutomationRequest creates or updates a drip automation
type AutomationRequest struct {
	Name        string              `json:"name" binding:"required,max=200"`
	Description string              `json:"description" binding:"omitempty,max=2000"`
	Flow        marketing.FlowGraph `json:"flow" binding:"required"`
	Active      bool                `json:"active"`
}

// AutomationResponse is the automation representation
type AutomationResponse struct {
	ID          uuid.UUID           `json:"id"`
	Channel     marketing.Channel   `json:"channel"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Active      bool                `json:"active"`
	Flow        marketing.FlowGraph `json:"flow"`
	TotalRuns   int64               `json:"total_runs"`
	SuccessRuns int64               `json:"success_runs"`
	FailureRuns int64               `json:"failure_runs"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func toEmailResponse(a *marketing.EmailAutomation) AutomationResponse {
	return AutomationResponse{
		ID:          a.ID,
		Channel:     marketing.ChannelEmail,
		Name:        a.Name,
		Description: a.Description,
		Active:      a.Active,
		Flow:        a.Flow,
		TotalRuns:   a.TotalRuns,
		SuccessRuns: a.SuccessRuns,
		FailureRuns: a.FailureRuns,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toSmsResponse(a *marketing.SmsAutomation) AutomationResponse {
	return AutomationResponse{
		ID:          a.ID,
		Channel:     marketing.ChannelSMS,
		Name:        a.Name,
		Description: a.Description,
		Active:      a.Active,
		Flow:        a.Flow,
		TotalRuns:   a.TotalRuns,
		SuccessRuns: a.SuccessRuns,
		FailureRuns: a.FailureRuns,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// RunLogResponse is one flow run record
type RunLogResponse struct {
	ID            uuid.UUID           `json:"id"`
	AutomationID  uuid.UUID           `json:"automation_id"`
	Channel       marketing.Channel   `json:"channel"`
	CustomerEmail string              `json:"customer_email"`
	Status        marketing.RunStatus `json:"status"`
	Error         string              `json:"error,omitempty"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    time.Time           `json:"finished_at"`
}

func toRunLogResponse(log *marketing.FlowRunLog) RunLogResponse {
	return RunLogResponse{
		ID:            log.ID,
		AutomationID:  log.AutomationID,
		Channel:       log.Channel,
		CustomerEmail: log.CustomerEmail,
		Status:        log.Status,
		Error:         log.Error,
		StartedAt:     log.StartedAt,
		FinishedAt:    log.FinishedAt,
	}
}

// AbandonedCartRequest is the storefront report of a cart that never
// reached checkout
type AbandonedCartRequest struct {
	CustomerEmail string          `json:"customer_email" binding:"required,email"`
	CustomerPhone string          `json:"customer_phone" binding:"omitempty,max=50"`
	CartValue     decimal.Decimal `json:"cart_value"`
	ItemCount     int             `json:"item_count" binding:"min=0"`
}
