package marketing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Channel selects which automation table a task belongs to
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
)

// IsValid checks if the channel is known
func (c Channel) IsValid() bool {
	return c == ChannelEmail || c == ChannelSMS
}

// TaskStatus tracks a queued flow step through its lifecycle
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusRunning   TaskStatus = "RUNNING"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusFailed    TaskStatus = "FAILED"
)

// RunContext is the customer context a flow executes against, persisted
// as a JSON column on the task.
type RunContext struct {
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	OrderID       *uuid.UUID      `json:"order_id,omitempty"`
	OrderNumber   int64           `json:"order_number,omitempty"`
	CartValue     decimal.Decimal `json:"cart_value"`
}

// Value implements driver.Valuer
func (c RunContext) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner
func (c *RunContext) Scan(value interface{}) error {
	if value == nil {
		*c = RunContext{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for RunContext: %T", value)
	}
	return json.Unmarshal(data, c)
}

// FlowTask is a queued continuation of a flow run. Hitting a delay node
// persists a task due after the delay; the scheduler claims due tasks and
// resumes at NodeID. Claiming is a conditional update PENDING -> RUNNING
// done by the repository, so concurrent scheduler passes never run the
// same task twice.
type FlowTask struct {
	shared.BaseEntity
	AutomationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Channel      Channel    `gorm:"type:varchar(10);not null"`
	NodeID       string     `gorm:"type:varchar(100);not null"`
	Context      RunContext `gorm:"type:jsonb;not null"`
	DueAt        time.Time  `gorm:"not null;index:idx_flow_tasks_due"`
	Status       TaskStatus `gorm:"type:varchar(20);not null;default:PENDING;index:idx_flow_tasks_due,priority:2"`
	Attempts     int        `gorm:"not null;default:0"`
	LastError    string     `gorm:"type:text"`
	CompletedAt  *time.Time
}

// TableName returns the table name for GORM
func (FlowTask) TableName() string {
	return "flow_tasks"
}

// NewFlowTask queues a flow continuation at the given node, due at dueAt
func NewFlowTask(automationID uuid.UUID, channel Channel, nodeID string, runCtx RunContext, dueAt time.Time) (*FlowTask, error) {
	if automationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTOMATION", "Automation ID cannot be empty")
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", fmt.Sprintf("Unknown channel %s", channel))
	}
	if nodeID == "" {
		return nil, shared.NewDomainError("INVALID_NODE", "Node ID cannot be empty")
	}
	if runCtx.CustomerEmail == "" {
		return nil, shared.NewDomainError("INVALID_CONTEXT", "Run context needs a customer email")
	}

	return &FlowTask{
		BaseEntity:   shared.NewBaseEntity(),
		AutomationID: automationID,
		Channel:      channel,
		NodeID:       nodeID,
		Context:      runCtx,
		DueAt:        dueAt,
		Status:       TaskStatusPending,
	}, nil
}

// IsDue reports whether the task should be picked up at the given time
func (t *FlowTask) IsDue(now time.Time) bool {
	return t.Status == TaskStatusPending && !t.DueAt.After(now)
}

// MarkCompleted finishes the task successfully
func (t *FlowTask) MarkCompleted() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// MarkFailed records the failure; the task is not retried
func (t *FlowTask) MarkFailed(err error) {
	t.Status = TaskStatusFailed
	if err != nil {
		t.LastError = err.Error()
	}
	t.Attempts++
	t.UpdatedAt = time.Now()
}
