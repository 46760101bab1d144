package marketing

import (
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/shared"
)

// RunStatus is the terminal outcome of one flow run
type RunStatus string

const (
	RunStatusSuccess RunStatus = "SUCCESS"
	RunStatusFailed  RunStatus = "FAILED"
)

// FlowRunLog is an immutable record of one flow run for one customer.
// Rows are only ever appended.
type FlowRunLog struct {
	shared.BaseEntity
	AutomationID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Channel       Channel   `gorm:"type:varchar(10);not null"`
	CustomerEmail string    `gorm:"type:varchar(255);not null"`
	Status        RunStatus `gorm:"type:varchar(10);not null"`
	Error         string    `gorm:"type:text"`
	StartedAt     time.Time `gorm:"not null"`
	FinishedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FlowRunLog) TableName() string {
	return "flow_run_logs"
}

// NewFlowRunLog records the outcome of a finished run
func NewFlowRunLog(automationID uuid.UUID, channel Channel, customerEmail string, status RunStatus, runErr error, startedAt time.Time) *FlowRunLog {
	log := &FlowRunLog{
		BaseEntity:    shared.NewBaseEntity(),
		AutomationID:  automationID,
		Channel:       channel,
		CustomerEmail: customerEmail,
		Status:        status,
		StartedAt:     startedAt,
		FinishedAt:    time.Now(),
	}
	if runErr != nil {
		log.Error = runErr.Error()
	}
	return log
}
