package marketing

import (
	"time"

	"github.com/sabores/backend/internal/domain/shared"
)

// EmailAutomation is a customer-facing email drip flow. Run counters are
// incremented by the repository with atomic SQL updates, never in memory.
type EmailAutomation struct {
	shared.BaseAggregateRoot
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	Active      bool      `gorm:"not null;default:false"`
	Flow        FlowGraph `gorm:"type:jsonb;not null"`
	TotalRuns   int64     `gorm:"not null;default:0"`
	SuccessRuns int64     `gorm:"not null;default:0"`
	FailureRuns int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (EmailAutomation) TableName() string {
	return "email_automations"
}

// NewEmailAutomation creates an inactive email automation
func NewEmailAutomation(name string, flow FlowGraph) (*EmailAutomation, error) {
	if err := validateAutomationName(name); err != nil {
		return nil, err
	}
	if err := flow.Validate(); err != nil {
		return nil, err
	}

	return &EmailAutomation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Flow:              flow,
	}, nil
}

// Update replaces the automation's name and flow graph
func (a *EmailAutomation) Update(name string, flow FlowGraph) error {
	if err := validateAutomationName(name); err != nil {
		return err
	}
	if err := flow.Validate(); err != nil {
		return err
	}

	a.Name = name
	a.Flow = flow
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Activate enables the automation
func (a *EmailAutomation) Activate() {
	a.Active = true
	a.UpdatedAt = time.Now()
}

// Deactivate disables the automation; queued tasks keep running
func (a *EmailAutomation) Deactivate() {
	a.Active = false
	a.UpdatedAt = time.Now()
}

// SmsAutomation is an SMS drip flow, the SMS counterpart of
// EmailAutomation.
type SmsAutomation struct {
	shared.BaseAggregateRoot
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	Active      bool      `gorm:"not null;default:false"`
	Flow        FlowGraph `gorm:"type:jsonb;not null"`
	TotalRuns   int64     `gorm:"not null;default:0"`
	SuccessRuns int64     `gorm:"not null;default:0"`
	FailureRuns int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SmsAutomation) TableName() string {
	return "sms_automations"
}

// NewSmsAutomation creates an inactive SMS automation
func NewSmsAutomation(name string, flow FlowGraph) (*SmsAutomation, error) {
	if err := validateAutomationName(name); err != nil {
		return nil, err
	}
	if err := flow.Validate(); err != nil {
		return nil, err
	}

	return &SmsAutomation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Flow:              flow,
	}, nil
}

// Update replaces the automation's name and flow graph
func (a *SmsAutomation) Update(name string, flow FlowGraph) error {
	if err := validateAutomationName(name); err != nil {
		return err
	}
	if err := flow.Validate(); err != nil {
		return err
	}

	a.Name = name
	a.Flow = flow
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Activate enables the automation
func (a *SmsAutomation) Activate() {
	a.Active = true
	a.UpdatedAt = time.Now()
}

// Deactivate disables the automation; queued tasks keep running
func (a *SmsAutomation) Deactivate() {
	a.Active = false
	a.UpdatedAt = time.Now()
}

func validateAutomationName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Automation name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Automation name cannot exceed 200 characters")
	}
	return nil
}
