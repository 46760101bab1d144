package marketing

import (
	"context"
	"fmt"

	"github.com/sabores/backend/internal/domain/marketing"
)

// FlowExecutor resumes queued flow tasks. It satisfies the scheduler's
// TaskExecutor and is the only way a suspended run continues.
//
// Deactivating an automation stops new runs from starting but tasks
// already in the queue still execute; the customer was promised the
// message when the run began.
type FlowExecutor struct {
	runner *FlowRunner
	email  marketing.EmailAutomationRepository
	sms    marketing.SmsAutomationRepository
}

// NewFlowExecutor creates a flow executor
func NewFlowExecutor(runner *FlowRunner, email marketing.EmailAutomationRepository, sms marketing.SmsAutomationRepository) *FlowExecutor {
	return &FlowExecutor{
		runner: runner,
		email:  email,
		sms:    sms,
	}
}

// Execute resumes the run recorded on the task at its node
func (e *FlowExecutor) Execute(ctx context.Context, task *marketing.FlowTask) error {
	flow, err := e.loadFlow(ctx, task)
	if err != nil {
		return err
	}
	return e.runner.Resume(ctx, task.AutomationID, task.Channel, flow, task.NodeID, task.Context)
}

func (e *FlowExecutor) loadFlow(ctx context.Context, task *marketing.FlowTask) (marketing.FlowGraph, error) {
	switch task.Channel {
	case marketing.ChannelEmail:
		automation, err := e.email.FindByID(ctx, task.AutomationID)
		if err != nil {
			return marketing.FlowGraph{}, fmt.Errorf("load email automation %s: %w", task.AutomationID, err)
		}
		return automation.Flow, nil

	case marketing.ChannelSMS:
		automation, err := e.sms.FindByID(ctx, task.AutomationID)
		if err != nil {
			return marketing.FlowGraph{}, fmt.Errorf("load sms automation %s: %w", task.AutomationID, err)
		}
		return automation.Flow, nil
	}
	return marketing.FlowGraph{}, fmt.Errorf("unknown task channel %q", task.Channel)
}
