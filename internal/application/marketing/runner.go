package marketing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sabores/backend/internal/domain/marketing"
	"github.com/sabores/backend/internal/domain/shared"
	"github.com/sabores/backend/internal/infrastructure/notify"
	"go.uber.org/zap"
)

// FlowRunner walks a flow graph for one customer. A run proceeds node by
// node until it hits a delay, in which case it persists a FlowTask and
// suspends, or until the chain ends, in which case the run is recorded
// as finished and the automation counters are bumped.
type FlowRunner struct {
	email   marketing.EmailAutomationRepository
	sms     marketing.SmsAutomationRepository
	tasks   marketing.FlowTaskRepository
	runLogs marketing.FlowRunLogRepository
	mailer  notify.EmailSender
	texter  notify.SMSSender
	logger  *zap.Logger
}

// NewFlowRunner creates a flow runner
func NewFlowRunner(
	email marketing.EmailAutomationRepository,
	sms marketing.SmsAutomationRepository,
	tasks marketing.FlowTaskRepository,
	runLogs marketing.FlowRunLogRepository,
	mailer notify.EmailSender,
	texter notify.SMSSender,
	logger *zap.Logger,
) *FlowRunner {
	return &FlowRunner{
		email:   email,
		sms:     sms,
		tasks:   tasks,
		runLogs: runLogs,
		mailer:  mailer,
		texter:  texter,
		logger:  logger.Named("flow-runner"),
	}
}

// Start begins a run at the node following the trigger
func (r *FlowRunner) Start(ctx context.Context, automationID uuid.UUID, channel marketing.Channel, flow marketing.FlowGraph, runCtx marketing.RunContext) error {
	trigger, ok := flow.Trigger()
	if !ok {
		return shared.NewDomainError("INVALID_FLOW", "Flow has no trigger node")
	}
	node, ok := flow.Next(trigger.ID)
	if !ok {
		// A trigger with nothing after it is a no-op run
		return r.finish(ctx, automationID, channel, runCtx, nil, time.Now())
	}
	return r.walk(ctx, automationID, channel, flow, node, runCtx, time.Now())
}

// Resume continues a suspended run at the given node. Called by the
// scheduler when a queued task comes due.
func (r *FlowRunner) Resume(ctx context.Context, automationID uuid.UUID, channel marketing.Channel, flow marketing.FlowGraph, nodeID string, runCtx marketing.RunContext) error {
	node, ok := flow.Node(nodeID)
	if !ok {
		err := fmt.Errorf("flow node %s no longer exists", nodeID)
		return r.finish(ctx, automationID, channel, runCtx, err, time.Now())
	}
	return r.walk(ctx, automationID, channel, flow, node, runCtx, time.Now())
}

func (r *FlowRunner) walk(ctx context.Context, automationID uuid.UUID, channel marketing.Channel, flow marketing.FlowGraph, node *marketing.FlowNode, runCtx marketing.RunContext, startedAt time.Time) error {
	// Graph validation rejects cycles at intake, but a bad persisted row
	// must fail the run rather than spin and resend forever.
	visited := make(map[string]bool, len(flow.Nodes))
	for node != nil {
		if visited[node.ID] {
			err := fmt.Errorf("flow node %s revisited, aborting cyclic run", node.ID)
			return r.finish(ctx, automationID, channel, runCtx, err, startedAt)
		}
		visited[node.ID] = true

		switch node.Kind {
		case marketing.NodeKindDelay:
			next, ok := flow.Next(node.ID)
			if !ok {
				// A trailing delay has nothing to wake up for
				return r.finish(ctx, automationID, channel, runCtx, nil, startedAt)
			}
			return r.suspend(ctx, automationID, channel, next.ID, runCtx, node.DelayMinutes)

		case marketing.NodeKindAction:
			if err := r.execute(ctx, node, runCtx); err != nil {
				return r.finish(ctx, automationID, channel, runCtx, err, startedAt)
			}

		case marketing.NodeKindTrigger:
			// Nothing to do; resuming at a trigger just moves past it
		}

		next, ok := flow.Next(node.ID)
		if !ok {
			return r.finish(ctx, automationID, channel, runCtx, nil, startedAt)
		}
		node = next
	}
	return r.finish(ctx, automationID, channel, runCtx, nil, startedAt)
}

func (r *FlowRunner) suspend(ctx context.Context, automationID uuid.UUID, channel marketing.Channel, nodeID string, runCtx marketing.RunContext, delayMinutes int) error {
	dueAt := time.Now().Add(time.Duration(delayMinutes) * time.Minute)
	task, err := marketing.NewFlowTask(automationID, channel, nodeID, runCtx, dueAt)
	if err != nil {
		return err
	}
	if err := r.tasks.Save(ctx, task); err != nil {
		return err
	}

	r.logger.Debug("flow run suspended",
		zap.String("automation_id", automationID.String()),
		zap.String("node_id", nodeID),
		zap.Time("due_at", dueAt),
	)
	return nil
}

func (r *FlowRunner) execute(ctx context.Context, node *marketing.FlowNode, runCtx marketing.RunContext) error {
	switch node.Action {
	case marketing.ActionSendEmail:
		return r.mailer.SendEmail(ctx, runCtx.CustomerEmail, render(node.Subject, runCtx), render(node.Body, runCtx))

	case marketing.ActionSendSMS:
		if runCtx.CustomerPhone == "" {
			return fmt.Errorf("customer %s has no phone number", runCtx.CustomerEmail)
		}
		return r.texter.SendSMS(ctx, runCtx.CustomerPhone, render(node.Body, runCtx))

	case marketing.ActionApplyCoupon:
		// The coupon is delivered as a message carrying the code; there
		// is no account to attach it to for guest customers.
		body := render(node.Body, runCtx)
		if body == "" {
			body = fmt.Sprintf("O seu código de desconto: %s", node.CouponCode)
		}
		if runCtx.CustomerPhone != "" && r.texter != nil {
			return r.texter.SendSMS(ctx, runCtx.CustomerPhone, body)
		}
		return r.mailer.SendEmail(ctx, runCtx.CustomerEmail, render(node.Subject, runCtx), body)
	}
	return fmt.Errorf("unknown action %q on node %s", node.Action, node.ID)
}

func (r *FlowRunner) finish(ctx context.Context, automationID uuid.UUID, channel marketing.Channel, runCtx marketing.RunContext, runErr error, startedAt time.Time) error {
	status := marketing.RunStatusSuccess
	if runErr != nil {
		status = marketing.RunStatusFailed
	}

	if err := r.incrementCounters(ctx, automationID, channel, runErr == nil); err != nil {
		r.logger.Error("failed to update run counters",
			zap.String("automation_id", automationID.String()),
			zap.Error(err),
		)
	}

	log := marketing.NewFlowRunLog(automationID, channel, runCtx.CustomerEmail, status, runErr, startedAt)
	if err := r.runLogs.Append(ctx, log); err != nil {
		r.logger.Error("failed to append flow run log",
			zap.String("automation_id", automationID.String()),
			zap.Error(err),
		)
	}

	if runErr != nil {
		r.logger.Warn("flow run failed",
			zap.String("automation_id", automationID.String()),
			zap.String("customer_email", runCtx.CustomerEmail),
			zap.Error(runErr),
		)
		return runErr
	}

	r.logger.Info("flow run finished",
		zap.String("automation_id", automationID.String()),
		zap.String("channel", string(channel)),
		zap.String("customer_email", runCtx.CustomerEmail),
	)
	return nil
}

func (r *FlowRunner) incrementCounters(ctx context.Context, automationID uuid.UUID, channel marketing.Channel, success bool) error {
	if channel == marketing.ChannelSMS {
		return r.sms.IncrementCounters(ctx, automationID, success)
	}
	return r.email.IncrementCounters(ctx, automationID, success)
}

// render substitutes {{placeholder}} tokens with run context values
func render(template string, runCtx marketing.RunContext) string {
	if template == "" {
		return ""
	}
	replacer := strings.NewReplacer(
		"{{customer_email}}", runCtx.CustomerEmail,
		"{{order_number}}", fmt.Sprintf("%d", runCtx.OrderNumber),
		"{{cart_value}}", runCtx.CartValue.StringFixed(2),
	)
	return replacer.Replace(template)
}
