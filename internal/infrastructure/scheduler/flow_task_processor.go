package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sabores/backend/internal/domain/marketing"
	"github.com/sabores/backend/internal/infrastructure/config"
)

// TaskExecutor resumes a claimed flow task at its node. Implementations
// walk the flow graph from task.NodeID and send the channel's message.
type TaskExecutor interface {
	Execute(ctx context.Context, task *marketing.FlowTask) error
}

// FlowTaskProcessor polls for due flow tasks and executes them. Each pass
// loads a batch of due tasks and claims them one by one; a task that fails
// the claim was taken by a concurrent pass and is skipped. The processor
// owns the task lifecycle after the claim: it marks COMPLETED or FAILED
// and persists the result.
type FlowTaskProcessor struct {
	config   config.SchedulerConfig
	tasks    marketing.FlowTaskRepository
	executor TaskExecutor
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewFlowTaskProcessor creates a flow task processor
func NewFlowTaskProcessor(cfg config.SchedulerConfig, tasks marketing.FlowTaskRepository, executor TaskExecutor, logger *zap.Logger) (*FlowTaskProcessor, error) {
	if cfg.PollInterval <= 0 || cfg.BatchSize <= 0 || cfg.JobTimeout <= 0 {
		return nil, ErrInvalidConfig
	}

	return &FlowTaskProcessor{
		config:   cfg,
		tasks:    tasks,
		executor: executor,
		logger:   logger.Named("scheduler"),
	}, nil
}

// Start begins the polling loop. It returns immediately; processing
// happens on a background goroutine until Stop or context cancellation.
func (p *FlowTaskProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = true
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.run(ctx)

	p.logger.Info("Flow task processor started",
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Int("batch_size", p.config.BatchSize),
	)

	return nil
}

// Stop gracefully stops the processor, waiting for the in-flight pass
// to finish or the context to expire.
func (p *FlowTaskProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Flow task processor stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.Warn("Flow task processor stop timed out")
		return ctx.Err()
	}
}

func (p *FlowTaskProcessor) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProcessDueTasks(ctx)
		}
	}
}

// ProcessDueTasks runs a single scheduler pass. Exposed so callers can
// trigger a pass outside the ticker cadence.
func (p *FlowTaskProcessor) ProcessDueTasks(ctx context.Context) {
	due, err := p.tasks.FindDue(ctx, time.Now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("Failed to load due flow tasks", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	p.logger.Debug("Processing due flow tasks", zap.Int("count", len(due)))

	for i := range due {
		select {
		case <-ctx.Done():
			return
		default:
		}
		p.processTask(ctx, &due[i])
	}
}

func (p *FlowTaskProcessor) processTask(ctx context.Context, task *marketing.FlowTask) {
	claimed, err := p.tasks.Claim(ctx, task.ID)
	if err != nil {
		p.logger.Error("Failed to claim flow task",
			zap.String("task_id", task.ID.String()),
			zap.Error(err),
		)
		return
	}
	if !claimed {
		// Another pass got there first
		return
	}

	taskCtx, cancel := context.WithTimeout(ctx, p.config.JobTimeout)
	defer cancel()

	execErr := p.executor.Execute(taskCtx, task)
	if execErr != nil {
		task.MarkFailed(execErr)
		p.logger.Error("Flow task failed",
			zap.String("task_id", task.ID.String()),
			zap.String("automation_id", task.AutomationID.String()),
			zap.String("node_id", task.NodeID),
			zap.Error(execErr),
		)
	} else {
		task.MarkCompleted()
		p.logger.Info("Flow task completed",
			zap.String("task_id", task.ID.String()),
			zap.String("automation_id", task.AutomationID.String()),
			zap.String("node_id", task.NodeID),
			zap.String("channel", string(task.Channel)),
		)
	}

	if err := p.tasks.Save(ctx, task); err != nil {
		p.logger.Error("Failed to persist flow task result",
			zap.String("task_id", task.ID.String()),
			zap.Error(err),
		)
	}
}
