package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabores/backend/internal/domain/marketing"
	"github.com/sabores/backend/internal/domain/shared"
)

func orderDripFlow() marketing.FlowGraph {
	return marketing.FlowGraph{
		Nodes: []marketing.FlowNode{
			{ID: "t1", Kind: marketing.NodeKindTrigger, Event: marketing.TriggerOrderCreated},
			{ID: "d1", Kind: marketing.NodeKindDelay, DelayMinutes: 60},
			{ID: "a1", Kind: marketing.NodeKindAction, Action: marketing.ActionSendEmail, Subject: "Obrigado!", Body: "Volte sempre"},
		},
		Edges: []marketing.FlowEdge{
			{From: "t1", To: "d1"},
			{From: "d1", To: "a1"},
		},
	}
}

func queuedTask(t *testing.T, repo *GormFlowTaskRepository, dueAt time.Time) *marketing.FlowTask {
	t.Helper()
	task, err := marketing.NewFlowTask(uuid.New(), marketing.ChannelEmail, "a1", marketing.RunContext{
		CustomerEmail: "ana@example.pt",
		CartValue:     decimal.NewFromInt(25),
	}, dueAt)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), task))
	return task
}

func TestFlowTaskRepositoryFindDue(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormFlowTaskRepository(db)
	ctx := context.Background()

	now := time.Now()
	due := queuedTask(t, repo, now.Add(-time.Minute))
	queuedTask(t, repo, now.Add(time.Hour))

	found, err := repo.FindDue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, due.ID, found[0].ID)
}

func TestFlowTaskRepositoryClaim(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormFlowTaskRepository(db)
	ctx := context.Background()

	task := queuedTask(t, repo, time.Now().Add(-time.Minute))

	claimed, err := repo.Claim(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	// A second claim loses the race
	claimed, err = repo.Claim(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	reloaded, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, marketing.TaskStatusRunning, reloaded.Status)
}

func TestFlowTaskRepositoryClaimedTasksNotDue(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormFlowTaskRepository(db)
	ctx := context.Background()

	task := queuedTask(t, repo, time.Now().Add(-time.Minute))
	claimed, err := repo.Claim(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, claimed)

	found, err := repo.FindDue(ctx, time.Now(), 10)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFlowRunLogRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormFlowRunLogRepository(db)
	ctx := context.Background()

	automationID := uuid.New()
	started := time.Now().Add(-time.Second)
	require.NoError(t, repo.Append(ctx, marketing.NewFlowRunLog(
		automationID, marketing.ChannelEmail, "ana@example.pt", marketing.RunStatusSuccess, nil, started)))
	require.NoError(t, repo.Append(ctx, marketing.NewFlowRunLog(
		automationID, marketing.ChannelEmail, "rui@example.pt", marketing.RunStatusFailed, assert.AnError, started)))

	logs, err := repo.FindByAutomation(ctx, automationID, shared.Filter{})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestEmailAutomationRepositoryFindActiveByTrigger(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEmailAutomationRepository(db)
	ctx := context.Background()

	active, err := marketing.NewEmailAutomation("Pós-venda", orderDripFlow())
	require.NoError(t, err)
	active.Activate()
	require.NoError(t, repo.Save(ctx, active))

	dormant, err := marketing.NewEmailAutomation("Rascunho", orderDripFlow())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, dormant))

	matched, err := repo.FindActiveByTrigger(ctx, marketing.TriggerOrderCreated)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, active.ID, matched[0].ID)

	matched, err = repo.FindActiveByTrigger(ctx, marketing.TriggerCartAbandoned)
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestEmailAutomationRepositoryIncrementCounters(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEmailAutomationRepository(db)
	ctx := context.Background()

	automation, err := marketing.NewEmailAutomation("Pós-venda", orderDripFlow())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, automation))

	require.NoError(t, repo.IncrementCounters(ctx, automation.ID, true))
	require.NoError(t, repo.IncrementCounters(ctx, automation.ID, false))

	reloaded, err := repo.FindByID(ctx, automation.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), reloaded.TotalRuns)
	assert.Equal(t, int64(1), reloaded.SuccessRuns)
	assert.Equal(t, int64(1), reloaded.FailureRuns)
}
