package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sabores/backend/internal/domain/marketing"
	"github.com/sabores/backend/internal/domain/shared"
)

// GormFlowTaskRepository implements FlowTaskRepository using GORM
type GormFlowTaskRepository struct {
	db *gorm.DB
}

// NewGormFlowTaskRepository creates a new GormFlowTaskRepository
func NewGormFlowTaskRepository(db *gorm.DB) *GormFlowTaskRepository {
	return &GormFlowTaskRepository{db: db}
}

// Save creates or updates a flow task
func (r *GormFlowTaskRepository) Save(ctx context.Context, task *marketing.FlowTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// FindByID finds a flow task by its ID
func (r *GormFlowTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*marketing.FlowTask, error) {
	var task marketing.FlowTask
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// FindDue returns pending tasks whose due time has passed, oldest first
func (r *GormFlowTaskRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]marketing.FlowTask, error) {
	var tasks []marketing.FlowTask
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_at <= ?", marketing.TaskStatusPending, now).
		Order("due_at ASC").
		Limit(limit).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Claim flips PENDING -> RUNNING with a conditional update. RowsAffected 0
// means another scheduler pass claimed the task first.
func (r *GormFlowTaskRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&marketing.FlowTask{}).
		Where("id = ? AND status = ?", id, marketing.TaskStatusPending).
		UpdateColumn("status", marketing.TaskStatusRunning)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ensure GormFlowTaskRepository implements FlowTaskRepository
var _ marketing.FlowTaskRepository = (*GormFlowTaskRepository)(nil)

// GormFlowRunLogRepository implements FlowRunLogRepository using GORM
type GormFlowRunLogRepository struct {
	db *gorm.DB
}

// NewGormFlowRunLogRepository creates a new GormFlowRunLogRepository
func NewGormFlowRunLogRepository(db *gorm.DB) *GormFlowRunLogRepository {
	return &GormFlowRunLogRepository{db: db}
}

// Append stores a run record
func (r *GormFlowRunLogRepository) Append(ctx context.Context, log *marketing.FlowRunLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindByAutomation returns run history newest first
func (r *GormFlowRunLogRepository) FindByAutomation(ctx context.Context, automationID uuid.UUID, filter shared.Filter) ([]marketing.FlowRunLog, error) {
	var logs []marketing.FlowRunLog
	query := r.db.WithContext(ctx).
		Where("automation_id = ?", automationID).
		Order("started_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Ensure GormFlowRunLogRepository implements FlowRunLogRepository
var _ marketing.FlowRunLogRepository = (*GormFlowRunLogRepository)(nil)
