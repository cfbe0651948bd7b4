package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"dailymate/internal/model"
)

// SubtaskRepository manages checklist items of tasks.
type SubtaskRepository struct {
	db *gorm.DB
}

func NewSubtaskRepository(db *gorm.DB) *SubtaskRepository {
	return &SubtaskRepository{db: db}
}

func (r *SubtaskRepository) Upsert(ctx context.Context, subtask *model.Subtask) error {
	if err := upsert(r.db.WithContext(ctx), subtask); err != nil {
		return fmt.Errorf("upsert subtask: %w", err)
	}
	return nil
}

// UpsertAll writes subtasks with one INSERT per batch, outside any
// explicit transaction.
func (r *SubtaskRepository) UpsertAll(ctx context.Context, subtasks []model.Subtask) error {
	if len(subtasks) == 0 {
		return nil
	}
	if err := upsertInBatches(r.db.WithContext(ctx), subtasks); err != nil {
		return fmt.Errorf("upsert subtasks: %w", err)
	}
	return nil
}

// ListByTask returns the subtasks of a task in display order.
func (r *SubtaskRepository) ListByTask(ctx context.Context, taskID string) ([]model.Subtask, error) {
	subtasks := []model.Subtask{}
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("position ASC, created_at ASC, id ASC").Find(&subtasks).Error
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	return subtasks, nil
}

// FindByID returns nil without error when the subtask does not exist.
func (r *SubtaskRepository) FindByID(ctx context.Context, id string) (*model.Subtask, error) {
	var subtask model.Subtask
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&subtask).Error
	switch {
	case err == nil:
		return &subtask, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find subtask: %w", err)
	}
}

// MaxPosition returns the highest position used by the task's subtasks, or
// -1 when it has none.
func (r *SubtaskRepository) MaxPosition(ctx context.Context, taskID string) (int, error) {
	var pos int
	err := r.db.WithContext(ctx).Model(&model.Subtask{}).
		Where("task_id = ?", taskID).
		Select("COALESCE(MAX(position), -1)").
		Scan(&pos).Error
	if err != nil {
		return 0, fmt.Errorf("max subtask position: %w", err)
	}
	return pos, nil
}

func (r *SubtaskRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Subtask{}).Error; err != nil {
		return fmt.Errorf("delete subtask: %w", err)
	}
	return nil
}

func (r *SubtaskRepository) DeleteByTaskID(ctx context.Context, taskID string) error {
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&model.Subtask{}).Error; err != nil {
		return fmt.Errorf("delete subtasks of task: %w", err)
	}
	return nil
}

func (r *SubtaskRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Subtask{}).Error
	if err != nil {
		return fmt.Errorf("delete subtasks: %w", err)
	}
	return nil
}
