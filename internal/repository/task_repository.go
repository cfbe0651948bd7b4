package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dailymate/internal/model"
)

// DefaultHighPriorityLimit bounds ListHighPriorityNotDone when no limit is given.
const DefaultHighPriorityLimit = 20

// TaskRepository handles storage and queries for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Upsert inserts the task or replaces every column of the existing row.
func (r *TaskRepository) Upsert(ctx context.Context, task *model.Task) error {
	if err := upsert(r.db.WithContext(ctx), task); err != nil {
		return fmt.Errorf("upsert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) UpsertAll(ctx context.Context, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if err := upsertInBatches(r.db.WithContext(ctx), tasks); err != nil {
		return fmt.Errorf("upsert tasks: %w", err)
	}
	return nil
}

// FindByID returns nil without error when no task has the given id.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find task: %w", err)
	}
}

// DeleteByID removes the task and, through the foreign key, its subtasks.
func (r *TaskRepository) DeleteByID(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Task{}).Error
	if err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	return nil
}

// List returns tasks matching the filter in the filter's sort order.
func (r *TaskRepository) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	return r.find(ctx, "list tasks", listTasksQuery(filter))
}

// ListAll returns every task, most recently updated first.
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	return r.find(ctx, "list all tasks", selectTasks().OrderBy(orderRecent))
}

// ListInRange returns tasks due within [start, end].
func (r *TaskRepository) ListInRange(ctx context.Context, start, end time.Time) ([]model.Task, error) {
	return r.find(ctx, "list tasks in range", tasksInRangeQuery(start, end))
}

// ListOverdue returns open tasks whose due time is before now.
func (r *TaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]model.Task, error) {
	return r.find(ctx, "list overdue tasks", overdueTasksQuery(now))
}

// ListHighPriorityNotDone returns at most limit open HIGH tasks.
func (r *TaskRepository) ListHighPriorityNotDone(ctx context.Context, limit int) ([]model.Task, error) {
	if limit <= 0 {
		limit = DefaultHighPriorityLimit
	}
	return r.find(ctx, "list high priority tasks", highPriorityQuery(limit))
}

// ListActiveReminders returns open tasks that still have a reminder set,
// earliest reminder first.
func (r *TaskRepository) ListActiveReminders(ctx context.Context) ([]model.Task, error) {
	return r.find(ctx, "list active reminders", activeRemindersQuery())
}

func (r *TaskRepository) Stats(ctx context.Context) (model.TaskStats, error) {
	var stats model.TaskStats
	query, args, err := statsQuery().ToSql()
	if err != nil {
		return stats, fmt.Errorf("build task stats: %w", err)
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&stats).Error; err != nil {
		return stats, fmt.Errorf("task stats: %w", err)
	}
	return stats, nil
}

func (r *TaskRepository) find(ctx context.Context, op string, builder sq.SelectBuilder) ([]model.Task, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	tasks := []model.Task{}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&tasks).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tasks, nil
}

// upsert writes value with ON CONFLICT(id) DO UPDATE so an existing row is
// replaced in place. A delete-and-insert replace would fire the subtask
// cascade.
// upsertBatchSize keeps each multi-row upsert well under SQLite's
// bound-parameter limit.
const upsertBatchSize = 500

// upsertInBatches writes values in chunks of upsertBatchSize. Each chunk is
// its own statement, so a failure leaves earlier chunks written.
func upsertInBatches[T any](db *gorm.DB, values []T) error {
	for start := 0; start < len(values); start += upsertBatchSize {
		batch := values[start:min(start+upsertBatchSize, len(values))]
		if err := upsert(db, &batch); err != nil {
			return err
		}
	}
	return nil
}

func upsert(db *gorm.DB, value any) error {
	return db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(value).Error
}
