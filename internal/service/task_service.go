package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dailymate/internal/live"
	"dailymate/internal/model"
	"dailymate/internal/repository"
)

const (
	tableTasks      = "tasks"
	tableCategories = "categories"
	tableSubtasks   = "subtasks"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	Priority    model.Priority
	DueAt       *time.Time
	ReminderAt  *time.Time
	Repeat      model.RepeatRule
	CategoryID  *string
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	tracker      *live.Tracker
	now          func() time.Time
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository, tracker *live.Tracker) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo, tracker: tracker, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	now := s.now()
	task := model.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    input.Priority,
		DueAt:       input.DueAt,
		ReminderAt:  input.ReminderAt,
		Repeat:      input.Repeat,
		CategoryID:  input.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Repeat == "" {
		task.Repeat = model.RepeatNone
	}
	if err := s.validate(ctx, &task); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Upsert(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// SaveTask replaces the stored task with the given record. The done time is
// reconciled with the done flag and the update time is refreshed.
func (s *TaskService) SaveTask(ctx context.Context, task *model.Task) error {
	task.Title = strings.TrimSpace(task.Title)
	if err := s.validate(ctx, task); err != nil {
		return err
	}
	now := s.now()
	switch {
	case task.IsDone && task.DoneAt == nil:
		task.SetDone(true, now)
	case !task.IsDone:
		task.SetDone(false, now)
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	return s.taskRepo.Upsert(ctx, task)
}

func (s *TaskService) validate(ctx context.Context, task *model.Task) error {
	if task.Title == "" {
		return ErrTitleRequired
	}
	if !task.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, task.Priority)
	}
	if !task.Repeat.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRepeat, task.Repeat)
	}
	if task.CategoryID != nil {
		category, err := s.categoryRepo.FindByID(ctx, *task.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, *task.CategoryID)
		}
	}
	return nil
}

// GetTask returns nil when the task does not exist.
func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, id)
}

// ToggleDone flips the completion flag, setting or clearing the done time.
func (s *TaskService) ToggleDone(ctx context.Context, id string) (*model.Task, error) {
	return s.modify(ctx, id, func(task *model.Task, now time.Time) {
		task.SetDone(!task.IsDone, now)
	})
}

func (s *TaskService) ToggleStar(ctx context.Context, id string) (*model.Task, error) {
	return s.modify(ctx, id, func(task *model.Task, _ time.Time) {
		task.IsStarred = !task.IsStarred
	})
}

func (s *TaskService) modify(ctx context.Context, id string, fn func(*model.Task, time.Time)) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	now := s.now()
	fn(task, now)
	task.UpdatedAt = now
	if err := s.taskRepo.Upsert(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task together with its subtasks.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	return s.taskRepo.DeleteByID(ctx, id)
}

func (s *TaskService) DeleteAll(ctx context.Context) error {
	return s.taskRepo.DeleteAll(ctx)
}

// ObserveTasks is the filtered, sorted task list.
func (s *TaskService) ObserveTasks(filter model.TaskFilter) *live.Query[[]model.Task] {
	filter = filter.Normalized()
	return live.NewQuery(s.tracker, func(ctx context.Context) ([]model.Task, error) {
		return s.taskRepo.List(ctx, filter)
	}, tableTasks)
}

func (s *TaskService) ObserveAll() *live.Query[[]model.Task] {
	return live.NewQuery(s.tracker, s.taskRepo.ListAll, tableTasks)
}

// ObserveTask emits nil while the task does not exist.
func (s *TaskService) ObserveTask(id string) *live.Query[*model.Task] {
	return live.NewQuery(s.tracker, func(ctx context.Context) (*model.Task, error) {
		return s.taskRepo.FindByID(ctx, id)
	}, tableTasks)
}

// ObserveInRange lists tasks due within [start, end].
func (s *TaskService) ObserveInRange(start, end time.Time) (*live.Query[[]model.Task], error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	return live.NewQuery(s.tracker, func(ctx context.Context) ([]model.Task, error) {
		return s.taskRepo.ListInRange(ctx, start, end)
	}, tableTasks), nil
}

// ObserveOverdue re-evaluates "now" on every run, so it also follows clock
// invalidations.
func (s *TaskService) ObserveOverdue() *live.Query[[]model.Task] {
	return live.NewQuery(s.tracker, func(ctx context.Context) ([]model.Task, error) {
		return s.taskRepo.ListOverdue(ctx, s.now())
	}, tableTasks, live.TableClock)
}

func (s *TaskService) ObserveStats() *live.Query[model.TaskStats] {
	return live.NewQuery(s.tracker, s.taskRepo.Stats, tableTasks)
}

func (s *TaskService) ObserveHighPriority(limit int) *live.Query[[]model.Task] {
	return live.NewQuery(s.tracker, func(ctx context.Context) ([]model.Task, error) {
		return s.taskRepo.ListHighPriorityNotDone(ctx, limit)
	}, tableTasks)
}
