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

// SubtaskService manages the checklist of a task.
type SubtaskService struct {
	repo     *repository.SubtaskRepository
	taskRepo *repository.TaskRepository
	tracker  *live.Tracker
	now      func() time.Time
}

func NewSubtaskService(repo *repository.SubtaskRepository, taskRepo *repository.TaskRepository, tracker *live.Tracker) *SubtaskService {
	return &SubtaskService{repo: repo, taskRepo: taskRepo, tracker: tracker, now: time.Now}
}

// Add appends a subtask after the task's last one.
func (s *SubtaskService) Add(ctx context.Context, taskID, title string) (*model.Subtask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	last, err := s.repo.MaxPosition(ctx, taskID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	subtask := model.Subtask{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Title:     title,
		Position:  last + 1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Upsert(ctx, &subtask); err != nil {
		return nil, err
	}
	return &subtask, nil
}

// Save replaces the stored subtask and refreshes its update time.
func (s *SubtaskService) Save(ctx context.Context, subtask *model.Subtask) error {
	subtask.Title = strings.TrimSpace(subtask.Title)
	if subtask.Title == "" {
		return ErrTitleRequired
	}
	now := s.now()
	if subtask.CreatedAt.IsZero() {
		subtask.CreatedAt = now
	}
	subtask.UpdatedAt = now
	return s.repo.Upsert(ctx, subtask)
}

func (s *SubtaskService) Toggle(ctx context.Context, id string) (*model.Subtask, error) {
	subtask, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subtask == nil {
		return nil, fmt.Errorf("%w: %s", ErrSubtaskNotFound, id)
	}
	subtask.IsDone = !subtask.IsDone
	subtask.UpdatedAt = s.now()
	if err := s.repo.Upsert(ctx, subtask); err != nil {
		return nil, err
	}
	return subtask, nil
}

// Reorder assigns positions 0..n-1 following ids. Subtasks of the task not
// named in ids keep their position after the reordered ones.
func (s *SubtaskService) Reorder(ctx context.Context, taskID string, ids []string) ([]model.Subtask, error) {
	current, err := s.repo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Subtask, len(current))
	for _, st := range current {
		byID[st.ID] = st
	}

	now := s.now()
	ordered := make([]model.Subtask, 0, len(current))
	placed := make(map[string]bool, len(ids))
	for _, id := range ids {
		st, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSubtaskNotFound, id)
		}
		if placed[id] {
			continue
		}
		placed[id] = true
		ordered = append(ordered, st)
	}
	for _, st := range current {
		if !placed[st.ID] {
			ordered = append(ordered, st)
		}
	}
	for i := range ordered {
		ordered[i].Position = i
		ordered[i].UpdatedAt = now
	}

	if err := s.repo.UpsertAll(ctx, ordered); err != nil {
		return nil, err
	}
	return ordered, nil
}

func (s *SubtaskService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

func (s *SubtaskService) DeleteForTask(ctx context.Context, taskID string) error {
	return s.repo.DeleteByTaskID(ctx, taskID)
}

func (s *SubtaskService) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

func (s *SubtaskService) List(ctx context.Context, taskID string) ([]model.Subtask, error) {
	return s.repo.ListByTask(ctx, taskID)
}

// Observe lists a task's subtasks in display order.
func (s *SubtaskService) Observe(taskID string) *live.Query[[]model.Subtask] {
	return live.NewQuery(s.tracker, func(ctx context.Context) ([]model.Subtask, error) {
		return s.repo.ListByTask(ctx, taskID)
	}, tableSubtasks)
}
