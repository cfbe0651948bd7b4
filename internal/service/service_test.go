package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dailymate/internal/live"
	"dailymate/internal/repository"
	"dailymate/internal/service"
	"dailymate/internal/testutil"
)

var base = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type env struct {
	tracker    *live.Tracker
	clock      *fakeClock
	tasks      *service.TaskService
	categories *service.CategoryService
	subtasks   *service.SubtaskService
	reminders  *service.ReminderService
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.OpenDB(t)
	tracker, err := service.NewTracker(db, nil)
	require.NoError(t, err)

	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	subtaskRepo := repository.NewSubtaskRepository(db)
	clock := &fakeClock{now: base}

	return env{
		tracker:    tracker,
		clock:      clock,
		tasks:      service.NewTaskService(taskRepo, categoryRepo, tracker).WithClock(clock.Now),
		categories: service.NewCategoryService(categoryRepo, tracker),
		subtasks:   service.NewSubtaskService(subtaskRepo, taskRepo, tracker),
		reminders:  service.NewReminderService(taskRepo, categoryRepo),
	}
}
