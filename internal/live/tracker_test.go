package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func signaled(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func TestTrackerInvalidate(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Cascade("tasks", "subtasks")

	tasks, stopTasks := tracker.Observe("tasks")
	defer stopTasks()
	subtasks, stopSubtasks := tracker.Observe("subtasks")
	defer stopSubtasks()
	clock, stopClock := tracker.Observe("tasks", TableClock)
	defer stopClock()

	tracker.Invalidate("subtasks")
	assert.False(t, signaled(tasks))
	assert.True(t, signaled(subtasks))
	assert.False(t, signaled(clock))

	tracker.Invalidate("tasks")
	assert.True(t, signaled(tasks))
	assert.True(t, signaled(subtasks), "cascade reaches dependents")
	assert.True(t, signaled(clock))

	tracker.Invalidate(TableClock)
	assert.False(t, signaled(tasks))
	assert.True(t, signaled(clock))
}

func TestTrackerSignalsCoalesce(t *testing.T) {
	tracker := NewTracker(nil)
	ch, stop := tracker.Observe("tasks")
	defer stop()

	for i := 0; i < 5; i++ {
		tracker.Invalidate("tasks")
	}
	assert.True(t, signaled(ch))
	assert.False(t, signaled(ch))
}

func TestTrackerStopObserving(t *testing.T) {
	tracker := NewTracker(nil)
	ch, stop := tracker.Observe("tasks")
	stop()
	stop()

	tracker.Invalidate("tasks")
	assert.False(t, signaled(ch))
}

func TestTrackerCascadeCycle(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Cascade("a", "b")
	tracker.Cascade("b", "a")
	ch, stop := tracker.Observe("b")
	defer stop()

	tracker.Invalidate("a")
	assert.True(t, signaled(ch))
}
