package service

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dailymate/internal/live"
)

// NewTracker creates the invalidation tracker for db. Deleting a task
// cascades to its subtasks, so task writes also wake subtask queries.
func NewTracker(db *gorm.DB, log *zap.Logger) (*live.Tracker, error) {
	tracker := live.NewTracker(log)
	tracker.Cascade(tableTasks, tableSubtasks)
	if err := tracker.Attach(db); err != nil {
		return nil, err
	}
	return tracker, nil
}
