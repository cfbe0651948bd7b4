package model

import (
	"time"

	"gorm.io/gorm"
)

// Task represents a single to-do item.
type Task struct {
	ID          string `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Description string
	Priority    Priority   `gorm:"not null;index:idx_tasks_done_priority_due,priority:2"`
	IsDone      bool       `gorm:"index:idx_tasks_done_priority_due,priority:1"`
	DueAt       *time.Time `gorm:"index:idx_tasks_done_priority_due,priority:3"`
	ReminderAt  *time.Time
	Repeat      RepeatRule `gorm:"not null"`
	CategoryID  *string    `gorm:"index"`
	IsStarred   bool
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
	DoneAt      *time.Time
}

// SetDone updates the completion flag and keeps DoneAt in step with it.
func (t *Task) SetDone(done bool, at time.Time) {
	t.IsDone = done
	if done {
		at = at.UTC()
		t.DoneAt = &at
		return
	}
	t.DoneAt = nil
}

// IsOverdue reports whether the task is still open past its due time.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.IsDone && t.DueAt != nil && t.DueAt.Before(now)
}

// BeforeSave stores every timestamp in UTC so text timestamps in SQLite
// compare in chronological order.
func (t *Task) BeforeSave(*gorm.DB) error {
	t.DueAt = utcPtr(t.DueAt)
	t.ReminderAt = utcPtr(t.ReminderAt)
	t.DoneAt = utcPtr(t.DoneAt)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return nil
}

func utcPtr(ts *time.Time) *time.Time {
	if ts == nil {
		return nil
	}
	u := ts.UTC()
	return &u
}
