package model

import (
	"time"

	"gorm.io/gorm"
)

// Subtask is a checklist item owned by a task. Rows are removed together
// with the owning task.
type Subtask struct {
	ID        string `gorm:"primaryKey"`
	TaskID    string `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	IsDone    bool
	Position  int `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`

	Task *Task `gorm:"foreignKey:TaskID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Subtask) BeforeSave(*gorm.DB) error {
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return nil
}
