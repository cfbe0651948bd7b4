package model

import (
	"time"

	"gorm.io/gorm"
)

// Category is a named, optionally colored label for tasks.
type Category struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null;uniqueIndex"`
	Color     *int64
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (c *Category) BeforeSave(*gorm.DB) error {
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return nil
}
