package models

import (
	"time"

	"gorm.io/gorm"
)

// Task is a plain to-do item. Ownership is the only rule here.
type Task struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index"`
	Title   string `gorm:"not null"`
	IsDone  bool   `gorm:"default:false"`
	DueDate *time.Time
}

type Note struct {
	gorm.Model
	UserID uint   `gorm:"not null;index"`
	Title  string `gorm:"not null"`
	Body   string `gorm:"type:text"`
}
