package model

import "time"

// DefaultCategory is applied to tasks created without a category.
const DefaultCategory = "General"

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Text          string    `json:"text" gorm:"type:text;not null"`
	IsCompleted   bool      `json:"isCompleted" gorm:"not null"`
	Category      string    `json:"category" gorm:"size:50;not null"`
	OwnerUsername string    `json:"ownerUsername" gorm:"size:191;not null;index"`
	CreatedAt     time.Time `json:"createdAt"`
}
