package model

import (
	"time"

	"taskmaster/internal/auth"
)

// User represents a registered account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:191;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         auth.Role `json:"role" gorm:"size:50;not null"`
	CreatedAt    time.Time `json:"createdAt"`
}
