package models

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"   json:"email"`
	PasswordHash string    `gorm:"not null"               json:"-"`
	CreatedAt    time.Time `gorm:"not null"               json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null"               json:"updated_at"`
}
