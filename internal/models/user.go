package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a platform user. IsAdmin is only ever flipped by direct
// database operations; no API surface mutates it.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `gorm:"not null" json:"name" validate:"required"`
	Image        string    `gorm:"type:text" json:"image,omitempty"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
