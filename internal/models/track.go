package models

import (
	"time"

	"github.com/google/uuid"
)

// Track is a physical circuit. Reference data: seeded by cmd/migrate and
// read-only at runtime.
type Track struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"not null" json:"name" validate:"required"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug" validate:"required"`
	Country   string    `gorm:"type:varchar(64);not null" json:"country" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TrackLayout is a specific configuration of a track. A track may have
// several layouts.
type TrackLayout struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TrackID   uuid.UUID `gorm:"type:uuid;index;not null" json:"track_id" validate:"required"`
	Name      string    `gorm:"not null" json:"name" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
