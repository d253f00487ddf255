package models

import (
	"time"

	"github.com/google/uuid"
)

// LapStatus is the verification state of a lap time.
type LapStatus string

const (
	LapStatusPending  LapStatus = "pending"
	LapStatusVerified LapStatus = "verified"
	// LapStatusRejected is reserved: the enum and storage admit it but no
	// exposed operation transitions into it yet.
	LapStatusRejected LapStatus = "rejected"
)

// LapTime is one timed drive of a car on a track layout, in milliseconds.
// Status only ever moves pending -> verified (or the reserved pending ->
// rejected); both are terminal. VerifiedBy/VerifiedAt are written exactly
// once, by the verification workflow.
type LapTime struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id" validate:"required"`
	TrackLayoutID uuid.UUID  `gorm:"type:uuid;index;not null" json:"track_layout_id" validate:"required"`
	CarModelID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"car_model_id" validate:"required"`
	TimeMs        int64      `gorm:"not null" json:"time_ms" validate:"required,gt=0"`
	DrivenAt      time.Time  `gorm:"index;not null" json:"driven_at" validate:"required"`
	Status        LapStatus  `gorm:"type:varchar(16);index;not null;default:pending" json:"status" validate:"required,oneof=pending verified rejected"`
	ProofURL      string     `gorm:"type:text" json:"proof_url,omitempty"`
	VerifiedBy    *uuid.UUID `gorm:"type:uuid" json:"verified_by,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
