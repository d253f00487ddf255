package models

import (
	"time"

	"github.com/google/uuid"
)

// CarModel is a make/model/trim combination. Reference data.
type CarModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Make      string    `gorm:"type:varchar(64);not null" json:"make" validate:"required"`
	Model     string    `gorm:"type:varchar(64);not null" json:"model" validate:"required"`
	Trim      string    `gorm:"type:varchar(64)" json:"trim,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
