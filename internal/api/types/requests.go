package types

import "time"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SubmitLapTimeRequest creates a pending lap time. time_ms must be positive;
// driven_at is stored as given (future values are not rejected).
type SubmitLapTimeRequest struct {
	TrackLayoutID string    `json:"track_layout_id" validate:"required,uuid4"`
	CarModelID    string    `json:"car_model_id" validate:"required,uuid4"`
	TimeMs        int64     `json:"time_ms" validate:"required,gt=0"`
	DrivenAt      time.Time `json:"driven_at" validate:"required"`
	ProofURL      string    `json:"proof_url" validate:"omitempty,url"`
}
