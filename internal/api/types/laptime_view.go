package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/trackdays/api/internal/repository"
	"github.com/trackdays/api/pkg/format"
)

// LapTimeView is the rendered shape of one joined lap-time row.
// TimeDisplay carries the canonical M:SS.mmm rendering.
type LapTimeView struct {
	ID          uuid.UUID      `json:"id"`
	TimeMs      int64          `json:"time_ms"`
	TimeDisplay string         `json:"time_display"`
	DrivenAt    time.Time      `json:"driven_at"`
	Status      string         `json:"status"`
	ProofURL    string         `json:"proof_url,omitempty"`
	User        LapTimeUser    `json:"user"`
	Track       LapTimeTrack   `json:"track"`
	TrackLayout LapTimeLayout  `json:"track_layout"`
	CarModel    LapTimeCar     `json:"car_model"`
}

type LapTimeUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

type LapTimeTrack struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type LapTimeLayout struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type LapTimeCar struct {
	ID    uuid.UUID `json:"id"`
	Make  string    `json:"make"`
	Model string    `json:"model"`
	Trim  string    `json:"trim,omitempty"`
}

// LapTimeViews renders joined rows for display. The rows already carry only
// what their projection selected (the public projections never load email or
// proof URL), so this is a pure reshaping.
func LapTimeViews(rows []repository.LapTimeRow) []LapTimeView {
	out := make([]LapTimeView, 0, len(rows))
	for _, r := range rows {
		out = append(out, LapTimeView{
			ID:          r.ID,
			TimeMs:      r.TimeMs,
			TimeDisplay: format.LapTime(r.TimeMs),
			DrivenAt:    r.DrivenAt,
			Status:      string(r.Status),
			ProofURL:    r.ProofURL,
			User:        LapTimeUser{ID: r.UserID, Name: r.UserName, Email: r.UserEmail},
			Track:       LapTimeTrack{ID: r.TrackID, Name: r.TrackName, Slug: r.TrackSlug},
			TrackLayout: LapTimeLayout{ID: r.LayoutID, Name: r.LayoutName},
			CarModel:    LapTimeCar{ID: r.CarID, Make: r.CarMake, Model: r.CarModel, Trim: r.CarTrim},
		})
	}
	return out
}
