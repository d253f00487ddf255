package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/trackdays/api/internal/api/types"
	"github.com/trackdays/api/internal/models"
	"github.com/trackdays/api/internal/repository"
	"github.com/trackdays/api/internal/services"
)

// ProfileHandler serves public driver profiles: the user's lap times in any
// status plus summary statistics.
type ProfileHandler struct {
	users repository.UserRepository
	laps  services.LapTimeService
}

func NewProfileHandler(users repository.UserRepository, laps services.LapTimeService) *ProfileHandler {
	return &ProfileHandler{users: users, laps: laps}
}

func (h *ProfileHandler) LapTimes(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var u models.User
	if err := h.users.GetByID(r.Context(), userID, &u); err != nil {
		writeError(w, types.StatusFromError(err), err)
		return
	}

	rows, stats, err := h.laps.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, types.StatusFromError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data: map[string]any{
			"user": map[string]any{
				"id":         u.ID,
				"name":       u.Name,
				"image":      u.Image,
				"is_admin":   u.IsAdmin,
				"created_at": u.CreatedAt,
			},
			"lap_times": types.LapTimeViews(rows),
			"stats":     stats,
		},
	})
}
