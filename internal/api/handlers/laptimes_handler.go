package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/trackdays/api/internal/api/middleware"
	"github.com/trackdays/api/internal/api/types"
	"github.com/trackdays/api/internal/services"
)

type LapTimesHandler struct {
	laps     services.LapTimeService
	validate interface{ Struct(any) error }
}

func NewLapTimesHandler(laps services.LapTimeService, v interface{ Struct(any) error }) *LapTimesHandler {
	return &LapTimesHandler{laps: laps, validate: v}
}

// ListVerified serves the public leaderboard: verified times only, most
// recent drive first, submitter email withheld.
func (h *LapTimesHandler) ListVerified(w http.ResponseWriter, r *http.Request) {
	rows, err := h.laps.ListVerified(r.Context())
	if err != nil {
		writeError(w, types.StatusFromError(err), err)
		return
	}
	views := types.LapTimeViews(rows)
	writeJSON(w, http.StatusOK, types.APIResponse{
		Success: true,
		Data:    views,
		Meta:    &types.Meta{Total: int64(len(views))},
	})
}

func (h *LapTimesHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req types.SubmitLapTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	layoutID, _ := uuid.Parse(req.TrackLayoutID)
	carID, _ := uuid.Parse(req.CarModelID)

	lt, err := h.laps.Submit(r.Context(), userID, &services.SubmitLapTimeInput{
		TrackLayoutID: layoutID,
		CarModelID:    carID,
		TimeMs:        req.TimeMs,
		DrivenAt:      req.DrivenAt,
		ProofURL:      req.ProofURL,
	})
	if err != nil {
		writeError(w, types.StatusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: lt})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, types.APIResponse{Success: false, Error: types.FromAppError(err)})
}

func writeErrorStr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.APIResponse{Success: false, Error: &types.APIError{Code: "invalid", Message: msg}})
}
