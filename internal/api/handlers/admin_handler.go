package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/trackdays/api/internal/api/middleware"
	"github.com/trackdays/api/internal/api/types"
	"github.com/trackdays/api/internal/services"
)

// AdminHandler exposes the administrative lap-time surface. Both routes sit
// behind optional auth: an absent or non-admin session is handled by the
// service gate, not rejected at the transport.
type AdminHandler struct {
	laps services.LapTimeService
}

func NewAdminHandler(laps services.LapTimeService) *AdminHandler {
	return &AdminHandler{laps: laps}
}

// List returns every lap time regardless of status, with submitter email and
// proof URL. Without admin privilege the response is a single failure shape:
// callers cannot tell "no session" from "not admin".
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.laps.ListAllForAdmin(r.Context(), middleware.GetUserID(r.Context()))
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

// Verify accepts the admin submission carrying one lapTimeId field (form
// encoded or JSON) and always answers 204: the outcome is observed only by
// re-reading the lists.
func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id := r.FormValue("lapTimeId")
	if id == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			LapTimeID string `json:"lapTimeId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			id = body.LapTimeID
		}
	}
	if lapTimeID, err := uuid.Parse(id); err == nil {
		// Service errors are already logged there; nothing is surfaced here.
		_ = h.laps.Verify(r.Context(), lapTimeID, middleware.GetUserID(r.Context()))
	}
	w.WriteHeader(http.StatusNoContent)
}
