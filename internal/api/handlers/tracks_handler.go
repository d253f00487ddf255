package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/trackdays/api/internal/api/types"
	"github.com/trackdays/api/internal/services"
)

// TracksHandler serves the read-only reference catalog.
type TracksHandler struct {
	catalog services.TrackService
}

func NewTracksHandler(catalog services.TrackService) *TracksHandler {
	return &TracksHandler{catalog: catalog}
}

func (h *TracksHandler) List(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.catalog.ListTracks(r.Context())
	if err != nil {
		writeError(w, types.StatusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: tracks})
}

func (h *TracksHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	detail, err := h.catalog.GetTrackBySlug(r.Context(), slug)
	if err != nil {
		writeError(w, types.StatusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: detail})
}

func (h *TracksHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.catalog.ListCarModels(r.Context())
	if err != nil {
		writeError(w, types.StatusFromError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: cars})
}
