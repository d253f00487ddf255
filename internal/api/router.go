package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/trackdays/api/internal/api/handlers"
	mw "github.com/trackdays/api/internal/api/middleware"
)

type Dependencies struct {
	HMACSecret      []byte
	AuthHandler     *handlers.AuthHandler
	TracksHandler   *handlers.TracksHandler
	LapTimesHandler *handlers.LapTimesHandler
	ProfileHandler  *handlers.ProfileHandler
	AdminHandler    *handlers.AdminHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		// Auth routes (public)
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", dep.AuthHandler.Register)
			ar.Post("/login", dep.AuthHandler.Login)
			ar.Post("/logout", dep.AuthHandler.Logout)
		})

		// Public catalog and leaderboard
		api.Get("/tracks", dep.TracksHandler.List)
		api.Get("/tracks/{slug}", dep.TracksHandler.GetBySlug)
		api.Get("/cars", dep.TracksHandler.ListCars)
		api.Get("/lap-times", dep.LapTimesHandler.ListVerified)
		api.Get("/users/{id}/lap-times", dep.ProfileHandler.LapTimes)

		// Submission requires a session
		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.HMACSecret))
			protected.Post("/lap-times", dep.LapTimesHandler.Submit)
		})

		// Admin surface resolves the session itself: "no session" and "not
		// admin" must produce the same response as any other failure, so the
		// transport never rejects here.
		api.Group(func(admin chi.Router) {
			admin.Use(mw.AuthOptional(dep.HMACSecret))
			admin.Get("/admin/lap-times", dep.AdminHandler.List)
			admin.Post("/admin/lap-times/verify", dep.AdminHandler.Verify)
		})
	})

	return r
}
