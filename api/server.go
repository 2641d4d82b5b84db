/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the companion app

ROUTE GROUPS:
  /api/activities       Activity submission
  /api/progress         Level state
  /api/streaks/*        Streak state
  /api/rewards/*        Unlocked rewards and the static catalog
  /api/challenges       Challenge progress
  /api/admin/*          Manual rollover trigger
  /healthz              Liveness
  /metrics              Prometheus

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/activities", h.SubmitActivity)

		r.Get("/progress", h.GetProgress)

		r.Route("/streaks", func(r chi.Router) {
			r.Get("/", h.ListStreaks)
			r.Get("/{type}", h.GetStreak)
		})

		r.Route("/rewards", func(r chi.Router) {
			r.Get("/", h.ListRewards)
			r.Get("/catalog", h.ListRewardCatalog)
		})

		r.Route("/challenges", func(r chi.Router) {
			r.Get("/", h.ListChallenges)
			r.Get("/catalog", h.ListChallengeCatalog)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/rollover", h.TriggerRollover)
		})
	})

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
