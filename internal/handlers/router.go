package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"scrawl/internal/middleware"
)

// Router wires every endpoint. staticDir may be empty.
func Router(h *Handlers, m *middleware.Middleware, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(m.Logger)

	r.Get("/health", HealthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(m.RateLimiter)
		r.Use(m.Session)

		r.Get("/captcha", h.Challenge)
		r.Get("/captcha/image", h.Image)
		r.Post("/captcha/new", h.NewChallenge)
		r.Post("/captcha/verify", h.Verify)
		r.Get("/stats", h.Stats)
		r.Post("/stats/reset", h.ResetStats)
		r.Get("/pass", h.Pass)
	})

	if staticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	return r
}
