// Package api wires the Chi router: middleware stack, read routes, and the
// admin surface.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/nbstats/nbstats-data/internal/api/handler"
	"github.com/nbstats/nbstats-data/internal/config"
)

// Rate limit window. Quotas are configured per minute.
const rateLimitWindow = time.Minute

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(h *handler.Handler, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Link", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitPerMinute, rateLimitWindow))
	}

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Swagger UI against the hand-maintained OpenAPI document.
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/static/openapi.json"),
	))

	// Static assets (team logos, OpenAPI document)
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.Dir(cfg.StaticDir))))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Teams
		r.Get("/teams/all", h.ListTeams)
		r.Get("/teams/conference/{conference}", h.ListTeamsByConference)
		r.Get("/teams/{abbreviation}", h.GetTeam)
		r.Get("/teams/{abbreviation}/roster/{season}", h.GetTeamRoster)

		// Admin surface over the teams table
		r.Route("/teams/database", func(r chi.Router) {
			r.Post("/populate", h.PopulateTeamsDB)
			r.Get("/list", h.ListTeamsDB)
			r.Put("/update", h.UpdateTeamsDB)
			r.Delete("/clear", h.ClearTeamsDB)
		})

		// Players
		r.Get("/players/all", h.ListPlayers)
		r.Get("/players/search/{name}", h.SearchPlayers)
		r.Get("/players/{playerID}", h.GetPlayer)

		// Games
		r.Get("/games/standings", h.GetStandings)
		r.Get("/games/today", h.GetTodaysGames)
	})

	return r
}
