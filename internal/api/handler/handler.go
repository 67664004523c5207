// Package handler implements the HTTP handlers for the read API and the
// admin surface over the teams table.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nbstats/nbstats-data/internal/api/respond"
	"github.com/nbstats/nbstats-data/internal/cache"
	"github.com/nbstats/nbstats-data/internal/populate"
	"github.com/nbstats/nbstats-data/internal/provider/nbastats"
	"github.com/nbstats/nbstats-data/internal/season"
	"github.com/nbstats/nbstats-data/internal/store"
)

// Store is the read surface handlers need from persistent storage.
type Store interface {
	HealthCheck(ctx context.Context) error
	ListTeams(ctx context.Context) ([]store.Team, error)
	ListTeamsByConference(ctx context.Context, conference string) ([]store.Team, error)
	GetTeamByAbbreviation(ctx context.Context, abbrev string) (*store.Team, error)
	ListPlayers(ctx context.Context, skip, limit int) ([]store.Player, error)
	GetPlayer(ctx context.Context, playerID int) (*store.Player, error)
	SearchPlayers(ctx context.Context, name string) ([]store.Player, error)
}

// Source is the live surface handlers need from the stats provider.
type Source interface {
	TeamRoster(ctx context.Context, teamID int, seasonStr string) (*nbastats.ResultSet, error)
	Standings(ctx context.Context, seasonStr, conference string) ([]nbastats.Standing, error)
	TodaysGames(ctx context.Context) ([]nbastats.ScoreboardGame, error)
}

// TeamsAdmin drives the teams table maintenance endpoints.
type TeamsAdmin interface {
	Populate(ctx context.Context) (*populate.TeamsResult, error)
	Update(ctx context.Context) (*populate.TeamsResult, error)
	Clear(ctx context.Context) (int64, error)
}

// Handler holds dependencies for all API routes.
type Handler struct {
	store  Store
	source Source
	admin  TeamsAdmin
	cache  *cache.Cache
	logger *slog.Logger
}

// New creates a Handler with the given dependencies.
func New(st Store, src Source, admin TeamsAdmin, c *cache.Cache, logger *slog.Logger) *Handler {
	return &Handler{store: st, source: src, admin: admin, cache: c, logger: logger}
}

// Root returns basic API info.
// @Summary API root
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "nbstats-data",
		"version": "v1",
		"docs":    "/docs/index.html",
	})
}

// HealthCheck returns service liveness.
// @Summary Health check
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"cache":  h.cache.Stats(),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} respond.ErrorResponse
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.store.HealthCheck(r.Context()); err != nil {
		h.logger.Error("database health check failed", "error", err)
		respond.WriteError(w, http.StatusServiceUnavailable, respond.CodeDBUnavailable,
			"database is not reachable")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// writeDomainError maps domain errors to HTTP responses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var (
		seasonErr     *season.InvalidSeasonError
		conferenceErr *nbastats.InvalidConferenceError
		sourceErr     *nbastats.SourceUnavailableError
		formatErr     *nbastats.SourceFormatError
	)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound, "resource not found")
	case errors.As(err, &seasonErr):
		respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidSeason, seasonErr.Error())
	case errors.As(err, &conferenceErr):
		respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidConference, conferenceErr.Error())
	case errors.As(err, &sourceErr):
		h.logger.Error("stats provider unavailable", "error", err)
		respond.WriteError(w, http.StatusBadGateway, respond.CodeSourceUnavailable,
			"upstream stats provider is unavailable")
	case errors.As(err, &formatErr):
		h.logger.Error("stats provider returned malformed data", "error", err)
		respond.WriteError(w, http.StatusBadGateway, respond.CodeSourceFormat,
			"upstream stats provider returned malformed data")
	default:
		h.logger.Error("request failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, respond.CodeInternal, "internal server error")
	}
}
