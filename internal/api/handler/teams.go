package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nbstats/nbstats-data/internal/api/respond"
	"github.com/nbstats/nbstats-data/internal/cache"
	"github.com/nbstats/nbstats-data/internal/provider/nbastats"
	"github.com/nbstats/nbstats-data/internal/season"
)

// ListTeams returns all stored teams.
// @Summary List teams
// @Tags teams
// @Produce json
// @Success 200 {array} store.Team
// @Router /teams/all [get]
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.store.ListTeams(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, teams)
}

// ListTeamsByConference returns all stored teams in one conference.
// @Summary List teams by conference
// @Tags teams
// @Produce json
// @Param conference path string true "Conference" Enums(East, West)
// @Success 200 {array} store.Team
// @Failure 400 {object} respond.ErrorResponse
// @Router /teams/conference/{conference} [get]
func (h *Handler) ListTeamsByConference(w http.ResponseWriter, r *http.Request) {
	conference := normalizeConference(chi.URLParam(r, "conference"))
	if conference == "" {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidConference,
			"conference must be 'East' or 'West'")
		return
	}
	teams, err := h.store.ListTeamsByConference(r.Context(), conference)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, teams)
}

// GetTeam returns one stored team by abbreviation.
// @Summary Get team
// @Tags teams
// @Produce json
// @Param abbreviation path string true "Team abbreviation (e.g. LAL)"
// @Success 200 {object} store.Team
// @Failure 404 {object} respond.ErrorResponse
// @Router /teams/{abbreviation} [get]
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	abbrev := strings.ToUpper(chi.URLParam(r, "abbreviation"))
	team, err := h.store.GetTeamByAbbreviation(r.Context(), abbrev)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, team)
}

// GetTeamRoster returns the live roster for a team and season, straight from
// the stats provider.
// @Summary Get team roster
// @Tags teams
// @Produce json
// @Param abbreviation path string true "Team abbreviation (e.g. LAL)"
// @Param season path string true "Season (e.g. 2023-24 or 2023)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /teams/{abbreviation}/roster/{season} [get]
func (h *Handler) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	abbrev := strings.ToUpper(chi.URLParam(r, "abbreviation"))
	team, ok := nbastats.FindTeamByAbbreviation(abbrev)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound,
			fmt.Sprintf("unknown team abbreviation %q", abbrev))
		return
	}

	seasonStr, err := season.Normalize(chi.URLParam(r, "season"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	cacheKey := cache.RosterKey(abbrev, seasonStr)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteCached(w, data, etag, cache.TTLRoster, true)
		return
	}

	roster, err := h.source.TeamRoster(r.Context(), team.ID, seasonStr)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	payload := map[string]interface{}{
		"team":    abbrev,
		"season":  seasonStr,
		"headers": roster.Headers,
		"roster":  roster.Rows,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	etag := h.cache.Set(cacheKey, data, cache.TTLRoster)
	respond.WriteCached(w, data, etag, cache.TTLRoster, false)
}

func normalizeConference(raw string) string {
	switch strings.ToLower(raw) {
	case "east":
		return "East"
	case "west":
		return "West"
	}
	return ""
}
