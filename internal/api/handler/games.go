package handler

import (
	"encoding/json"
	"net/http"

	"github.com/nbstats/nbstats-data/internal/api/respond"
	"github.com/nbstats/nbstats-data/internal/cache"
	"github.com/nbstats/nbstats-data/internal/provider/nbastats"
	"github.com/nbstats/nbstats-data/internal/season"
)

// GetStandings returns league standings for a season, straight from the
// stats provider.
// @Summary Get standings
// @Tags games
// @Produce json
// @Param season query string false "Season (e.g. 2023-24 or 2023); defaults to current"
// @Param conference query string false "Conference filter" Enums(Overall, East, West) default(Overall)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /games/standings [get]
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	conference := r.URL.Query().Get("conference")
	if conference == "" {
		conference = nbastats.ConferenceOverall
	}
	if err := nbastats.ValidateConference(conference); err != nil {
		h.writeDomainError(w, err)
		return
	}

	seasonStr, err := season.Normalize(r.URL.Query().Get("season"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	cacheKey := cache.StandingsKey(seasonStr, conference)
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteCached(w, data, etag, cache.TTLStandings, true)
		return
	}

	standings, err := h.source.Standings(r.Context(), seasonStr, conference)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	payload := map[string]interface{}{
		"season":     seasonStr,
		"conference": conference,
		"standings":  standings,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	etag := h.cache.Set(cacheKey, data, cache.TTLStandings)
	respond.WriteCached(w, data, etag, cache.TTLStandings, false)
}

// GetTodaysGames returns today's live scoreboard.
// @Summary Get today's games
// @Tags games
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} respond.ErrorResponse
// @Router /games/today [get]
func (h *Handler) GetTodaysGames(w http.ResponseWriter, r *http.Request) {
	cacheKey := cache.ScoreboardKey()
	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteCached(w, data, etag, cache.TTLScoreboard, true)
		return
	}

	games, err := h.source.TodaysGames(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	data, err := json.Marshal(map[string]interface{}{"games": games})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	etag := h.cache.Set(cacheKey, data, cache.TTLScoreboard)
	respond.WriteCached(w, data, etag, cache.TTLScoreboard, false)
}
