package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nbstats/nbstats-data/internal/api/respond"
)

const (
	defaultPlayerLimit = 100
	maxPlayerLimit     = 500
)

// ListPlayers returns a page of stored players.
// @Summary List players
// @Tags players
// @Produce json
// @Param skip query int false "Rows to skip (default 0)"
// @Param limit query int false "Max rows (default 100, max 500)"
// @Success 200 {array} store.Player
// @Router /players/all [get]
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	skip := 0
	if s := r.URL.Query().Get("skip"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			skip = n
		}
	}
	limit := defaultPlayerLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n >= 1 && n <= maxPlayerLimit {
			limit = n
		}
	}

	players, err := h.store.ListPlayers(r.Context(), skip, limit)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, players)
}

// GetPlayer returns one stored player by ID.
// @Summary Get player
// @Tags players
// @Produce json
// @Param playerID path int true "Player ID"
// @Success 200 {object} store.Player
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /players/{playerID} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeInvalidPlayerID,
			"playerID must be an integer")
		return
	}
	player, err := h.store.GetPlayer(r.Context(), playerID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, player)
}

// SearchPlayers returns stored players matching a name fragment.
// @Summary Search players by name
// @Tags players
// @Produce json
// @Param name path string true "Name fragment, case-insensitive"
// @Success 200 {array} store.Player
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /players/search/{name} [get]
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		respond.WriteError(w, http.StatusBadRequest, respond.CodeMissingName,
			"a name fragment is required")
		return
	}
	players, err := h.store.SearchPlayers(r.Context(), name)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if len(players) == 0 {
		respond.WriteError(w, http.StatusNotFound, respond.CodeNotFound,
			"no players match the given name")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, players)
}
