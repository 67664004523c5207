package handler

import (
	"net/http"

	"github.com/nbstats/nbstats-data/internal/api/respond"
	"github.com/nbstats/nbstats-data/internal/store"
)

// PopulateTeamsDB inserts all missing franchises into the teams table.
// @Summary Populate teams table
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} respond.ErrorResponse
// @Router /teams/database/populate [post]
func (h *Handler) PopulateTeamsDB(w http.ResponseWriter, r *http.Request) {
	result, err := h.admin.Populate(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"added":   result.Added,
		"skipped": result.Skipped,
		"total":   result.Total,
		"summary": result.Summary(),
	})
}

// ListTeamsDB returns stored teams grouped by conference.
// @Summary List stored teams grouped by conference
// @Tags admin
// @Produce json
// @Success 200 {object} map[string][]store.Team
// @Failure 500 {object} respond.ErrorResponse
// @Router /teams/database/list [get]
func (h *Handler) ListTeamsDB(w http.ResponseWriter, r *http.Request) {
	teams, err := h.store.ListTeams(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	grouped := map[string][]store.Team{
		"East": {},
		"West": {},
	}
	for _, t := range teams {
		grouped[t.Conference] = append(grouped[t.Conference], t)
	}
	respond.WriteJSONObject(w, http.StatusOK, grouped)
}

// UpdateTeamsDB overwrites every stored team with current source metadata.
// @Summary Refresh stored team metadata
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} respond.ErrorResponse
// @Router /teams/database/update [put]
func (h *Handler) UpdateTeamsDB(w http.ResponseWriter, r *http.Request) {
	result, err := h.admin.Update(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"updated": result.Added,
		"missing": result.Skipped,
	})
}

// ClearTeamsDB deletes every row from the teams table.
// @Summary Clear teams table
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} respond.ErrorResponse
// @Router /teams/database/clear [delete]
func (h *Handler) ClearTeamsDB(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.admin.Clear(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"deleted": deleted,
	})
}
