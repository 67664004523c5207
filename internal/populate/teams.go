package populate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nbstats/nbstats-data/internal/metrics"
	"github.com/nbstats/nbstats-data/internal/provider/nbastats"
	"github.com/nbstats/nbstats-data/internal/store"
)

// TeamSource provides the franchise list.
type TeamSource interface {
	ListTeams() []nbastats.Team
}

// TeamStore is the storage surface the teams populator writes through.
type TeamStore interface {
	TeamIDs(ctx context.Context) (map[int]struct{}, error)
	InsertTeams(ctx context.Context, teams []store.Team) error
	UpdateTeam(ctx context.Context, t store.Team) error
	DeleteAllTeams(ctx context.Context) (int64, error)
}

// Teams populates the teams table from the static franchise list. Runs are
// idempotent: teams already in storage are skipped, never rewritten.
type Teams struct {
	Source TeamSource
	Store  TeamStore
	Logger *slog.Logger
}

// Populate inserts all franchises missing from storage.
func (t *Teams) Populate(ctx context.Context) (*TeamsResult, error) {
	source := t.Source.ListTeams()
	result := &TeamsResult{Total: len(source)}

	existing, err := t.Store.TeamIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing teams: %w", err)
	}

	var missing []store.Team
	for _, team := range source {
		if _, ok := existing[team.ID]; ok {
			result.Skipped++
			continue
		}
		missing = append(missing, toStoreTeam(team))
	}

	if len(missing) > 0 {
		if err := t.Store.InsertTeams(ctx, missing); err != nil {
			return nil, fmt.Errorf("insert teams: %w", err)
		}
	}
	result.Added = len(missing)

	metrics.RecordPopulate("teams", "added", result.Added)
	metrics.RecordPopulate("teams", "skipped", result.Skipped)
	t.Logger.Info("team population complete",
		"added", result.Added, "skipped", result.Skipped, "total", result.Total)
	return result, nil
}

// Update overwrites every stored team with the current source row. Used when
// franchise metadata changes (relocation, rebrand).
func (t *Teams) Update(ctx context.Context) (*TeamsResult, error) {
	source := t.Source.ListTeams()
	result := &TeamsResult{Total: len(source)}

	existing, err := t.Store.TeamIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing teams: %w", err)
	}

	for _, team := range source {
		if _, ok := existing[team.ID]; !ok {
			result.Skipped++
			continue
		}
		if err := t.Store.UpdateTeam(ctx, toStoreTeam(team)); err != nil {
			return nil, fmt.Errorf("update team %d: %w", team.ID, err)
		}
		result.Added++
	}

	t.Logger.Info("team update complete", "updated", result.Added, "missing", result.Skipped)
	return result, nil
}

// Clear removes every row from the teams table and returns the count.
func (t *Teams) Clear(ctx context.Context) (int64, error) {
	deleted, err := t.Store.DeleteAllTeams(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear teams: %w", err)
	}
	t.Logger.Info("teams table cleared", "deleted", deleted)
	return deleted, nil
}

func toStoreTeam(team nbastats.Team) store.Team {
	st := store.Team{
		TeamID:       team.ID,
		FullName:     team.FullName,
		Abbreviation: team.Abbreviation,
		Nickname:     team.Nickname,
		City:         team.City,
		Conference:   conferenceFor(team.Abbreviation),
	}
	if team.State != "" {
		state := team.State
		st.State = &state
	}
	if team.YearFounded > 0 {
		year := team.YearFounded
		st.YearFounded = &year
	}
	logo := logoFor(team.Abbreviation)
	st.Logo = &logo
	return st
}
