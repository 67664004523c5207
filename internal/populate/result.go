package populate

import "fmt"

// TeamsResult summarizes a team population run.
type TeamsResult struct {
	Added   int
	Skipped int
	Total   int
}

func (r TeamsResult) Summary() string {
	return fmt.Sprintf("teams: %d added, %d already present, %d total in source", r.Added, r.Skipped, r.Total)
}

// AssociationsResult summarizes an association population run.
type AssociationsResult struct {
	Added   int
	Skipped int
	Errors  int
	Players int
}

func (r AssociationsResult) Summary() string {
	return fmt.Sprintf("associations: %d players processed, %d rows added, %d skipped, %d errors",
		r.Players, r.Added, r.Skipped, r.Errors)
}

// StatsResult summarizes a season stats population run.
type StatsResult struct {
	Processed int
	Skipped   int
	Errors    int
}

func (r StatsResult) Summary() string {
	return fmt.Sprintf("stats: %d rows inserted, %d skipped, %d errors", r.Processed, r.Skipped, r.Errors)
}

// PlayersResult summarizes a roster-driven player population run.
type PlayersResult struct {
	Added   int
	Skipped int
	Errors  int
}

func (r PlayersResult) Summary() string {
	return fmt.Sprintf("players: %d added, %d already present, %d errors", r.Added, r.Skipped, r.Errors)
}
