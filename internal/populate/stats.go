package populate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nbstats/nbstats-data/internal/metrics"
	"github.com/nbstats/nbstats-data/internal/provider/nbastats"
	"github.com/nbstats/nbstats-data/internal/season"
	"github.com/nbstats/nbstats-data/internal/store"
)

// StatsStore is the storage surface the stats populator uses.
type StatsStore interface {
	PendingStats(ctx context.Context, excludeSeason string) ([]store.PendingAssociation, error)
	InsertSeasonStats(ctx context.Context, st *store.RegularSeasonStats) error
}

// StatsOptions tunes a stats population run.
type StatsOptions struct {
	// Limit caps how many pending associations are processed. Zero means all.
	Limit int
	// DryRun resolves and logs rows without writing them.
	DryRun bool
	// MaxAttempts bounds career fetch retries per player.
	MaxAttempts int
	// RetryBaseDelay scales the wait between attempts: attempt n waits
	// (n-1) * RetryBaseDelay before running.
	RetryBaseDelay time.Duration
}

// DefaultStatsOptions mirror the upstream provider's observed tolerance for
// repeated career requests.
func DefaultStatsOptions() StatsOptions {
	return StatsOptions{MaxAttempts: 3, RetryBaseDelay: 5 * time.Second}
}

// Stats backfills one regular season stats row per association that lacks
// one. The current season is always excluded: its totals are still moving.
type Stats struct {
	Source CareerSource
	Store  StatsStore
	Logger *slog.Logger
	Opts   StatsOptions
}

// Run processes pending associations oldest-first. Per-row failures are
// counted and skipped so one bad player cannot stall the backfill. On
// context cancellation the partial result is returned with the context
// error; rows already inserted stay inserted, each lives in its own
// transaction.
func (s *Stats) Run(ctx context.Context) (*StatsResult, error) {
	opts := s.Opts
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = 5 * time.Second
	}

	current := season.Current()
	pending, err := s.Store.PendingStats(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("load pending associations: %w", err)
	}
	if opts.Limit > 0 && len(pending) > opts.Limit {
		pending = pending[:opts.Limit]
	}
	s.Logger.Info("stats backfill starting",
		"pending", len(pending), "excluded_season", current, "dry_run", opts.DryRun)

	result := &StatsResult{}
	careers := make(map[int]*nbastats.ResultSet)

	for _, assoc := range pending {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		career, ok := careers[assoc.PlayerID]
		if !ok {
			career, err = s.fetchCareer(ctx, assoc.PlayerID, opts)
			if err != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				s.Logger.Warn("career fetch failed",
					"player_id", assoc.PlayerID, "player", assoc.PlayerName, "error", err)
				result.Errors++
				continue
			}
			careers[assoc.PlayerID] = career
		}

		row := findSeasonRow(career, assoc.TeamID, assoc.Season)
		if row == nil {
			s.Logger.Debug("no career row for association",
				"player_id", assoc.PlayerID, "team", assoc.TeamAbbreviation, "season", assoc.Season)
			result.Skipped++
			continue
		}

		stats := buildStatsRow(career, row, assoc.PlayersTeamsID)
		if opts.DryRun {
			s.Logger.Info("dry run: would insert stats",
				"player", assoc.PlayerName, "team", assoc.TeamAbbreviation, "season", assoc.Season)
			result.Processed++
			continue
		}

		if err := s.Store.InsertSeasonStats(ctx, stats); err != nil {
			s.Logger.Warn("stats insert failed",
				"players_teams_id", assoc.PlayersTeamsID, "player", assoc.PlayerName, "error", err)
			result.Errors++
			continue
		}
		result.Processed++
	}

	metrics.RecordPopulate("stats", "processed", result.Processed)
	metrics.RecordPopulate("stats", "skipped", result.Skipped)
	metrics.RecordPopulate("stats", "error", result.Errors)
	s.Logger.Info("stats backfill complete",
		"processed", result.Processed, "skipped", result.Skipped, "errors", result.Errors)
	return result, nil
}

// fetchCareer retries transient source failures with a linear backoff.
// Format errors are terminal: retrying a malformed payload will not fix it.
func (s *Stats) fetchCareer(ctx context.Context, playerID int, opts StatsOptions) (*nbastats.ResultSet, error) {
	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * opts.RetryBaseDelay
			s.Logger.Debug("retrying career fetch",
				"player_id", playerID, "attempt", attempt, "wait", wait)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		career, err := s.Source.CareerTotals(ctx, playerID)
		if err == nil {
			return career, nil
		}
		var formatErr *nbastats.SourceFormatError
		if errors.As(err, &formatErr) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// findSeasonRow locates the career row for one (team, season) stint.
func findSeasonRow(career *nbastats.ResultSet, teamID int, seasonStr string) []interface{} {
	seasonCol, err := career.SeasonColumn()
	if err != nil {
		return nil
	}
	for _, row := range career.Rows {
		rowTeam := career.Int(row, "TEAM_ID")
		if rowTeam == nil || *rowTeam != teamID {
			continue
		}
		if career.StringAt(row, seasonCol) == seasonStr {
			return row
		}
	}
	return nil
}

func buildStatsRow(career *nbastats.ResultSet, row []interface{}, playersTeamsID int) *store.RegularSeasonStats {
	return &store.RegularSeasonStats{
		PlayersTeamsID:          playersTeamsID,
		GamesPlayed:             career.Int(row, "GP"),
		GamesStarted:            career.Int(row, "GS"),
		TotalMinutes:            career.Int(row, "MIN"),
		TotalFieldGoalsMade:     career.Int(row, "FGM"),
		TotalFieldGoalsAttempt:  career.Int(row, "FGA"),
		TotalThreesGoalsMade:    career.Int(row, "FG3M"),
		TotalThreesGoalsAttempt: career.Int(row, "FG3A"),
		TotalFreeThrowsMade:     career.Int(row, "FTM"),
		TotalFreeThrowsAttempt:  career.Int(row, "FTA"),
		TotalOffensiveRebounds:  career.Int(row, "OREB"),
		TotalDefensiveRebounds:  career.Int(row, "DREB"),
		TotalRebounds:           career.Int(row, "REB"),
		TotalAssists:            career.Int(row, "AST"),
		TotalSteals:             career.Int(row, "STL"),
		TotalBlocks:             career.Int(row, "BLK"),
		TotalTurnovers:          career.Int(row, "TOV"),
		TotalPersonalFouls:      career.Int(row, "PF"),
		TotalPoints:             career.Int(row, "PTS"),
	}
}
