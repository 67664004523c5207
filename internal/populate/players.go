package populate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nbstats/nbstats-data/internal/metrics"
	"github.com/nbstats/nbstats-data/internal/provider/nbastats"
	"github.com/nbstats/nbstats-data/internal/season"
	"github.com/nbstats/nbstats-data/internal/store"
)

// RosterSource provides team rosters and per-player career history.
type RosterSource interface {
	TeamRoster(ctx context.Context, teamID int, seasonStr string) (*nbastats.ResultSet, error)
	CareerTotals(ctx context.Context, playerID int) (*nbastats.ResultSet, error)
}

// PlayerStore is the storage surface the players populator writes through.
type PlayerStore interface {
	InsertPlayer(ctx context.Context, p store.Player) (bool, error)
}

const playerDelay = 600 * time.Millisecond

// Players populates the players table from one team's roster for a season.
// Rookie seasons are derived once at insert time: current roster rookies get
// the current season, everyone else gets the first season of their career
// history.
type Players struct {
	Source RosterSource
	Store  PlayerStore
	Logger *slog.Logger
}

// Run fetches the roster for teamAbbrev in seasonStr and inserts any players
// not already stored. Existing players are never modified.
func (p *Players) Run(ctx context.Context, teamAbbrev, seasonStr string) (*PlayersResult, error) {
	team, ok := nbastats.FindTeamByAbbreviation(teamAbbrev)
	if !ok {
		return nil, fmt.Errorf("unknown team abbreviation %q", teamAbbrev)
	}
	normalized, err := season.Normalize(seasonStr)
	if err != nil {
		return nil, err
	}

	roster, err := p.Source.TeamRoster(ctx, team.ID, normalized)
	if err != nil {
		return nil, fmt.Errorf("fetch roster for %s %s: %w", teamAbbrev, normalized, err)
	}
	p.Logger.Info("roster fetched", "team", teamAbbrev, "season", normalized, "players", len(roster.Rows))

	result := &PlayersResult{}
	limiter := rate.NewLimiter(rate.Every(playerDelay), 1)

	for _, row := range roster.Rows {
		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		playerID := roster.Int(row, "PLAYER_ID")
		name := roster.String(row, "PLAYER")
		if playerID == nil || name == "" {
			result.Errors++
			continue
		}

		player := store.Player{
			PlayerID:   *playerID,
			PlayerName: name,
			Position:   roster.String(row, "POSITION"),
			Height:     roster.String(row, "HEIGHT"),
			Weight:     roster.String(row, "WEIGHT"),
			School:     roster.String(row, "SCHOOL"),
		}
		if birth := parseBirthDate(roster.String(row, "BIRTH_DATE")); birth != nil {
			player.BirthDate = birth
		}

		rookie, err := p.rookieSeason(ctx, *playerID, roster.String(row, "EXP"))
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			p.Logger.Warn("rookie season lookup failed", "player_id", *playerID, "player", name, "error", err)
			result.Errors++
			continue
		}
		player.RookieSeason = rookie

		inserted, err := p.Store.InsertPlayer(ctx, player)
		if err != nil {
			p.Logger.Warn("player insert failed", "player_id", *playerID, "player", name, "error", err)
			result.Errors++
			continue
		}
		if inserted {
			result.Added++
		} else {
			result.Skipped++
		}
	}

	metrics.RecordPopulate("players", "added", result.Added)
	metrics.RecordPopulate("players", "skipped", result.Skipped)
	metrics.RecordPopulate("players", "error", result.Errors)
	p.Logger.Info("player population complete",
		"team", teamAbbrev, "season", normalized,
		"added", result.Added, "skipped", result.Skipped, "errors", result.Errors)
	return result, nil
}

// rookieSeason derives a player's first season. "R" experience marks a
// current rookie; for veterans the first row of their career history is
// authoritative.
func (p *Players) rookieSeason(ctx context.Context, playerID int, experience string) (string, error) {
	if experience == "R" {
		return season.Current(), nil
	}
	career, err := p.Source.CareerTotals(ctx, playerID)
	if err != nil {
		return "", err
	}
	if len(career.Rows) == 0 {
		return season.Current(), nil
	}
	seasonCol, err := career.SeasonColumn()
	if err != nil {
		return "", err
	}
	return career.StringAt(career.Rows[0], seasonCol), nil
}

// Roster BIRTH_DATE values arrive in a couple of upstream formats, e.g.
// "JUL 29, 1994" or "1994-07-29T00:00:00". Month abbreviations come
// uppercased, which time.Parse does not accept, so casing is normalized
// first.
var birthDateLayouts = []string{
	"Jan 2, 2006",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseBirthDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	normalized := raw
	if len(raw) > 3 && raw[3] == ' ' {
		normalized = strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:3]) + raw[3:]
	}
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return &t
		}
	}
	return nil
}
