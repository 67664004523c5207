package populate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/nbstats/nbstats-data/internal/metrics"
	"github.com/nbstats/nbstats-data/internal/provider/nbastats"
	"github.com/nbstats/nbstats-data/internal/store"
)

// CareerSource provides per-player career history.
type CareerSource interface {
	CareerTotals(ctx context.Context, playerID int) (*nbastats.ResultSet, error)
}

// AssociationStore is the storage surface the associations populator uses.
type AssociationStore interface {
	AllPlayers(ctx context.Context) ([]store.Player, error)
	TeamIDs(ctx context.Context) (map[int]struct{}, error)
	ExistingAssociations(ctx context.Context) (map[store.AssociationKey]struct{}, error)
	BeginAssociationBatch(ctx context.Context) (store.AssociationBatch, error)
}

// Pacing and batching for the association walk. One career request per
// player keeps us under the upstream provider's tolerance; committing every
// commitEvery players bounds how much work an interrupt can lose.
const (
	associationDelay = 800 * time.Millisecond
	commitEvery      = 50
)

// Associations walks every stored player's career history and records one
// row per (player, team, season) stint. Seasons with team_id 0 are league
// aggregate rows for players traded mid-season and carry no single team, so
// they are skipped.
type Associations struct {
	Source CareerSource
	Store  AssociationStore
	Logger *slog.Logger

	// Delay overrides the interval between career requests; zero means
	// associationDelay.
	Delay time.Duration
}

// Run populates the association table for all stored players. Safe to re-run:
// rows already present are skipped via the unique (player, team, season)
// constraint and an in-memory set seeded from storage. A failed insert
// poisons the open transaction, so the batch is rolled back and counted as
// an error; the walk resumes with the next player on a fresh batch. On
// context cancellation the open batch is rolled back and the partial result
// is returned alongside the context error; completed batches stay committed.
func (a *Associations) Run(ctx context.Context) (*AssociationsResult, error) {
	players, err := a.Store.AllPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	knownTeams, err := a.Store.TeamIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	existing, err := a.Store.ExistingAssociations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing associations: %w", err)
	}

	result := &AssociationsResult{}
	delay := a.Delay
	if delay == 0 {
		delay = associationDelay
	}
	limiter := rate.NewLimiter(rate.Every(delay), 1)

	batch, err := a.Store.BeginAssociationBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin batch: %w", err)
	}
	sinceCommit := 0
	var staged []store.AssociationKey // rows added since the last commit

	for _, player := range players {
		if err := limiter.Wait(ctx); err != nil {
			_ = batch.Rollback(context.WithoutCancel(ctx))
			return result, err
		}

		career, err := a.Source.CareerTotals(ctx, player.PlayerID)
		if err != nil {
			if ctx.Err() != nil {
				_ = batch.Rollback(context.WithoutCancel(ctx))
				return result, ctx.Err()
			}
			a.Logger.Warn("career fetch failed",
				"player_id", player.PlayerID, "player", player.PlayerName, "error", err)
			result.Errors++
			continue
		}

		seasonCol, err := career.SeasonColumn()
		if err != nil {
			a.Logger.Warn("career rows missing season column", "player_id", player.PlayerID)
			result.Errors++
			continue
		}

		for _, row := range career.Rows {
			teamID := career.Int(row, "TEAM_ID")
			if teamID == nil || *teamID == 0 {
				continue
			}
			if _, ok := knownTeams[*teamID]; !ok {
				result.Skipped++
				continue
			}
			seasonStr := career.StringAt(row, seasonCol)
			if seasonStr == "" {
				continue
			}

			key := store.AssociationKey{PlayerID: player.PlayerID, TeamID: *teamID, Season: seasonStr}
			if _, ok := existing[key]; ok {
				result.Skipped++
				continue
			}

			inserted, err := batch.Insert(ctx, store.Association{
				PlayerID: player.PlayerID,
				TeamID:   *teamID,
				Season:   seasonStr,
			})
			if err != nil {
				a.Logger.Warn("association insert failed",
					"player_id", player.PlayerID, "team_id", *teamID,
					"season", seasonStr, "error", err)
				result.Errors++
				_ = batch.Rollback(context.WithoutCancel(ctx))
				// The rollback discards every row staged since the last
				// commit; forget them so the counts reflect storage.
				for _, k := range staged {
					delete(existing, k)
				}
				result.Added -= len(staged)
				staged = staged[:0]
				batch, err = a.Store.BeginAssociationBatch(ctx)
				if err != nil {
					return result, fmt.Errorf("begin batch: %w", err)
				}
				sinceCommit = 0
				break
			}
			existing[key] = struct{}{}
			if inserted {
				staged = append(staged, key)
				result.Added++
			} else {
				result.Skipped++
			}
		}

		result.Players++
		sinceCommit++
		if sinceCommit >= commitEvery {
			if err := batch.Commit(ctx); err != nil {
				return result, fmt.Errorf("commit batch: %w", err)
			}
			a.Logger.Info("association batch committed",
				"players", result.Players, "added", result.Added)
			batch, err = a.Store.BeginAssociationBatch(ctx)
			if err != nil {
				return result, fmt.Errorf("begin batch: %w", err)
			}
			sinceCommit = 0
			staged = staged[:0]
		}
	}

	if err := batch.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit final batch: %w", err)
	}

	metrics.RecordPopulate("associations", "added", result.Added)
	metrics.RecordPopulate("associations", "skipped", result.Skipped)
	metrics.RecordPopulate("associations", "error", result.Errors)
	a.Logger.Info("association population complete",
		"players", result.Players, "added", result.Added,
		"skipped", result.Skipped, "errors", result.Errors)
	return result, nil
}
