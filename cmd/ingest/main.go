// Command ingest is the NBA stats batch population CLI.
//
// Usage:
//
//	nbstats-ingest db init
//	nbstats-ingest teams populate
//	nbstats-ingest players populate --team LAL --season 2023-24
//	nbstats-ingest associations populate
//	nbstats-ingest associations stats
//	nbstats-ingest stats populate --limit 100
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nbstats/nbstats-data/internal/config"
	"github.com/nbstats/nbstats-data/internal/db"
	"github.com/nbstats/nbstats-data/internal/populate"
	"github.com/nbstats/nbstats-data/internal/provider/nbastats"
	"github.com/nbstats/nbstats-data/internal/season"
	"github.com/nbstats/nbstats-data/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "nbstats-ingest",
		Short: "NBA stats batch population CLI",
	}

	root.AddCommand(dbCmd())
	root.AddCommand(teamsCmd())
	root.AddCommand(playersCmd())
	root.AddCommand(associationsCmd())
	root.AddCommand(statsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// db command
// --------------------------------------------------------------------------

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create all tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := db.ApplySchema(ctx, pool); err != nil {
					return err
				}
				logger.Info("Schema applied")
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "repair-associations",
		Short: "Drop and recreate the association and stats tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := db.RepairAssociations(ctx, pool); err != nil {
					return err
				}
				logger.Info("Association tables rebuilt")
				return nil
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// teams command
// --------------------------------------------------------------------------

func teamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Manage the teams table",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "populate",
		Short: "Insert all franchises missing from storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				job := teamsJob(cfg, pool)
				start := time.Now()
				result, err := job.Populate(ctx)
				if err != nil {
					return err
				}
				logger.Info("Teams populate finished",
					"duration", time.Since(start).Round(time.Second), "summary", result.Summary())
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Refresh stored team metadata from the source",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				job := teamsJob(cfg, pool)
				result, err := job.Update(ctx)
				if err != nil {
					return err
				}
				logger.Info("Teams update finished", "summary", result.Summary())
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every row from the teams table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				job := teamsJob(cfg, pool)
				deleted, err := job.Clear(ctx)
				if err != nil {
					return err
				}
				logger.Info("Teams cleared", "deleted", deleted)
				return nil
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// players command
// --------------------------------------------------------------------------

func playersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Manage the players table",
	}

	var team, seasonStr string
	populateCmd := &cobra.Command{
		Use:   "populate",
		Short: "Insert players from one team's roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			if team == "" {
				return fmt.Errorf("--team is required")
			}
			return runJob(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				client := newClient(cfg)
				job := &populate.Players{Source: client, Store: store.New(pool.Pool), Logger: logger}
				start := time.Now()
				result, err := job.Run(ctx, team, seasonStr)
				if result != nil {
					logger.Info("Players populate finished",
						"duration", time.Since(start).Round(time.Second), "summary", result.Summary())
				}
				return err
			})
		},
	}
	populateCmd.Flags().StringVar(&team, "team", "", "Team abbreviation (e.g. LAL)")
	populateCmd.Flags().StringVar(&seasonStr, "season", season.Current(), "Season (e.g. 2023-24 or 2023)")
	cmd.AddCommand(populateCmd)
	return cmd
}

// --------------------------------------------------------------------------
// associations command
// --------------------------------------------------------------------------

func associationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "associations",
		Short: "Manage the player-team-season association table",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "populate",
		Short: "Record every (player, team, season) stint from career histories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				client := newClient(cfg)
				job := &populate.Associations{Source: client, Store: store.New(pool.Pool), Logger: logger}
				start := time.Now()
				result, err := job.Run(ctx)
				if result != nil {
					logger.Info("Associations populate finished",
						"duration", time.Since(start).Round(time.Second), "summary", result.Summary())
				}
				return err
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Summarize the association table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				tableStats, err := store.New(pool.Pool).AssociationStats(ctx)
				if err != nil {
					return err
				}
				logger.Info("Association table",
					"total", tableStats.Total,
					"players", tableStats.Players,
					"teams", tableStats.Teams,
					"seasons", tableStats.Seasons)
				return nil
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// stats command
// --------------------------------------------------------------------------

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Manage the regular season stats table",
	}

	var limit int
	var dryRun bool
	populateCmd := &cobra.Command{
		Use:   "populate",
		Short: "Backfill stats for associations lacking a row",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				client := newClient(cfg)
				opts := populate.DefaultStatsOptions()
				opts.Limit = limit
				opts.DryRun = dryRun
				job := &populate.Stats{Source: client, Store: store.New(pool.Pool), Logger: logger, Opts: opts}
				start := time.Now()
				result, err := job.Run(ctx)
				if result != nil {
					logger.Info("Stats populate finished",
						"duration", time.Since(start).Round(time.Second), "summary", result.Summary())
				}
				return err
			})
		},
	}
	populateCmd.Flags().IntVar(&limit, "limit", 0, "Max pending associations to process (0 = all)")
	populateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve rows without writing them")
	cmd.AddCommand(populateCmd)
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func newClient(cfg *config.Config) *nbastats.Client {
	return nbastats.NewClient(cfg.StatsBaseURL, cfg.LiveBaseURL, cfg.SourceRequestsPerMinute, logger)
}

func teamsJob(cfg *config.Config, pool *db.Pool) *populate.Teams {
	return &populate.Teams{
		Source: newClient(cfg),
		Store:  store.New(pool.Pool),
		Logger: logger,
	}
}

// runJob handles config loading, DB connection, and context cancellation.
// Interrupting a run cancels the context; populators return their partial
// result before the error, so the summary still gets logged.
func runJob(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
