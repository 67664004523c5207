package db

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// ApplySchema creates all tables and indexes if they do not exist.
func ApplySchema(ctx context.Context, pool *Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// RepairAssociations drops and recreates the association table, restoring
// the uniqueness constraint. Dependent stats rows go with it.
func RepairAssociations(ctx context.Context, pool *Pool) error {
	stmts := []string{
		"DROP TABLE IF EXISTS regular_season_stats",
		"DROP TABLE IF EXISTS player_teams_association",
	}
	for _, sql := range stmts {
		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("repair associations: %w", err)
		}
	}
	return ApplySchema(ctx, pool)
}
