package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ExistingAssociations loads the natural keys of all association rows into
// a set, used by the populator to avoid redundant inserts.
func (s *Store) ExistingAssociations(ctx context.Context) (map[AssociationKey]struct{}, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT player_id, team_id, season FROM player_teams_association")
	if err != nil {
		return nil, fmt.Errorf("query associations: %w", err)
	}
	defer rows.Close()

	existing := make(map[AssociationKey]struct{})
	for rows.Next() {
		var k AssociationKey
		if err := rows.Scan(&k.PlayerID, &k.TeamID, &k.Season); err != nil {
			return nil, fmt.Errorf("scan association: %w", err)
		}
		existing[k] = struct{}{}
	}
	return existing, rows.Err()
}

// AssociationBatch stages association inserts inside one transaction,
// committed every batch of players by the populator.
type AssociationBatch interface {
	// Insert stages one association. Returns false without error when the
	// row already exists: the unique constraint is the idempotency signal,
	// so a row added by a concurrent run counts as skipped, not failed.
	Insert(ctx context.Context, a Association) (bool, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// BeginAssociationBatch opens a new insert transaction.
func (s *Store) BeginAssociationBatch(ctx context.Context) (AssociationBatch, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "begin association batch", Err: err}
	}
	return &associationBatch{tx: tx}, nil
}

type associationBatch struct {
	tx pgx.Tx
}

func (b *associationBatch) Insert(ctx context.Context, a Association) (bool, error) {
	tag, err := b.tx.Exec(ctx, `
		INSERT INTO player_teams_association (player_id, team_id, season)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, team_id, season) DO NOTHING`,
		a.PlayerID, a.TeamID, a.Season,
	)
	if err != nil {
		return false, &PersistenceError{
			Op:  fmt.Sprintf("insert association player=%d team=%d season=%s", a.PlayerID, a.TeamID, a.Season),
			Err: err,
		}
	}
	return tag.RowsAffected() > 0, nil
}

func (b *associationBatch) Commit(ctx context.Context) error {
	if err := b.tx.Commit(ctx); err != nil {
		return &PersistenceError{Op: "commit association batch", Err: err}
	}
	return nil
}

func (b *associationBatch) Rollback(ctx context.Context) error {
	return b.tx.Rollback(ctx)
}

// AssociationStats summarizes the association table.
func (s *Store) AssociationStats(ctx context.Context) (*AssociationTableStats, error) {
	var stats AssociationTableStats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT player_id),
		       COUNT(DISTINCT team_id),
		       COUNT(DISTINCT season)
		FROM player_teams_association`).Scan(
		&stats.Total, &stats.Players, &stats.Teams, &stats.Seasons,
	)
	if err != nil {
		return nil, fmt.Errorf("association stats: %w", err)
	}
	return &stats, nil
}
