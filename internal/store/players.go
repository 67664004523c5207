package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const playerColumns = "player_id, player_name, position, height, weight, birth_date, school, rookie_season"

// InsertPlayer inserts a player if absent. Returns false when the player
// already exists; existing rows are never modified.
func (s *Store) InsertPlayer(ctx context.Context, p Player) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player_id) DO NOTHING`,
		p.PlayerID, p.PlayerName, nilEmpty(p.Position), nilEmpty(p.Height),
		nilEmpty(p.Weight), p.BirthDate, nilEmpty(p.School), nilEmpty(p.RookieSeason),
	)
	if err != nil {
		return false, &PersistenceError{Op: fmt.Sprintf("insert player %d", p.PlayerID), Err: err}
	}
	return tag.RowsAffected() > 0, nil
}

// AllPlayers returns every player in storage order (primary key).
func (s *Store) AllPlayers(ctx context.Context) ([]Player, error) {
	return s.queryPlayers(ctx, "SELECT "+playerColumns+" FROM players ORDER BY player_id")
}

// ListPlayers returns a page of players ordered by primary key.
func (s *Store) ListPlayers(ctx context.Context, skip, limit int) ([]Player, error) {
	return s.queryPlayers(ctx,
		"SELECT "+playerColumns+" FROM players ORDER BY player_id OFFSET $1 LIMIT $2",
		skip, limit)
}

// GetPlayer returns one player by id, or ErrNotFound.
func (s *Store) GetPlayer(ctx context.Context, playerID int) (*Player, error) {
	var p Player
	var position, height, weight, school, rookie *string
	err := s.pool.QueryRow(ctx, "player_by_id", playerID).Scan(
		&p.PlayerID, &p.PlayerName, &position, &height,
		&weight, &p.BirthDate, &school, &rookie,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", playerID, err)
	}
	p.Position = deref(position)
	p.Height = deref(height)
	p.Weight = deref(weight)
	p.School = deref(school)
	p.RookieSeason = deref(rookie)
	return &p, nil
}

// SearchPlayers finds players by case-insensitive name substring.
func (s *Store) SearchPlayers(ctx context.Context, name string) ([]Player, error) {
	return s.queryPlayers(ctx,
		"SELECT "+playerColumns+" FROM players WHERE player_name ILIKE '%' || $1 || '%' ORDER BY player_name",
		name)
}

func (s *Store) queryPlayers(ctx context.Context, sql string, args ...interface{}) ([]Player, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func scanPlayer(rows pgx.Rows) (Player, error) {
	var p Player
	var position, height, weight, school, rookie *string
	if err := rows.Scan(
		&p.PlayerID, &p.PlayerName, &position, &height,
		&weight, &p.BirthDate, &school, &rookie,
	); err != nil {
		return Player{}, fmt.Errorf("scan player: %w", err)
	}
	p.Position = deref(position)
	p.Height = deref(height)
	p.Weight = deref(weight)
	p.School = deref(school)
	p.RookieSeason = deref(rookie)
	return p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
