package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const teamColumns = "team_id, full_name, abbreviation, nickname, city, state, conference, year_founded, logo"

// TeamIDs loads all existing team primary keys.
func (s *Store) TeamIDs(ctx context.Context) (map[int]struct{}, error) {
	rows, err := s.pool.Query(ctx, "SELECT team_id FROM teams")
	if err != nil {
		return nil, fmt.Errorf("query team ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int]struct{})
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan team id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// InsertTeams inserts the given teams in one transaction, committed at the
// end.
func (s *Store) InsertTeams(ctx context.Context, teams []Team) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &PersistenceError{Op: "insert teams", Err: err}
	}
	defer tx.Rollback(ctx)

	for _, t := range teams {
		_, err := tx.Exec(ctx, `
			INSERT INTO teams (`+teamColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.TeamID, t.FullName, t.Abbreviation, t.Nickname, t.City,
			t.State, t.Conference, t.YearFounded, t.Logo,
		)
		if err != nil {
			return &PersistenceError{Op: fmt.Sprintf("insert team %d", t.TeamID), Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &PersistenceError{Op: "commit teams", Err: err}
	}
	return nil
}

// UpdateTeam overwrites every mutable field of an existing team row.
func (s *Store) UpdateTeam(ctx context.Context, t Team) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE teams SET
			full_name = $2,
			abbreviation = $3,
			nickname = $4,
			city = $5,
			state = $6,
			conference = $7,
			year_founded = $8,
			logo = $9
		WHERE team_id = $1`,
		t.TeamID, t.FullName, t.Abbreviation, t.Nickname, t.City,
		t.State, t.Conference, t.YearFounded, t.Logo,
	)
	if err != nil {
		return &PersistenceError{Op: fmt.Sprintf("update team %d", t.TeamID), Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllTeams removes every team row and returns the deleted count.
func (s *Store) DeleteAllTeams(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM teams")
	if err != nil {
		return 0, &PersistenceError{Op: "clear teams", Err: err}
	}
	return tag.RowsAffected(), nil
}

// ListTeams returns all teams ordered by name.
func (s *Store) ListTeams(ctx context.Context) ([]Team, error) {
	return s.queryTeams(ctx, "SELECT "+teamColumns+" FROM teams ORDER BY full_name")
}

// ListTeamsByConference returns all teams in one conference, ordered by name.
func (s *Store) ListTeamsByConference(ctx context.Context, conference string) ([]Team, error) {
	return s.queryTeams(ctx,
		"SELECT "+teamColumns+" FROM teams WHERE conference = $1 ORDER BY full_name",
		conference)
}

// GetTeamByAbbreviation returns one team, or ErrNotFound.
func (s *Store) GetTeamByAbbreviation(ctx context.Context, abbrev string) (*Team, error) {
	var t Team
	err := s.pool.QueryRow(ctx, "team_by_abbreviation", abbrev).Scan(
		&t.TeamID, &t.FullName, &t.Abbreviation, &t.Nickname, &t.City,
		&t.State, &t.Conference, &t.YearFounded, &t.Logo,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team %q: %w", abbrev, err)
	}
	return &t, nil
}

func (s *Store) queryTeams(ctx context.Context, sql string, args ...interface{}) ([]Team, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(
			&t.TeamID, &t.FullName, &t.Abbreviation, &t.Nickname, &t.City,
			&t.State, &t.Conference, &t.YearFounded, &t.Logo,
		); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}
