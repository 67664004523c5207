package store

import (
	"context"
	"fmt"
)

// PendingStats returns all associations that have no stats row yet,
// excluding the given season. The current season is always passed here:
// its totals are still accumulating.
func (s *Store) PendingStats(ctx context.Context, excludeSeason string) ([]PendingAssociation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.players_teams_id, a.player_id, a.team_id, a.season,
		       p.player_name, t.abbreviation
		FROM player_teams_association a
		JOIN players p ON p.player_id = a.player_id
		JOIN teams t ON t.team_id = a.team_id
		WHERE a.season != $1
		  AND NOT EXISTS (
			SELECT 1 FROM regular_season_stats rs
			WHERE rs.players_teams_id = a.players_teams_id
		  )
		ORDER BY a.players_teams_id`, excludeSeason)
	if err != nil {
		return nil, fmt.Errorf("query pending stats: %w", err)
	}
	defer rows.Close()

	var pending []PendingAssociation
	for rows.Next() {
		var pa PendingAssociation
		if err := rows.Scan(
			&pa.PlayersTeamsID, &pa.PlayerID, &pa.TeamID, &pa.Season,
			&pa.PlayerName, &pa.TeamAbbreviation,
		); err != nil {
			return nil, fmt.Errorf("scan pending association: %w", err)
		}
		pending = append(pending, pa)
	}
	return pending, rows.Err()
}

// InsertSeasonStats writes one stats row in its own transaction, committed
// immediately. Any failure rolls the row back and surfaces as a
// PersistenceError; the caller aborts this association only.
func (s *Store) InsertSeasonStats(ctx context.Context, st *RegularSeasonStats) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &PersistenceError{Op: "begin stats insert", Err: err}
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO regular_season_stats (
			players_teams_id, games_played, games_started, total_minutes,
			total_field_goals_made, total_field_goals_attempt,
			total_threes_goals_made, total_threes_goals_attempt,
			total_free_throws_made, total_free_throws_attempt,
			total_offensive_rebounds, total_defensive_rebounds, total_rebounds,
			total_assists, total_steals, total_blocks, total_turnovers,
			total_personal_fouls, total_points
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		st.PlayersTeamsID, st.GamesPlayed, st.GamesStarted, st.TotalMinutes,
		st.TotalFieldGoalsMade, st.TotalFieldGoalsAttempt,
		st.TotalThreesGoalsMade, st.TotalThreesGoalsAttempt,
		st.TotalFreeThrowsMade, st.TotalFreeThrowsAttempt,
		st.TotalOffensiveRebounds, st.TotalDefensiveRebounds, st.TotalRebounds,
		st.TotalAssists, st.TotalSteals, st.TotalBlocks, st.TotalTurnovers,
		st.TotalPersonalFouls, st.TotalPoints,
	)
	if err != nil {
		return &PersistenceError{
			Op:  fmt.Sprintf("insert stats for association %d", st.PlayersTeamsID),
			Err: err,
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &PersistenceError{
			Op:  fmt.Sprintf("commit stats for association %d", st.PlayersTeamsID),
			Err: err,
		}
	}
	return nil
}
