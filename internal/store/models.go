// Package store provides pgx-backed repositories for the relational schema:
// teams, players, player-team-season associations, and per-season regular
// season stats.
package store

import "time"

// Team is one franchise row. team_id is the provider's stable identifier.
type Team struct {
	TeamID       int     `json:"team_id"`
	FullName     string  `json:"full_name"`
	Abbreviation string  `json:"abbreviation"`
	Nickname     string  `json:"nickname"`
	City         string  `json:"city"`
	State        *string `json:"state,omitempty"`
	Conference   string  `json:"conference"`
	YearFounded  *int    `json:"year_founded,omitempty"`
	Logo         *string `json:"logo,omitempty"`
}

// Player is one player row. Height and weight are free-text as delivered by
// the provider. RookieSeason is a canonical season string, derived once at
// insert time and immutable thereafter.
type Player struct {
	PlayerID     int        `json:"player_id"`
	PlayerName   string     `json:"player_name"`
	Position     string     `json:"position,omitempty"`
	Height       string     `json:"height,omitempty"`
	Weight       string     `json:"weight,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	School       string     `json:"school,omitempty"`
	RookieSeason string     `json:"rookie_season,omitempty"`
}

// Association links a player to a team for one season.
type Association struct {
	PlayersTeamsID int    `json:"players_teams_id"`
	PlayerID       int    `json:"player_id"`
	TeamID         int    `json:"team_id"`
	Season         string `json:"season"`
}

// AssociationKey is the natural key of an association, used for in-memory
// existence checks.
type AssociationKey struct {
	PlayerID int
	TeamID   int
	Season   string
}

// PendingAssociation is an association that has no stats row yet, joined
// with the player and team names used in progress logs.
type PendingAssociation struct {
	PlayersTeamsID   int
	PlayerID         int
	TeamID           int
	Season           string
	PlayerName       string
	TeamAbbreviation string
}

// RegularSeasonStats holds one season's counting-stat totals for an
// association. All stat columns are nullable; the provider omits columns
// for some historical seasons.
type RegularSeasonStats struct {
	StatsID                 int  `json:"stats_id"`
	PlayersTeamsID          int  `json:"players_teams_id"`
	GamesPlayed             *int `json:"games_played"`
	GamesStarted            *int `json:"games_started"`
	TotalMinutes            *int `json:"total_minutes"`
	TotalFieldGoalsMade     *int `json:"total_field_goals_made"`
	TotalFieldGoalsAttempt  *int `json:"total_field_goals_attempt"`
	TotalThreesGoalsMade    *int `json:"total_threes_goals_made"`
	TotalThreesGoalsAttempt *int `json:"total_threes_goals_attempt"`
	TotalFreeThrowsMade     *int `json:"total_free_throws_made"`
	TotalFreeThrowsAttempt  *int `json:"total_free_throws_attempt"`
	TotalOffensiveRebounds  *int `json:"total_offensive_rebounds"`
	TotalDefensiveRebounds  *int `json:"total_defensive_rebounds"`
	TotalRebounds           *int `json:"total_rebounds"`
	TotalAssists            *int `json:"total_assists"`
	TotalSteals             *int `json:"total_steals"`
	TotalBlocks             *int `json:"total_blocks"`
	TotalTurnovers          *int `json:"total_turnovers"`
	TotalPersonalFouls      *int `json:"total_personal_fouls"`
	TotalPoints             *int `json:"total_points"`
}

// AssociationTableStats summarizes the association table.
type AssociationTableStats struct {
	Total   int `json:"total_associations"`
	Players int `json:"unique_players"`
	Teams   int `json:"unique_teams"`
	Seasons int `json:"unique_seasons"`
}
