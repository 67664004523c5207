package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Conference filter values accepted by Standings.
const (
	ConferenceOverall = "Overall"
	ConferenceEast    = "East"
	ConferenceWest    = "West"
)

// ValidateConference checks a standings conference filter.
func ValidateConference(conference string) error {
	switch conference {
	case ConferenceOverall, ConferenceEast, ConferenceWest:
		return nil
	default:
		return &InvalidConferenceError{Conference: conference}
	}
}

// Standing is one team's row in the league standings.
type Standing struct {
	TeamID      int    `json:"team_id"`
	TeamCity    string `json:"team_city"`
	TeamName    string `json:"team_name"`
	Conference  string `json:"conference"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	PlayoffRank int    `json:"playoff_rank"`
	Record      string `json:"record"`
	Home        string `json:"home"`
	Road        string `json:"road"`
	LastTen     string `json:"last_ten"`
}

// Standings fetches league standings for a season, optionally filtered to
// one conference. An invalid conference fails before any network call.
func (c *Client) Standings(ctx context.Context, seasonStr, conference string) ([]Standing, error) {
	if err := ValidateConference(conference); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", seasonStr)
	params.Set("SeasonType", "Regular Season")

	sets, err := c.getResultSets(ctx, "/leaguestandingsv3", params)
	if err != nil {
		return nil, err
	}
	rs := resultSetByName(sets, "Standings")

	for _, col := range []string{"TeamID", "TeamName", "Conference", "WINS", "LOSSES"} {
		if rs.Column(col) < 0 {
			return nil, &SourceFormatError{
				Endpoint: "/leaguestandingsv3",
				Reason:   fmt.Sprintf("missing column %s", col),
			}
		}
	}

	standings := make([]Standing, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		s := Standing{
			TeamCity:   rs.String(row, "TeamCity"),
			TeamName:   rs.String(row, "TeamName"),
			Conference: rs.String(row, "Conference"),
			Record:     rs.String(row, "Record"),
			Home:       rs.String(row, "HOME"),
			Road:       rs.String(row, "ROAD"),
			LastTen:    rs.String(row, "L10"),
		}
		if v := rs.Int(row, "TeamID"); v != nil {
			s.TeamID = *v
		}
		if v := rs.Int(row, "WINS"); v != nil {
			s.Wins = *v
		}
		if v := rs.Int(row, "LOSSES"); v != nil {
			s.Losses = *v
		}
		if v := rs.Int(row, "PlayoffRank"); v != nil {
			s.PlayoffRank = *v
		}
		if conference != ConferenceOverall && s.Conference != conference {
			continue
		}
		standings = append(standings, s)
	}
	return standings, nil
}

// ScoreboardGame is one game from the live scoreboard feed.
type ScoreboardGame struct {
	GameID      string         `json:"game_id"`
	GameStatus  string         `json:"game_status"`
	GameTimeUTC string         `json:"game_time_utc"`
	HomeTeam    ScoreboardTeam `json:"home_team"`
	AwayTeam    ScoreboardTeam `json:"away_team"`
}

// ScoreboardTeam is one side of a live scoreboard game.
type ScoreboardTeam struct {
	TeamID      int    `json:"team_id"`
	TeamName    string `json:"team_name"`
	TeamTricode string `json:"team_tricode"`
	Score       int    `json:"score"`
}

// TodaysGames fetches today's games from the live scoreboard feed.
func (c *Client) TodaysGames(ctx context.Context) ([]ScoreboardGame, error) {
	const path = "/scoreboard/todaysScoreboard_00.json"
	body, err := c.get(ctx, c.liveBaseURL, path, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Scoreboard struct {
			GameDate string `json:"gameDate"`
			Games    []struct {
				GameID         string `json:"gameId"`
				GameStatusText string `json:"gameStatusText"`
				GameTimeUTC    string `json:"gameTimeUTC"`
				HomeTeam       struct {
					TeamID      int    `json:"teamId"`
					TeamName    string `json:"teamName"`
					TeamTricode string `json:"teamTricode"`
					Score       int    `json:"score"`
				} `json:"homeTeam"`
				AwayTeam struct {
					TeamID      int    `json:"teamId"`
					TeamName    string `json:"teamName"`
					TeamTricode string `json:"teamTricode"`
					Score       int    `json:"score"`
				} `json:"awayTeam"`
			} `json:"games"`
		} `json:"scoreboard"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &SourceFormatError{Endpoint: path, Reason: fmt.Sprintf("decode response: %v", err)}
	}

	games := make([]ScoreboardGame, 0, len(envelope.Scoreboard.Games))
	for _, g := range envelope.Scoreboard.Games {
		games = append(games, ScoreboardGame{
			GameID:      g.GameID,
			GameStatus:  g.GameStatusText,
			GameTimeUTC: g.GameTimeUTC,
			HomeTeam: ScoreboardTeam{
				TeamID:      g.HomeTeam.TeamID,
				TeamName:    g.HomeTeam.TeamName,
				TeamTricode: g.HomeTeam.TeamTricode,
				Score:       g.HomeTeam.Score,
			},
			AwayTeam: ScoreboardTeam{
				TeamID:      g.AwayTeam.TeamID,
				TeamName:    g.AwayTeam.TeamName,
				TeamTricode: g.AwayTeam.TeamTricode,
				Score:       g.AwayTeam.Score,
			},
		})
	}
	return games, nil
}
