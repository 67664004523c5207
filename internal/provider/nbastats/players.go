package nbastats

import (
	"context"
	"net/url"
	"strconv"
)

// CareerTotals fetches a player's per-season regular season totals
// (the SeasonTotalsRegularSeason result set). One row per (season, team);
// the TEAM_ID column is 0 on league-aggregate rows for multi-team seasons.
func (c *Client) CareerTotals(ctx context.Context, playerID int) (*ResultSet, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.Itoa(playerID))
	params.Set("PerMode", "Totals")
	params.Set("LeagueID", "00")

	sets, err := c.getResultSets(ctx, "/playercareerstats", params)
	if err != nil {
		return nil, err
	}
	return resultSetByName(sets, "SeasonTotalsRegularSeason"), nil
}

// TeamRoster fetches a team's roster for one season (the CommonTeamRoster
// result set).
func (c *Client) TeamRoster(ctx context.Context, teamID int, season string) (*ResultSet, error) {
	params := url.Values{}
	params.Set("TeamID", strconv.Itoa(teamID))
	params.Set("Season", season)
	params.Set("LeagueID", "00")

	sets, err := c.getResultSets(ctx, "/commonteamroster", params)
	if err != nil {
		return nil, err
	}
	return resultSetByName(sets, "CommonTeamRoster"), nil
}
