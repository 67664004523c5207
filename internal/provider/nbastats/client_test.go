package nbastats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	// High request rate keeps tests fast.
	return NewClient(srv.URL, srv.URL, 6000, nil), srv
}

func TestNewClientDefaultsPacingRate(t *testing.T) {
	// A zero or negative configured rate falls back to the default instead
	// of dividing by zero.
	for _, rpm := range []int{0, -5} {
		c := NewClient("", "", rpm, nil)
		require.NotNil(t, c.limiter)
		assert.Positive(t, float64(c.limiter.Limit()))
	}
}

func TestCareerTotals(t *testing.T) {
	var gotPath, gotReferer string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotReferer = r.Header.Get("Referer")
		assert.Equal(t, "2544", r.URL.Query().Get("PlayerID"))
		w.Write([]byte(`{
			"resultSets": [{
				"name": "SeasonTotalsRegularSeason",
				"headers": ["PLAYER_ID", "SEASON_ID", "TEAM_ID", "GP", "PTS"],
				"rowSet": [
					[2544, "2003-04", 1610612739, 79, 1654],
					[2544, "2019-20", 1610612747, 67, 2344]
				]
			}]
		}`))
	})

	rs, err := client.CareerTotals(context.Background(), 2544)
	require.NoError(t, err)
	assert.Equal(t, "/playercareerstats", gotPath)
	assert.Equal(t, "https://www.nba.com/", gotReferer)
	assert.Equal(t, "SeasonTotalsRegularSeason", rs.Name)
	require.Len(t, rs.Rows, 2)

	gp := rs.Int(rs.Rows[1], "GP")
	require.NotNil(t, gp)
	assert.Equal(t, 67, *gp)
}

func TestCareerTotalsServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.CareerTotals(context.Background(), 2544)
	var sourceErr *SourceUnavailableError
	require.ErrorAs(t, err, &sourceErr)
	assert.Equal(t, "/playercareerstats", sourceErr.Endpoint)
}

func TestCareerTotalsMissingResultSets(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultSets": []}`))
	})

	_, err := client.CareerTotals(context.Background(), 2544)
	var formatErr *SourceFormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestTeamRoster(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commonteamroster", r.URL.Path)
		assert.Equal(t, "1610612747", r.URL.Query().Get("TeamID"))
		assert.Equal(t, "2023-24", r.URL.Query().Get("Season"))
		w.Write([]byte(`{
			"resultSets": [{
				"name": "CommonTeamRoster",
				"headers": ["PLAYER_ID", "PLAYER", "POSITION", "EXP"],
				"rowSet": [[2544, "LeBron James", "F", "20"]]
			}]
		}`))
	})

	rs, err := client.TeamRoster(context.Background(), 1610612747, "2023-24")
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	assert.Equal(t, "LeBron James", rs.String(rs.Rows[0], "PLAYER"))
}

func TestStandingsRejectsInvalidConference(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.Standings(context.Background(), "2023-24", "Atlantic")
	var confErr *InvalidConferenceError
	require.ErrorAs(t, err, &confErr)
	assert.False(t, called, "invalid conference must fail before any network call")
}

func TestStandingsFiltersByConference(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/leaguestandingsv3", r.URL.Path)
		w.Write([]byte(`{
			"resultSets": [{
				"name": "Standings",
				"headers": ["TeamID", "TeamCity", "TeamName", "Conference", "WINS", "LOSSES", "PlayoffRank", "Record", "HOME", "ROAD", "L10"],
				"rowSet": [
					[1610612738, "Boston", "Celtics", "East", 64, 18, 1, "64-18", "37-4", "27-14", "8-2"],
					[1610612747, "Los Angeles", "Lakers", "West", 47, 35, 7, "47-35", "28-13", "19-22", "6-4"]
				]
			}]
		}`))
	})

	standings, err := client.Standings(context.Background(), "2023-24", ConferenceWest)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	assert.Equal(t, "Lakers", standings[0].TeamName)
	assert.Equal(t, 47, standings[0].Wins)
}

func TestStandingsMissingColumns(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"resultSets": [{
				"name": "Standings",
				"headers": ["TeamID", "TeamName"],
				"rowSet": [[1610612738, "Celtics"]]
			}]
		}`))
	})

	_, err := client.Standings(context.Background(), "2023-24", ConferenceOverall)
	var formatErr *SourceFormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestGetContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.CareerTotals(ctx, 2544)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
