package populate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbstats/nbstats-data/internal/provider/nbastats"
	"github.com/nbstats/nbstats-data/internal/season"
	"github.com/nbstats/nbstats-data/internal/store"
)

type fakeRosterSource struct {
	fakeCareerSource
	roster     *nbastats.ResultSet
	gotTeamID  int
	gotSeason  string
	rosterErrs error
}

func (f *fakeRosterSource) TeamRoster(ctx context.Context, teamID int, seasonStr string) (*nbastats.ResultSet, error) {
	f.gotTeamID = teamID
	f.gotSeason = seasonStr
	if f.rosterErrs != nil {
		return nil, f.rosterErrs
	}
	return f.roster, nil
}

type fakePlayerStore struct {
	players map[int]store.Player
}

func (f *fakePlayerStore) InsertPlayer(ctx context.Context, p store.Player) (bool, error) {
	if f.players == nil {
		f.players = make(map[int]store.Player)
	}
	if _, ok := f.players[p.PlayerID]; ok {
		return false, nil
	}
	f.players[p.PlayerID] = p
	return true, nil
}

func rosterSet(rows ...[]interface{}) *nbastats.ResultSet {
	return &nbastats.ResultSet{
		Name:    "CommonTeamRoster",
		Headers: []string{"PLAYER_ID", "PLAYER", "POSITION", "HEIGHT", "WEIGHT", "BIRTH_DATE", "SCHOOL", "EXP"},
		Rows:    rows,
	}
}

func TestPlayersRun(t *testing.T) {
	source := &fakeRosterSource{
		roster: rosterSet(
			[]interface{}{float64(2544), "LeBron James", "F", "6-9", "250", "DEC 30, 1984", "St. Vincent-St. Mary HS (OH)", "20"},
		),
	}
	source.careers = map[int]*nbastats.ResultSet{
		2544: careerRows(
			[]interface{}{float64(2544), "2003-04", float64(1610612739), float64(79), float64(1654)},
		),
	}
	st := &fakePlayerStore{}

	job := &Players{Source: source, Store: st, Logger: testLogger}
	result, err := job.Run(context.Background(), "LAL", "2023-24")
	require.NoError(t, err)

	assert.Equal(t, 1610612747, source.gotTeamID)
	assert.Equal(t, "2023-24", source.gotSeason)
	assert.Equal(t, 1, result.Added)

	player := st.players[2544]
	assert.Equal(t, "LeBron James", player.PlayerName)
	assert.Equal(t, "2003-04", player.RookieSeason, "veteran rookie season comes from career history")
	require.NotNil(t, player.BirthDate)
	assert.Equal(t, time.Date(1984, time.December, 30, 0, 0, 0, 0, time.UTC), *player.BirthDate)
}

func TestPlayersRunRookieGetsCurrentSeason(t *testing.T) {
	source := &fakeRosterSource{
		roster: rosterSet(
			[]interface{}{float64(1642355), "Rookie Guy", "G", "6-4", "200", "JUN 1, 2004", "Duke", "R"},
		),
	}
	st := &fakePlayerStore{}

	job := &Players{Source: source, Store: st, Logger: testLogger}
	result, err := job.Run(context.Background(), "BOS", "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Added)
	assert.Equal(t, season.Current(), st.players[1642355].RookieSeason)
	assert.Empty(t, source.calls, "rookies never need a career lookup")
}

func TestPlayersRunSkipsExisting(t *testing.T) {
	source := &fakeRosterSource{
		roster: rosterSet(
			[]interface{}{float64(2544), "LeBron James", "F", "6-9", "250", "DEC 30, 1984", "", "20"},
		),
	}
	source.careers = map[int]*nbastats.ResultSet{
		2544: careerRows(
			[]interface{}{float64(2544), "2003-04", float64(1610612739), float64(79), float64(1654)},
		),
	}
	st := &fakePlayerStore{players: map[int]store.Player{2544: {PlayerID: 2544}}}

	job := &Players{Source: source, Store: st, Logger: testLogger}
	result, err := job.Run(context.Background(), "LAL", "2023-24")
	require.NoError(t, err)

	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 1, result.Skipped)
}

func TestPlayersRunUnknownTeam(t *testing.T) {
	job := &Players{Source: &fakeRosterSource{}, Store: &fakePlayerStore{}, Logger: testLogger}
	_, err := job.Run(context.Background(), "XXX", "2023-24")
	require.Error(t, err)
}

func TestPlayersRunBadSeason(t *testing.T) {
	job := &Players{Source: &fakeRosterSource{}, Store: &fakePlayerStore{}, Logger: testLogger}
	_, err := job.Run(context.Background(), "LAL", "20x3")
	var seasonErr *season.InvalidSeasonError
	require.ErrorAs(t, err, &seasonErr)
}

func TestParseBirthDate(t *testing.T) {
	tests := []struct {
		raw  string
		want *time.Time
	}{
		{"JUL 29, 1994", timePtr(time.Date(1994, time.July, 29, 0, 0, 0, 0, time.UTC))},
		{"Dec 30, 1984", timePtr(time.Date(1984, time.December, 30, 0, 0, 0, 0, time.UTC))},
		{"1994-07-29T00:00:00", timePtr(time.Date(1994, time.July, 29, 0, 0, 0, 0, time.UTC))},
		{"1994-07-29", timePtr(time.Date(1994, time.July, 29, 0, 0, 0, 0, time.UTC))},
		{"", nil},
		{"not a date", nil},
	}
	for _, tt := range tests {
		got := parseBirthDate(tt.raw)
		if tt.want == nil {
			assert.Nil(t, got, tt.raw)
			continue
		}
		require.NotNil(t, got, tt.raw)
		assert.True(t, got.Equal(*tt.want), tt.raw)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
