package populate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbstats/nbstats-data/internal/provider/nbastats"
	"github.com/nbstats/nbstats-data/internal/season"
	"github.com/nbstats/nbstats-data/internal/store"
)

type fakeStatsStore struct {
	pending        []store.PendingAssociation
	gotExclude     string
	inserted       []*store.RegularSeasonStats
	failInsertions bool
}

func (f *fakeStatsStore) PendingStats(ctx context.Context, excludeSeason string) ([]store.PendingAssociation, error) {
	f.gotExclude = excludeSeason
	return f.pending, nil
}

func (f *fakeStatsStore) InsertSeasonStats(ctx context.Context, st *store.RegularSeasonStats) error {
	if f.failInsertions {
		return &store.PersistenceError{Op: "insert stats", Err: errors.New("boom")}
	}
	f.inserted = append(f.inserted, st)
	return nil
}

func fastStatsOptions() StatsOptions {
	return StatsOptions{MaxAttempts: 3, RetryBaseDelay: time.Millisecond}
}

func TestStatsRun(t *testing.T) {
	source := &fakeCareerSource{
		careers: map[int]*nbastats.ResultSet{
			2544: {
				Name: "SeasonTotalsRegularSeason",
				Headers: []string{
					"PLAYER_ID", "SEASON_ID", "TEAM_ID", "GP", "GS", "MIN",
					"FGM", "FGA", "FG3M", "FG3A", "FTM", "FTA",
					"OREB", "DREB", "REB", "AST", "STL", "BLK", "TOV", "PF", "PTS",
				},
				Rows: [][]interface{}{
					{
						float64(2544), "2019-20", float64(1610612747), float64(67), float64(67), float64(2316),
						float64(643), float64(1303), float64(148), float64(425), float64(264), float64(381),
						float64(66), float64(459), float64(525), float64(684), float64(78), float64(36),
						float64(261), float64(118), float64(2344),
					},
				},
			},
		},
	}
	st := &fakeStatsStore{
		pending: []store.PendingAssociation{
			{PlayersTeamsID: 7, PlayerID: 2544, TeamID: 1610612747, Season: "2019-20", PlayerName: "LeBron James", TeamAbbreviation: "LAL"},
		},
	}

	job := &Stats{Source: source, Store: st, Logger: testLogger, Opts: fastStatsOptions()}
	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, season.Current(), st.gotExclude, "current season totals are still moving")
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Errors)

	require.Len(t, st.inserted, 1)
	row := st.inserted[0]
	assert.Equal(t, 7, row.PlayersTeamsID)
	require.NotNil(t, row.GamesPlayed)
	assert.Equal(t, 67, *row.GamesPlayed)
	require.NotNil(t, row.TotalPoints)
	assert.Equal(t, 2344, *row.TotalPoints)
	require.NotNil(t, row.TotalRebounds)
	assert.Equal(t, 525, *row.TotalRebounds)
}

func TestStatsRunSkipsAssociationsWithoutCareerRow(t *testing.T) {
	source := &fakeCareerSource{
		careers: map[int]*nbastats.ResultSet{
			2544: careerRows(
				[]interface{}{float64(2544), "2003-04", float64(1610612739), float64(79), float64(1654)},
			),
		},
	}
	st := &fakeStatsStore{
		pending: []store.PendingAssociation{
			// Season not present in the career history.
			{PlayersTeamsID: 9, PlayerID: 2544, TeamID: 1610612739, Season: "2004-05"},
		},
	}

	job := &Stats{Source: source, Store: st, Logger: testLogger, Opts: fastStatsOptions()}
	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, st.inserted)
}

func TestStatsRunRetriesTransientFailures(t *testing.T) {
	source := &flakyCareerSource{
		failures: 2,
		career: careerRows(
			[]interface{}{float64(2544), "2003-04", float64(1610612739), float64(79), float64(1654)},
		),
	}
	st := &fakeStatsStore{
		pending: []store.PendingAssociation{
			{PlayersTeamsID: 3, PlayerID: 2544, TeamID: 1610612739, Season: "2003-04"},
		},
	}

	job := &Stats{Source: source, Store: st, Logger: testLogger, Opts: fastStatsOptions()}
	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, source.calls, "two failures then one success")
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Errors)
}

func TestStatsRunGivesUpAfterMaxAttempts(t *testing.T) {
	source := &flakyCareerSource{failures: 10}
	st := &fakeStatsStore{
		pending: []store.PendingAssociation{
			{PlayersTeamsID: 3, PlayerID: 2544, TeamID: 1610612739, Season: "2003-04"},
		},
	}

	job := &Stats{Source: source, Store: st, Logger: testLogger, Opts: fastStatsOptions()}
	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, source.calls)
	assert.Equal(t, 1, result.Errors)
	assert.Empty(t, st.inserted)
}

func TestStatsRunDoesNotRetryFormatErrors(t *testing.T) {
	source := &fakeCareerSource{
		errs: map[int]error{
			2544: &nbastats.SourceFormatError{Endpoint: "/playercareerstats", Reason: "no resultSets in response"},
		},
	}
	st := &fakeStatsStore{
		pending: []store.PendingAssociation{
			{PlayersTeamsID: 3, PlayerID: 2544, TeamID: 1610612739, Season: "2003-04"},
		},
	}

	job := &Stats{Source: source, Store: st, Logger: testLogger, Opts: fastStatsOptions()}
	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls[2544], "malformed payloads are not retried")
	assert.Equal(t, 1, result.Errors)
}

func TestStatsRunDryRun(t *testing.T) {
	source := &fakeCareerSource{
		careers: map[int]*nbastats.ResultSet{
			2544: careerRows(
				[]interface{}{float64(2544), "2003-04", float64(1610612739), float64(79), float64(1654)},
			),
		},
	}
	st := &fakeStatsStore{
		pending: []store.PendingAssociation{
			{PlayersTeamsID: 3, PlayerID: 2544, TeamID: 1610612739, Season: "2003-04"},
		},
	}

	opts := fastStatsOptions()
	opts.DryRun = true
	job := &Stats{Source: source, Store: st, Logger: testLogger, Opts: opts}
	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Empty(t, st.inserted, "dry run writes nothing")
}

func TestStatsRunLimit(t *testing.T) {
	source := &fakeCareerSource{
		careers: map[int]*nbastats.ResultSet{
			2544: careerRows(
				[]interface{}{float64(2544), "2003-04", float64(1610612739), float64(79), float64(1654)},
				[]interface{}{float64(2544), "2004-05", float64(1610612739), float64(80), float64(2175)},
			),
		},
	}
	st := &fakeStatsStore{
		pending: []store.PendingAssociation{
			{PlayersTeamsID: 1, PlayerID: 2544, TeamID: 1610612739, Season: "2003-04"},
			{PlayersTeamsID: 2, PlayerID: 2544, TeamID: 1610612739, Season: "2004-05"},
		},
	}

	opts := fastStatsOptions()
	opts.Limit = 1
	job := &Stats{Source: source, Store: st, Logger: testLogger, Opts: opts}
	result, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	require.Len(t, st.inserted, 1)
	assert.Equal(t, 1, st.inserted[0].PlayersTeamsID)
}

// flakyCareerSource fails the first N calls, then succeeds.
type flakyCareerSource struct {
	failures int
	calls    int
	career   *nbastats.ResultSet
}

func (f *flakyCareerSource) CareerTotals(ctx context.Context, playerID int) (*nbastats.ResultSet, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, &nbastats.SourceUnavailableError{Endpoint: "/playercareerstats", Err: errors.New("timeout")}
	}
	return f.career, nil
}
