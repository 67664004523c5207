package season

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBareYear(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1980", "1980-81"},
		{"1999", "1999-00"},
		{"2009", "2009-10"},
		{"2020", "2020-21"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeAllValidYears(t *testing.T) {
	for year := MinYear; year <= time.Now().Year(); year++ {
		got, err := Normalize(fmt.Sprintf("%d", year))
		require.NoError(t, err, "year %d should normalize", year)
		assert.Equal(t, fmt.Sprintf("%d-%02d", year, (year+1)%100), got)
	}
}

func TestNormalizeCanonicalPassThrough(t *testing.T) {
	got, err := Normalize("2019-20")
	require.NoError(t, err)
	assert.Equal(t, "2019-20", got)

	got, err = Normalize("1999-00")
	require.NoError(t, err)
	assert.Equal(t, "1999-00", got)
}

func TestNormalizeEmptyReturnsCurrent(t *testing.T) {
	got, err := Normalize("")
	require.NoError(t, err)
	assert.Equal(t, Current(), got)
}

func TestNormalizeRejectsOutOfRange(t *testing.T) {
	future := fmt.Sprintf("%d", time.Now().Year()+1)
	for _, input := range []string{"1979", "1875", future} {
		_, err := Normalize(input)
		require.Error(t, err, "input %q should be rejected", input)
		var invalid *InvalidSeasonError
		assert.True(t, errors.As(err, &invalid), "want InvalidSeasonError for %q", input)
	}
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	for _, input := range []string{"20", "20x0", "2020-2021", "2020-22", "abcd-ef", "2020/21"} {
		_, err := Normalize(input)
		var invalid *InvalidSeasonError
		require.True(t, errors.As(err, &invalid), "want InvalidSeasonError for %q, got %v", input, err)
	}
}

func TestFromYear(t *testing.T) {
	got, err := FromYear(2020)
	require.NoError(t, err)
	assert.Equal(t, "2020-21", got)

	_, err = FromYear(1979)
	var invalid *InvalidSeasonError
	assert.True(t, errors.As(err, &invalid))
}

func TestCurrentSeasonBoundary(t *testing.T) {
	// September is still the previous season; October starts a new one.
	sep := time.Date(2024, time.September, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023-24", currentAt(sep))

	oct := time.Date(2024, time.October, 22, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-25", currentAt(oct))

	jan := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-25", currentAt(jan))
}
