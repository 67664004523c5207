// Package season handles canonical NBA season strings ("YYYY-YY").
//
// A season is identified by its start year: the 2020-21 season started in
// October 2020. Seasons before 1980 are not supported.
package season

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinYear is the earliest supported season start year.
const MinYear = 1980

// seasonStartMonth is the month a new NBA season begins.
const seasonStartMonth = time.October

// InvalidSeasonError indicates a season token that is malformed or outside
// the supported year range.
type InvalidSeasonError struct {
	Input  string
	Reason string
}

func (e *InvalidSeasonError) Error() string {
	return fmt.Sprintf("invalid season %q: %s", e.Input, e.Reason)
}

// Format renders a season start year as "YYYY-YY".
func Format(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// Current returns the season currently in progress. Before October the
// season that started the previous calendar year is still running.
func Current() string {
	return currentAt(time.Now())
}

func currentAt(now time.Time) string {
	year := now.Year()
	if now.Month() < seasonStartMonth {
		year--
	}
	return Format(year)
}

// FromYear converts a bare start year into canonical form, validating the
// [MinYear, current year] range.
func FromYear(year int) (string, error) {
	if err := checkYear(year, strconv.Itoa(year)); err != nil {
		return "", err
	}
	return Format(year), nil
}

// Normalize converts a season token into canonical "YYYY-YY" form.
//
// Accepted inputs: empty (the current season), a bare 4-digit year, or an
// already-canonical "YYYY-YY" string. Anything else fails with
// *InvalidSeasonError.
func Normalize(s string) (string, error) {
	if s == "" {
		return Current(), nil
	}

	if strings.Contains(s, "-") {
		if len(s) != 7 || s[4] != '-' {
			return "", &InvalidSeasonError{Input: s, Reason: "expected 'YYYY-YY' or 'YYYY' format"}
		}
		year, err := strconv.Atoi(s[:4])
		if err != nil {
			return "", &InvalidSeasonError{Input: s, Reason: "expected 'YYYY-YY' or 'YYYY' format"}
		}
		if err := checkYear(year, s); err != nil {
			return "", err
		}
		if s != Format(year) {
			return "", &InvalidSeasonError{Input: s, Reason: "end year does not follow start year"}
		}
		return s, nil
	}

	if len(s) != 4 {
		return "", &InvalidSeasonError{Input: s, Reason: "expected 'YYYY-YY' or 'YYYY' format"}
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return "", &InvalidSeasonError{Input: s, Reason: "expected 'YYYY-YY' or 'YYYY' format"}
	}
	if err := checkYear(year, s); err != nil {
		return "", err
	}
	return Format(year), nil
}

func checkYear(year int, input string) error {
	maxYear := time.Now().Year()
	if year < MinYear || year > maxYear {
		return &InvalidSeasonError{
			Input:  input,
			Reason: fmt.Sprintf("year must be between %d and %d", MinYear, maxYear),
		}
	}
	return nil
}
