package scores

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonOf(t *testing.T) {
	testData := map[string]struct {
		forecastDate time.Time
		expected     string
	}{
		"mid first season": {
			time.Date(2022, 7, 15, 0, 0, 0, 0, time.UTC),
			SeasonBeforeCutoff,
		},
		"day before cutoff": {
			time.Date(2022, 7, 31, 0, 0, 0, 0, time.UTC),
			SeasonBeforeCutoff,
		},
		"on cutoff": {
			time.Date(2022, 8, 1, 0, 0, 0, 0, time.UTC),
			SeasonAfterCutoff,
		},
		"second season": {
			time.Date(2022, 9, 1, 0, 0, 0, 0, time.UTC),
			SeasonAfterCutoff,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, SeasonOf(td.forecastDate))
		})
	}
}

func TestForecastWeek(t *testing.T) {
	testData := map[string]struct {
		forecastDate time.Time
		expected     time.Time
	}{
		"monday is identity": {
			time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC),
			time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		"tuesday collapses to monday": {
			time.Date(2022, 1, 4, 0, 0, 0, 0, time.UTC),
			time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		"sunday collapses to prior monday": {
			time.Date(2022, 1, 9, 0, 0, 0, 0, time.UTC),
			time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		"time of day dropped": {
			time.Date(2022, 1, 5, 13, 30, 0, 0, time.UTC),
			time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, ForecastWeek(td.forecastDate))
		})
	}
}

func TestRowValid(t *testing.T) {
	valid := Row{
		Model:        "ensemble",
		ForecastDate: time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC),
		Horizon:      1,
		Location:     "US",
		WIS:          12.5,
		AbsError:     30.0,
		Coverage50:   0.5,
		Coverage95:   0.9,
	}

	testData := map[string]struct {
		mutate func(r *Row)
		err    error
	}{
		"valid": {
			mutate: func(r *Row) {},
		},
		"no model": {
			mutate: func(r *Row) { r.Model = "" },
			err:    ErrNoModel,
		},
		"no forecast date": {
			mutate: func(r *Row) { r.ForecastDate = time.Time{} },
			err:    ErrNoForecastDate,
		},
		"negative horizon": {
			mutate: func(r *Row) { r.Horizon = -1 },
			err:    ErrNegativeHorizon,
		},
		"negative wis": {
			mutate: func(r *Row) { r.WIS = -0.1 },
			err:    ErrNegativeScore,
		},
		"negative abs error": {
			mutate: func(r *Row) { r.AbsError = -3 },
			err:    ErrNegativeScore,
		},
		"coverage above one": {
			mutate: func(r *Row) { r.Coverage50 = 1.2 },
			err:    ErrCoverageBounds,
		},
		"coverage below zero": {
			mutate: func(r *Row) { r.Coverage95 = -0.2 },
			err:    ErrCoverageBounds,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			r := valid
			td.mutate(&r)
			err := r.Valid()
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
		})
	}
}
