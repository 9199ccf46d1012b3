// Package scores defines the per-forecast score table consumed by the
// evaluation pipeline. One Row is produced externally for every
// model/forecast-date/location/horizon combination that was scored against
// ground truth.
package scores

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoModel         = errors.New("row has no model name")
	ErrNoForecastDate  = errors.New("row has no forecast date")
	ErrNegativeScore   = errors.New("score value is negative")
	ErrCoverageBounds  = errors.New("coverage value is outside [0, 1]")
	ErrNegativeHorizon = errors.New("forecast horizon is negative")
)

// SeasonCutoff splits the two flu seasons covered by the evaluation. Forecast
// dates strictly before the cutoff belong to the 2021-2022 season, everything
// on or after to 2022-2023. This is a hardcoded two-season rule, not a general
// season calendar, and is shared with the coverage truth-rescale in plotting.
var SeasonCutoff = time.Date(2022, 8, 1, 0, 0, 0, 0, time.UTC)

const (
	SeasonBeforeCutoff = "2021-2022"
	SeasonAfterCutoff  = "2022-2023"
)

// Row is one scored forecast. Values are treated as immutable input; the
// aggregator never writes back into a Row. Season may be left empty and is
// derived from ForecastDate when needed.
type Row struct {
	Model        string
	ForecastDate time.Time
	Horizon      int
	Location     string
	WIS          float64
	AbsError     float64
	Coverage50   float64
	Coverage95   float64
	Season       string
}

func (r *Row) Valid() error {
	if r.Model == "" {
		return ErrNoModel
	}
	if r.ForecastDate.IsZero() {
		return ErrNoForecastDate
	}
	if r.Horizon < 0 {
		return ErrNegativeHorizon
	}
	if r.WIS < 0 {
		return fmt.Errorf("wis %f, %w", r.WIS, ErrNegativeScore)
	}
	if r.AbsError < 0 {
		return fmt.Errorf("abs_error %f, %w", r.AbsError, ErrNegativeScore)
	}
	if r.Coverage50 < 0 || r.Coverage50 > 1 {
		return fmt.Errorf("coverage_50 %f, %w", r.Coverage50, ErrCoverageBounds)
	}
	if r.Coverage95 < 0 || r.Coverage95 > 1 {
		return fmt.Errorf("coverage_95 %f, %w", r.Coverage95, ErrCoverageBounds)
	}
	return nil
}

// SeasonOf labels a forecast date with its flu season using SeasonCutoff.
func SeasonOf(forecastDate time.Time) string {
	if forecastDate.Before(SeasonCutoff) {
		return SeasonBeforeCutoff
	}
	return SeasonAfterCutoff
}

// ForecastWeek truncates a forecast date to the Monday of its week. Hub
// submission dates are Mondays already so this is usually the identity, but
// off-cycle submissions collapse onto the same weekly bucket.
func ForecastWeek(forecastDate time.Time) time.Time {
	d := time.Date(forecastDate.Year(), forecastDate.Month(), forecastDate.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
