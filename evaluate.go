// Package hubeval evaluates ensemble forecast submissions against a baseline
// model. It aggregates externally computed per-forecast scores into grouped,
// baseline-relative summary tables and composes the comparison charts used in
// the accompanying manuscript.
package hubeval

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/epiforecast/hubeval/scores"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoScores         = errors.New("no score rows to aggregate")
	ErrBaselineNotFound = errors.New("baseline model not present in score rows")
)

// SummaryDecimals is the fixed rounding applied to every numeric column of
// the aggregated output.
const SummaryDecimals = 3

// SummaryRow is one aggregated score group. Grouping columns that were not
// requested stay at their zero value. RelWIS and RelMAE are ratios against
// the baseline model's mean over the same partition.
type SummaryRow struct {
	Model        string
	Season       string
	Horizon      int
	ForecastWeek time.Time
	Location     string

	WIS    float64
	MAE    float64
	Cov50  float64
	Cov95  float64
	RelWIS Relative
	RelMAE Relative
}

// Summary is the aggregated score table along with the grouping that
// produced it. Rows are sorted ascending by WIS within each group-key
// partition, partitions ordered by the grouping dimensions in request order.
type Summary struct {
	GroupBy  []scores.Dimension
	Baseline string
	Rows     []SummaryRow
}

// groupKey identifies one partition of the score table. Only fields for
// active dimensions are populated so the zero key doubles as the single
// partition of an empty grouping.
type groupKey struct {
	season   string
	horizon  int
	week     int64 // unix day of the forecast week Monday
	location string
}

type groupAcc struct {
	model string
	key   groupKey
	week  time.Time

	wis []float64
	mae []float64
	c50 []float64
	c95 []float64
}

func (g *groupAcc) observe(r *scores.Row) {
	g.wis = append(g.wis, r.WIS)
	g.mae = append(g.mae, r.AbsError)
	g.c50 = append(g.c50, r.Coverage50)
	g.c95 = append(g.c95, r.Coverage95)
}

// Aggregate groups the score rows by model plus the requested dimensions and
// summarizes each group with mean WIS, MAE, and coverage, attaching skill
// ratios relative to the same partition of the baseline model.
//
// When location is not a grouping dimension the rows are first normalized to
// a single location scope: national ("US") rows only when usOnly is set,
// non-national rows otherwise. Season labels missing from the input are
// derived from the forecast date using the fixed season cutoff. A partition
// with no baseline rows keeps its summary row but carries undefined relative
// metrics.
//
// Empty input, an absent baseline model, and invalid grouping dimensions are
// fatal.
func Aggregate(rows []scores.Row, groupBy []scores.Dimension, baseline string, usOnly bool) (*Summary, error) {
	if len(rows) == 0 {
		return nil, ErrNoScores
	}
	seen := make(map[scores.Dimension]struct{}, len(groupBy))
	for _, d := range groupBy {
		if err := d.Valid(); err != nil {
			return nil, err
		}
		if _, ok := seen[d]; ok {
			return nil, fmt.Errorf("%q, %w", d, scores.ErrDuplicateDimension)
		}
		seen[d] = struct{}{}
	}
	for i := range rows {
		if err := rows[i].Valid(); err != nil {
			return nil, fmt.Errorf("score row %d, %w", i, err)
		}
	}

	filtered := rows
	if !scores.HasDimension(groupBy, scores.DimLocation) {
		filtered = make([]scores.Row, 0, len(rows))
		for _, r := range rows {
			if (r.Location == "US") == usOnly {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) == 0 {
			return nil, fmt.Errorf("after location filter, %w", ErrNoScores)
		}
	}

	baselineSeen := false
	for i := range filtered {
		if filtered[i].Model == baseline {
			baselineSeen = true
			break
		}
	}
	if !baselineSeen {
		return nil, fmt.Errorf("%q, %w", baseline, ErrBaselineNotFound)
	}

	type primaryKey struct {
		model string
		key   groupKey
	}

	primary := make(map[primaryKey]*groupAcc)
	var order []primaryKey
	base := make(map[groupKey]*groupAcc)

	for i := range filtered {
		r := &filtered[i]
		key, week := partitionKey(r, groupBy)

		pk := primaryKey{model: r.Model, key: key}
		acc, ok := primary[pk]
		if !ok {
			acc = &groupAcc{model: r.Model, key: key, week: week}
			primary[pk] = acc
			order = append(order, pk)
		}
		acc.observe(r)

		if r.Model == baseline {
			bacc, ok := base[key]
			if !ok {
				bacc = &groupAcc{key: key, week: week}
				base[key] = bacc
			}
			bacc.observe(r)
		}
	}

	out := make([]SummaryRow, 0, len(order))
	for _, pk := range order {
		acc := primary[pk]
		row := SummaryRow{
			Model:        acc.model,
			Season:       acc.key.season,
			Horizon:      acc.key.horizon,
			ForecastWeek: acc.week,
			Location:     acc.key.location,
			WIS:          roundTo(stat.Mean(acc.wis, nil), SummaryDecimals),
			MAE:          roundTo(stat.Mean(acc.mae, nil), SummaryDecimals),
			Cov50:        roundTo(stat.Mean(acc.c50, nil), SummaryDecimals),
			Cov95:        roundTo(stat.Mean(acc.c95, nil), SummaryDecimals),
		}

		if bacc, ok := base[acc.key]; ok {
			baseWIS := stat.Mean(bacc.wis, nil)
			baseMAE := stat.Mean(bacc.mae, nil)
			row.RelWIS = NewRelative(stat.Mean(acc.wis, nil), baseWIS).round(SummaryDecimals)
			row.RelMAE = NewRelative(stat.Mean(acc.mae, nil), baseMAE).round(SummaryDecimals)
		} else {
			row.RelWIS = Undefined()
			row.RelMAE = Undefined()
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		for _, d := range groupBy {
			switch d {
			case scores.DimSeason:
				if a.Season != b.Season {
					return a.Season < b.Season
				}
			case scores.DimHorizon:
				if a.Horizon != b.Horizon {
					return a.Horizon < b.Horizon
				}
			case scores.DimForecastWeek:
				if !a.ForecastWeek.Equal(b.ForecastWeek) {
					return a.ForecastWeek.Before(b.ForecastWeek)
				}
			case scores.DimLocation:
				if a.Location != b.Location {
					return a.Location < b.Location
				}
			}
		}
		return a.WIS < b.WIS
	})

	return &Summary{
		GroupBy:  groupBy,
		Baseline: baseline,
		Rows:     out,
	}, nil
}

// partitionKey fills the group key fields for the active dimensions. The
// forecast week time is returned separately to keep the key comparable.
func partitionKey(r *scores.Row, groupBy []scores.Dimension) (groupKey, time.Time) {
	var key groupKey
	var week time.Time
	for _, d := range groupBy {
		switch d {
		case scores.DimSeason:
			key.season = r.Season
			if key.season == "" {
				key.season = scores.SeasonOf(r.ForecastDate)
			}
		case scores.DimHorizon:
			key.horizon = r.Horizon
		case scores.DimForecastWeek:
			week = scores.ForecastWeek(r.ForecastDate)
			key.week = week.Unix() / 86400
		case scores.DimLocation:
			key.location = r.Location
		}
	}
	return key, week
}

func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
