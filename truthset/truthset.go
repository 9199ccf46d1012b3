// Package truthset aligns reported ground-truth observations onto the
// forecast-date axis used by the score charts.
package truthset

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

var ErrNegativeValue = errors.New("truth value is negative")

// ReportingLagDays is the fixed lag between a forecast's date and the end of
// the target week it scores against. Shifting observations backward by this
// many days places them on the forecast-date axis.
const ReportingLagDays = 5

// Observation is one reported ground-truth data point keyed by the end date
// of its target week.
type Observation struct {
	TargetEndDate time.Time
	Value         float64
}

func (o *Observation) Valid() error {
	if o.Value < 0 {
		return fmt.Errorf("value %f at %s, %w", o.Value, o.TargetEndDate.Format(time.DateOnly), ErrNegativeValue)
	}
	return nil
}

// Series is a truth series on the forecast-date axis. T is strictly
// increasing and V has the same length.
type Series struct {
	T []time.Time
	V []float64
}

func (s *Series) Len() int { return len(s.T) }

func (s *Series) StartTime() time.Time {
	if len(s.T) == 0 {
		return time.Time{}
	}
	return s.T[0]
}

func (s *Series) EndTime() time.Time {
	if len(s.T) == 0 {
		return time.Time{}
	}
	return s.T[len(s.T)-1]
}

func (s *Series) Copy() *Series {
	t := make([]time.Time, len(s.T))
	v := make([]float64, len(s.V))
	copy(t, s.T)
	copy(v, s.V)
	return &Series{T: t, V: v}
}

// AlignAndAverage shifts every observation backward by the reporting lag,
// keeps those whose shifted date falls inside [start, end] (inclusive; a zero
// start or end leaves that side unbounded), and collapses multiple
// observations on the same shifted date into their mean. The result is sorted
// ascending by date. An empty input or window yields an empty Series.
func AlignAndAverage(obs []Observation, start, end time.Time) (*Series, error) {
	grouped := make(map[time.Time][]float64)
	for i := range obs {
		if err := obs[i].Valid(); err != nil {
			return nil, fmt.Errorf("observation %d, %w", i, err)
		}
		d := obs[i].TargetEndDate.AddDate(0, 0, -ReportingLagDays)
		if !start.IsZero() && d.Before(start) {
			continue
		}
		if !end.IsZero() && d.After(end) {
			continue
		}
		grouped[d] = append(grouped[d], obs[i].Value)
	}

	s := &Series{
		T: make([]time.Time, 0, len(grouped)),
		V: make([]float64, 0, len(grouped)),
	}
	for d := range grouped {
		s.T = append(s.T, d)
	}
	sort.Slice(s.T, func(i, j int) bool { return s.T[i].Before(s.T[j]) })
	for _, d := range s.T {
		s.V = append(s.V, stat.Mean(grouped[d], nil))
	}
	return s, nil
}
