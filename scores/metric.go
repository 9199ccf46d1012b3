package scores

import (
	"errors"
	"fmt"
)

var ErrUnknownMetric = errors.New("unknown metric")

// Metric selects which summarized score column drives a plot or table. The
// set is closed; both the aggregator output and the plot composer switch on
// it rather than on raw column names.
type Metric string

const (
	MetricWIS   Metric = "wis"
	MetricMAE   Metric = "mae"
	MetricCov50 Metric = "cov50"
	MetricCov95 Metric = "cov95"
)

func (m Metric) String() string { return string(m) }

// Coverage reports whether the metric is an interval coverage rate. Coverage
// metrics suppress the truth overlay and draw a nominal target line instead.
func (m Metric) Coverage() bool {
	return m == MetricCov50 || m == MetricCov95
}

// Target returns the nominal coverage level for coverage metrics and 0
// otherwise.
func (m Metric) Target() float64 {
	switch m {
	case MetricCov50:
		return 0.50
	case MetricCov95:
		return 0.95
	}
	return 0
}

func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricWIS, MetricMAE, MetricCov50, MetricCov95:
		return Metric(s), nil
	}
	return "", fmt.Errorf("%q, %w", s, ErrUnknownMetric)
}
