package hubeval

import (
	"sort"
	"time"

	"github.com/epiforecast/hubeval/event"
	"github.com/epiforecast/hubeval/scores"
	"github.com/epiforecast/hubeval/truthset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"
)

// DefaultTruthScale is the truth-to-score scale factor used by the
// manuscript's WIS and MAE figures.
const DefaultTruthScale = 0.125

// Coverage truth-rescale multipliers before and on/after the season cutoff.
// These are figure-tuning constants tied to the same cutoff date as the
// season derivation, not a general rule.
const (
	covRescaleBeforeCutoff = -0.15
	covRescaleAfterCutoff  = -0.5
)

// PlotOpts configures a score-by-forecast-date chart. ModelOrder and
// ModelColors are positionally paired: index i's model renders in index i's
// color. The pairing is a caller contract and is not validated. A zero
// TruthScale means DefaultTruthScale.
type PlotOpts struct {
	Metric      scores.Metric
	Horizon     int
	Title       string
	ModelOrder  []string
	ModelColors []string

	Truth      []truthset.Observation
	TruthScale float64

	Holidays []event.Marker
}

// Metric returns the summarized value selected by m.
func (r *SummaryRow) Metric(m scores.Metric) float64 {
	switch m {
	case scores.MetricMAE:
		return r.MAE
	case scores.MetricCov50:
		return r.Cov50
	case scores.MetricCov95:
		return r.Cov95
	}
	return r.WIS
}

// LineScoresByForecastDate charts one metric of the aggregated summary over
// forecast weeks, one line per model. The summary must have been grouped by
// forecast_week and horizon for the axis and filter to be meaningful.
//
// When truth is supplied for a non-coverage metric it is lag-aligned onto the
// forecast-date axis, windowed to the plotted date range, rescaled with
// RescaleTruth onto the score scale, and drawn as an extra series; a second
// y-axis spanning the original reported values is attached as the reading
// scale for that series. Coverage metrics suppress the truth overlay and draw
// a horizontal line at the nominal coverage target instead.
//
// A horizon absent from the summary yields an empty chart, not an error.
func LineScoresByForecastDate(summary *Summary, opt PlotOpts) (*charts.Line, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: opt.Title,
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: opt.Metric.String(),
			},
		),
	)
	if len(opt.ModelColors) > 0 {
		line.SetGlobalOptions(charts.WithColorsOpts(opts.Colors(opt.ModelColors)))
	}

	var rows []SummaryRow
	for _, r := range summary.Rows {
		if r.Horizon == opt.Horizon {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return line, nil
	}

	dates := forecastWeeks(rows)
	labels := make([]string, 0, len(dates))
	for _, d := range dates {
		labels = append(labels, d.Format(time.DateOnly))
	}
	line.SetXAxis(labels)

	for i, model := range opt.ModelOrder {
		byDate := make(map[string]float64, len(dates))
		for _, r := range rows {
			if r.Model == model {
				byDate[r.ForecastWeek.Format(time.DateOnly)] = r.Metric(opt.Metric)
			}
		}
		lineData := make([]opts.LineData, 0, len(labels))
		for _, label := range labels {
			if v, ok := byDate[label]; ok {
				lineData = append(lineData, opts.LineData{Value: v})
			} else {
				lineData = append(lineData, opts.LineData{Value: nil})
			}
		}

		var seriesOpts []charts.SeriesOpts
		if i == 0 {
			if opt.Metric.Coverage() {
				seriesOpts = append(seriesOpts, charts.WithMarkLineNameYAxisItemOpts(
					opts.MarkLineNameYAxisItem{
						Name:  "nominal coverage",
						YAxis: opt.Metric.Target(),
					},
				))
			}
			for _, h := range opt.Holidays {
				seriesOpts = append(seriesOpts, charts.WithMarkLineNameXAxisItemOpts(
					opts.MarkLineNameXAxisItem{
						Name:  h.Name,
						XAxis: h.Date.Format(time.DateOnly),
					},
				))
			}
		}
		line.AddSeries(model, lineData, seriesOpts...)
	}

	if len(opt.Truth) == 0 || opt.Metric.Coverage() {
		return line, nil
	}

	truth, err := truthset.AlignAndAverage(opt.Truth, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, err
	}
	if truth.Len() == 0 {
		return line, nil
	}

	scale := opt.TruthScale
	if scale == 0 {
		scale = DefaultTruthScale
	}
	rescaled := RescaleTruth(opt.Metric, truth.T, truth.V, scale)

	byDate := make(map[string]float64, truth.Len())
	for i, d := range truth.T {
		byDate[d.Format(time.DateOnly)] = rescaled[i]
	}
	truthData := make([]opts.LineData, 0, len(labels))
	for _, label := range labels {
		if v, ok := byDate[label]; ok {
			truthData = append(truthData, opts.LineData{Value: v})
		} else {
			truthData = append(truthData, opts.LineData{Value: nil})
		}
	}

	// The reading axis for the truth overlay spans the original reported
	// values. The overlay itself is plotted on the score scale.
	line.ExtendYAxis(opts.YAxis{
		Name: "reported",
		Min:  0,
		Max:  roundTo(floats.Max(truth.V), SummaryDecimals),
	})
	line.AddSeries("reported", truthData)

	return line, nil
}

// RescaleTruth maps truth values onto a score chart's value scale. WIS and
// MAE charts multiply by scale. Coverage charts use an inverted max
// normalization that places truth near the coverage target lines, with a
// different multiplier before and on/after the season cutoff; the max is
// taken over the whole series being transformed, not per date partition. A
// degenerate all-zero coverage series falls back to the plain scale multiply
// instead of dividing by zero.
func RescaleTruth(metric scores.Metric, t []time.Time, v []float64, scale float64) []float64 {
	out := make([]float64, len(v))
	if !metric.Coverage() {
		copy(out, v)
		floats.Scale(scale, out)
		return out
	}

	max := 0.0
	if len(v) > 0 {
		max = floats.Max(v)
	}
	if max == 0 {
		copy(out, v)
		floats.Scale(scale, out)
		return out
	}

	for i := range v {
		mult := covRescaleAfterCutoff
		if t[i].Before(scores.SeasonCutoff) {
			mult = covRescaleBeforeCutoff
		}
		out[i] = mult*v[i]/max + 1
	}
	return out
}

// LineTruth charts a single truth series over a forecast-date interval with
// the y-axis floored at zero. It shares the lag alignment and per-date
// averaging with the score chart's truth overlay.
func LineTruth(obs []truthset.Observation, start, end time.Time, title string) (*charts.Line, error) {
	truth, err := truthset.AlignAndAverage(obs, start, end)
	if err != nil {
		return nil, err
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Min: 0,
			},
		),
	)

	labels := make([]string, 0, truth.Len())
	lineData := make([]opts.LineData, 0, truth.Len())
	for i, d := range truth.T {
		labels = append(labels, d.Format(time.DateOnly))
		lineData = append(lineData, opts.LineData{Value: truth.V[i]})
	}
	line.SetXAxis(labels)
	line.AddSeries("reported", lineData)

	return line, nil
}

// forecastWeeks returns the sorted distinct forecast week dates of rows.
func forecastWeeks(rows []SummaryRow) []time.Time {
	seen := make(map[int64]struct{}, len(rows))
	var dates []time.Time
	for _, r := range rows {
		day := r.ForecastWeek.Unix() / 86400
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, r.ForecastWeek)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
