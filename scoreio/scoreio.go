// Package scoreio reads the JSON score and truth tables exported from the
// hub scoring step and writes aggregated summary tables back out.
package scoreio

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/epiforecast/hubeval"
	"github.com/epiforecast/hubeval/scores"
	"github.com/epiforecast/hubeval/truthset"
	"github.com/goccy/go-json"
)

var (
	ErrNoRows  = errors.New("table has no rows")
	ErrBadDate = errors.New("unparseable date")
)

// DateFormat is the date layout used by the exported tables.
const DateFormat = time.DateOnly

type scoreRowJSON struct {
	Model        string  `json:"model"`
	ForecastDate string  `json:"forecast_date"`
	Horizon      int     `json:"horizon"`
	Location     string  `json:"location"`
	WIS          float64 `json:"wis"`
	AbsError     float64 `json:"abs_error"`
	Coverage50   float64 `json:"coverage_50"`
	Coverage95   float64 `json:"coverage_95"`
	Season       string  `json:"season,omitempty"`
}

type truthRowJSON struct {
	TargetEndDate string  `json:"target_end_date"`
	Value         float64 `json:"value"`
}

type summaryRowJSON struct {
	Model        string  `json:"model"`
	Season       string  `json:"season,omitempty"`
	Horizon      int     `json:"horizon,omitempty"`
	ForecastWeek string  `json:"forecast_week,omitempty"`
	Location     string  `json:"location,omitempty"`
	WIS          float64 `json:"wis"`
	MAE          float64 `json:"mae"`
	Cov50        float64 `json:"cov50"`
	Cov95        float64 `json:"cov95"`
	RelWIS       any     `json:"rwis"`
	RelMAE       any     `json:"rmae"`
}

// LoadScores reads a JSON array of score rows. Each row is validated; a
// malformed row is fatal and reported with its index.
func LoadScores(path string) ([]scores.Row, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read score table, %w", err)
	}

	var raw []scoreRowJSON
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("unable to decode score table, %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("score table %s, %w", path, ErrNoRows)
	}

	rows := make([]scores.Row, 0, len(raw))
	for i, rj := range raw {
		date, err := parseDate(rj.ForecastDate)
		if err != nil {
			return nil, fmt.Errorf("score row %d, %w", i, err)
		}
		r := scores.Row{
			Model:        rj.Model,
			ForecastDate: date,
			Horizon:      rj.Horizon,
			Location:     rj.Location,
			WIS:          rj.WIS,
			AbsError:     rj.AbsError,
			Coverage50:   rj.Coverage50,
			Coverage95:   rj.Coverage95,
			Season:       rj.Season,
		}
		if err := r.Valid(); err != nil {
			return nil, fmt.Errorf("score row %d, %w", i, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// LoadTruth reads a JSON array of ground-truth observations.
func LoadTruth(path string) ([]truthset.Observation, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read truth table, %w", err)
	}

	var raw []truthRowJSON
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("unable to decode truth table, %w", err)
	}

	obs := make([]truthset.Observation, 0, len(raw))
	for i, rj := range raw {
		date, err := parseDate(rj.TargetEndDate)
		if err != nil {
			return nil, fmt.Errorf("truth row %d, %w", i, err)
		}
		o := truthset.Observation{
			TargetEndDate: date,
			Value:         rj.Value,
		}
		if err := o.Valid(); err != nil {
			return nil, fmt.Errorf("truth row %d, %w", i, err)
		}
		obs = append(obs, o)
	}
	return obs, nil
}

// WriteSummary writes an aggregated summary as an indented JSON array.
// Relative metrics encode as a number, the string "Inf" for an infinite
// ratio, or null when undefined.
func WriteSummary(path string, summary *hubeval.Summary) error {
	rows := make([]summaryRowJSON, 0, len(summary.Rows))
	for _, r := range summary.Rows {
		rj := summaryRowJSON{
			Model:    r.Model,
			Season:   r.Season,
			Horizon:  r.Horizon,
			Location: r.Location,
			WIS:      r.WIS,
			MAE:      r.MAE,
			Cov50:    r.Cov50,
			Cov95:    r.Cov95,
			RelWIS:   relJSON(r.RelWIS),
			RelMAE:   relJSON(r.RelMAE),
		}
		if !r.ForecastWeek.IsZero() {
			rj.ForecastWeek = r.ForecastWeek.Format(DateFormat)
		}
		rows = append(rows, rj)
	}

	bytes, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode summary table, %w", err)
	}
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return fmt.Errorf("unable to write summary table, %w", err)
	}
	return nil
}

func relJSON(r hubeval.Relative) any {
	switch {
	case !r.Defined():
		return nil
	case r.IsInf():
		return "Inf"
	}
	return r.Float64()
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q, %w", s, ErrBadDate)
	}
	return date, nil
}
