// Command hubeval runs the evaluation pipeline end to end: it loads exported
// score and truth tables, aggregates baseline-relative summaries per the
// configured grouping, and renders the comparison charts to a single HTML
// page.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/epiforecast/hubeval"
	"github.com/epiforecast/hubeval/event"
	"github.com/epiforecast/hubeval/scoreio"
	"github.com/epiforecast/hubeval/scores"
	"github.com/epiforecast/hubeval/truthset"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// PlotConfig is one chart of the output page. Models and Colors are
// positionally paired.
type PlotConfig struct {
	Metric       string   `yaml:"metric" validate:"required,oneof=wis mae cov50 cov95"`
	Horizon      int      `yaml:"horizon" validate:"min=0"`
	Title        string   `yaml:"title"`
	Models       []string `yaml:"models" validate:"required,min=1"`
	Colors       []string `yaml:"colors"`
	OverlayTruth bool     `yaml:"overlay_truth"`
	TruthScale   float64  `yaml:"truth_scale" validate:"min=0"`
	MarkHolidays bool     `yaml:"mark_holidays"`
}

type Config struct {
	Scores     string   `yaml:"scores" validate:"required"`
	Truth      string   `yaml:"truth"`
	Baseline   string   `yaml:"baseline" validate:"required"`
	GroupBy    []string `yaml:"group_by" validate:"required,min=1"`
	USOnly     bool     `yaml:"us_only"`
	Out        string   `yaml:"out"`
	SummaryOut string   `yaml:"summary_out"`
	TruthPlot  bool     `yaml:"truth_plot"`

	Plots []PlotConfig `yaml:"plots" validate:"dive"`
}

func main() {
	configPath := flag.String("config", "hubeval.yaml", "pipeline config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal(err)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	groupBy, err := scores.ParseDimensions(cfg.GroupBy)
	if err != nil {
		return err
	}

	rows, err := scoreio.LoadScores(cfg.Scores)
	if err != nil {
		return err
	}

	var truth []truthset.Observation
	if cfg.Truth != "" {
		truth, err = scoreio.LoadTruth(cfg.Truth)
		if err != nil {
			return err
		}
	}

	summary, err := hubeval.Aggregate(rows, groupBy, cfg.Baseline, cfg.USOnly)
	if err != nil {
		return fmt.Errorf("unable to aggregate scores, %w", err)
	}

	if cfg.SummaryOut != "" {
		if err := scoreio.WriteSummary(cfg.SummaryOut, summary); err != nil {
			return err
		}
	}
	if cfg.Out == "" {
		return nil
	}

	start, end := forecastDateSpan(rows)

	page := components.NewPage()
	for i, pc := range cfg.Plots {
		metric, err := scores.ParseMetric(pc.Metric)
		if err != nil {
			return fmt.Errorf("plot %d, %w", i, err)
		}

		opt := hubeval.PlotOpts{
			Metric:      metric,
			Horizon:     pc.Horizon,
			Title:       pc.Title,
			ModelOrder:  pc.Models,
			ModelColors: pc.Colors,
			TruthScale:  pc.TruthScale,
		}
		if pc.OverlayTruth {
			opt.Truth = truth
		}
		if pc.MarkHolidays {
			opt.Holidays = append(
				event.Thanksgiving(start, end),
				event.Christmas(start, end)...,
			)
		}

		line, err := hubeval.LineScoresByForecastDate(summary, opt)
		if err != nil {
			return fmt.Errorf("plot %d, %w", i, err)
		}
		page.AddCharts(line)
	}

	if cfg.TruthPlot && len(truth) > 0 {
		line, err := hubeval.LineTruth(truth, start, end, "Reported values")
		if err != nil {
			return err
		}
		page.AddCharts(line)
	}

	file, err := os.Create(cfg.Out)
	if err != nil {
		return fmt.Errorf("unable to create output page, %w", err)
	}
	defer file.Close()
	return page.Render(file)
}

func loadConfig(path string) (*Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config, %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config, %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config, %w", err)
	}
	if cfg.Out == "" && cfg.SummaryOut == "" {
		return nil, errors.New("config sets neither out nor summary_out")
	}
	return &cfg, nil
}

// forecastDateSpan returns the min and max forecast dates of the score table
// for windowing the truth overlays and holiday markers.
func forecastDateSpan(rows []scores.Row) (time.Time, time.Time) {
	var start, end time.Time
	for _, r := range rows {
		if start.IsZero() || r.ForecastDate.Before(start) {
			start = r.ForecastDate
		}
		if end.IsZero() || r.ForecastDate.After(end) {
			end = r.ForecastDate
		}
	}
	return start, end
}
