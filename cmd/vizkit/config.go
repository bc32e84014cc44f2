package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vizkit-org/vizkit/engine"
)

// ============================================================================
// CHART CONFIG FILE — YAML description of one chart
// ============================================================================
// Example:
//
//	type: bar
//	mapping:
//	  xAxis: region
//	  yAxis: revenue
//	  sortBy: revenue
//	  sortOrder: desc
//	  limit: 10
//	dateWindow:
//	  from: 2024-01-01
//	  to: 2024-12-31
//	granularity: month
// ============================================================================

type chartFile struct {
	Type    string `yaml:"type"`
	Mapping struct {
		XAxis        string   `yaml:"xAxis"`
		YAxis        string   `yaml:"yAxis"`
		YAxis1       string   `yaml:"yAxis1"`
		YAxis2       string   `yaml:"yAxis2"`
		Category     string   `yaml:"category"`
		Value        string   `yaml:"value"`
		Values       []string `yaml:"values"`
		Formula      string   `yaml:"formula"`
		FormulaAlias string   `yaml:"formulaAlias"`
		SortBy       string   `yaml:"sortBy"`
		SortOrder    string   `yaml:"sortOrder"`
		Limit        int      `yaml:"limit"`
		Aggregation  string   `yaml:"aggregation"`
		Percentile   float64  `yaml:"percentile"`
	} `yaml:"mapping"`
	Filters []struct {
		Type        string   `yaml:"type"`
		Column      string   `yaml:"column"`
		Include     []string `yaml:"include"`
		Min         *float64 `yaml:"min"`
		Max         *float64 `yaml:"max"`
		From        string   `yaml:"from"`
		To          string   `yaml:"to"`
		Granularity string   `yaml:"granularity"`
	} `yaml:"filters"`
	DashboardFilters []struct {
		Column   string `yaml:"column"`
		Operator string `yaml:"operator"`
		Value    any    `yaml:"value"`
	} `yaml:"dashboardFilters"`
	DateWindow struct {
		From string `yaml:"from"`
		To   string `yaml:"to"`
	} `yaml:"dateWindow"`
	DateColumn    string `yaml:"dateColumn"`
	Granularity   string `yaml:"granularity"`
	LabelRotation string `yaml:"labelRotation"`
}

// loadChartConfig reads and converts a YAML chart file.
func loadChartConfig(path string) (engine.ChartConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.ChartConfig{}, fmt.Errorf("failed to read chart config: %w", err)
	}

	var cf chartFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return engine.ChartConfig{}, fmt.Errorf("failed to parse chart config: %w", err)
	}

	cfg := engine.ChartConfig{
		Type: engine.ChartType(cf.Type),
		Mapping: engine.FieldMapping{
			XAxis:        cf.Mapping.XAxis,
			YAxis:        cf.Mapping.YAxis,
			YAxis1:       cf.Mapping.YAxis1,
			YAxis2:       cf.Mapping.YAxis2,
			Category:     cf.Mapping.Category,
			Value:        cf.Mapping.Value,
			Values:       cf.Mapping.Values,
			Formula:      cf.Mapping.Formula,
			FormulaAlias: cf.Mapping.FormulaAlias,
			SortBy:       cf.Mapping.SortBy,
			SortOrder:    cf.Mapping.SortOrder,
			Limit:        cf.Mapping.Limit,
			Aggregation:  engine.AggregationMethod(cf.Mapping.Aggregation),
			Percentile:   cf.Mapping.Percentile,
		},
		DateColumn:    cf.DateColumn,
		Granularity:   engine.Granularity(cf.Granularity),
		LabelRotation: cf.LabelRotation,
	}

	if cfg.DateWindow.From, err = parseDay(cf.DateWindow.From); err != nil {
		return engine.ChartConfig{}, err
	}
	if cfg.DateWindow.To, err = parseDay(cf.DateWindow.To); err != nil {
		return engine.ChartConfig{}, err
	}

	for _, f := range cf.Filters {
		cf2 := engine.NewChartFilter(engine.ChartFilterType(f.Type), f.Column)
		cf2.Include = f.Include
		cf2.Min = f.Min
		cf2.Max = f.Max
		cf2.Granularity = engine.Granularity(f.Granularity)
		if cf2.From, err = parseDay(f.From); err != nil {
			return engine.ChartConfig{}, err
		}
		if cf2.To, err = parseDay(f.To); err != nil {
			return engine.ChartConfig{}, err
		}
		cfg.ChartFilters = append(cfg.ChartFilters, cf2)
	}

	for _, f := range cf.DashboardFilters {
		cfg.DashboardFilters = append(cfg.DashboardFilters,
			engine.NewDashboardFilter(f.Column, engine.FilterOperator(f.Operator), f.Value))
	}

	return cfg, nil
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return &t, nil
}
