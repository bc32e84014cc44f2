package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vizkit-org/vizkit/engine"
	"github.com/vizkit-org/vizkit/helpers"
	"github.com/vizkit-org/vizkit/layout"
	"github.com/vizkit-org/vizkit/render"
	"github.com/vizkit-org/vizkit/schema"
	"github.com/vizkit-org/vizkit/server"
)

// ============================================================================
// VIZKIT CLI
// ============================================================================

const version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:          "vizkit",
		Short:        "Transform tabular data into renderable chart series",
		Version:      version,
		SilenceUsage: true,
	}

	root.AddCommand(transformCmd(), suggestCmd(), renderCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// ── transform ─────────────────────────────────────────────────────────────

func transformCmd() *cobra.Command {
	var (
		file, config, format, out string
		width, height             float64
	)

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Run the pipeline and print the render plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(file)
			if err != nil {
				return err
			}
			cfg, err := loadChartConfig(config)
			if err != nil {
				return err
			}

			plan := engine.Run(ds, cfg, layout.Container{Width: width, Height: height})

			w, closeFn, err := outputWriter(out)
			if err != nil {
				return err
			}
			defer closeFn()

			switch format {
			case "csv":
				return writePlanCSV(w, plan)
			case "pretty":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			default:
				return json.NewEncoder(w).Encode(plan)
			}
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to CSV or XLSX data file (required)")
	cmd.Flags().StringVar(&config, "config", "", "path to YAML chart config (required)")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, pretty, csv")
	cmd.Flags().StringVar(&out, "out", "", "write output to file instead of stdout")
	cmd.Flags().Float64Var(&width, "width", 800, "container width in pixels")
	cmd.Flags().Float64Var(&height, "height", 450, "container height in pixels")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("config")
	return cmd
}

// ── suggest ───────────────────────────────────────────────────────────────

func suggestCmd() *cobra.Command {
	var file, chartType string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Print classified columns and the suggested field mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(file)
			if err != nil {
				return err
			}

			columns := schema.AnalyzeColumns(ds)
			mapping := schema.SuggestMapping(columns, engine.ChartType(chartType))

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"columns": columns,
				"mapping": mapping,
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to CSV or XLSX data file (required)")
	cmd.Flags().StringVar(&chartType, "type", "bar", "chart type to suggest for")
	cmd.MarkFlagRequired("file")
	return cmd
}

// ── render ────────────────────────────────────────────────────────────────

func renderCmd() *cobra.Command {
	var (
		file, config, out string
		width, height     float64
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run the pipeline and draw a PNG with the demo renderer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(file)
			if err != nil {
				return err
			}
			cfg, err := loadChartConfig(config)
			if err != nil {
				return err
			}

			plan := engine.Run(ds, cfg, layout.Container{Width: width, Height: height})

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()

			return render.PNG(plan, cfg, f)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "path to CSV or XLSX data file (required)")
	cmd.Flags().StringVar(&config, "config", "", "path to YAML chart config (required)")
	cmd.Flags().StringVar(&out, "out", "chart.png", "output PNG path")
	cmd.Flags().Float64Var(&width, "width", 800, "image width in pixels")
	cmd.Flags().Float64Var(&height, "height", 450, "image height in pixels")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("config")
	return cmd
}

// ── serve ─────────────────────────────────────────────────────────────────

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("vizkit listening on %s\n", addr)
			return http.ListenAndServe(addr, server.NewRouter())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// ── helpers ───────────────────────────────────────────────────────────────

func loadDataset(path string) (engine.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Dataset{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return helpers.ParseXLSX(data, "")
	default:
		return helpers.ParseCSV(data)
	}
}

func outputWriter(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

// writePlanCSV emits the plan's rows as CSV in resolved key order.
func writePlanCSV(f *os.File, plan engine.RenderPlan) error {
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(plan.Keys); err != nil {
		return err
	}
	for _, row := range plan.Rows {
		record := make([]string, len(plan.Keys))
		for i, key := range plan.Keys {
			record[i] = engine.FormatValue(row[key])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
