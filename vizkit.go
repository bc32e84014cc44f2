// Package vizkit turns raw tabular rows into renderable chart series.
//
// Usage:
//
//	import "github.com/vizkit-org/vizkit/engine"
//
//	plan := engine.Run(dataset, chartConfig, layout.Container{Width: 640, Height: 360})
//
// The engine applies chart- and dashboard-scoped filters, aggregates per
// chart type (including 2-D heatmap binning with auto-collapse), decides
// whether two value series need independent Y axes, and computes the
// container-aware axis geometry renderers consume.
//
// The engine performs no I/O and calls no external service — all
// computation is local and synchronous. Ingestion (helpers), schema
// suggestion (schema), and the demo renderer/server (render, server) are
// collaborators around the core.
package vizkit
