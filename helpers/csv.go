// Package helpers converts external tabular formats into engine datasets.
// The core never performs I/O; these are the ingestion collaborators used
// by the CLI and server.
package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vizkit-org/vizkit/engine"
)

// ============================================================================
// CSV INGESTION
// ============================================================================
// Each CSV row becomes an engine.Row with typed cells: numeric-looking
// values parse to float64, empty cells become nil, everything else stays
// a string (dates are detected downstream under the engine's strict
// rule, so "2024-01-05" survives here as text).
// ============================================================================

// ParseCSV reads CSV bytes into a Dataset. The first record is the
// header; malformed data rows are skipped.
func ParseCSV(data []byte) (engine.Dataset, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return engine.Dataset{}, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	columns := make([]string, len(headers))
	for i, h := range headers {
		columns[i] = strings.TrimSpace(h)
	}

	ds := engine.Dataset{Columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		row := make(engine.Row, len(columns))
		for i, col := range columns {
			if i >= len(record) {
				row[col] = nil
				continue
			}
			row[col] = typedCell(record[i])
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

// typedCell converts one CSV field to its scalar cell value.
func typedCell(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	// Plain numbers only: currency-decorated strings keep their text so
	// the engine's currency-aware parsing handles them per call site.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
