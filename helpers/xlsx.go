package helpers

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/vizkit-org/vizkit/engine"
)

// ============================================================================
// XLSX INGESTION
// ============================================================================

// ParseXLSX reads the named sheet of an XLSX workbook into a Dataset.
// An empty sheet name selects the workbook's first sheet. The first row
// is the header.
func ParseXLSX(data []byte, sheet string) (engine.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return engine.Dataset{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return engine.Dataset{}, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return engine.Dataset{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return engine.Dataset{}, fmt.Errorf("sheet %q is empty", sheet)
	}

	columns := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		columns[i] = h
	}

	ds := engine.Dataset{Columns: columns}
	for _, record := range rows[1:] {
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
