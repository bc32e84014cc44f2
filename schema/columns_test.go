package schema

import (
	"fmt"
	"testing"

	"github.com/vizkit-org/vizkit/engine"
)

// ============================================================================
// COLUMN CLASSIFICATION TESTS
// ============================================================================

func classify(name string, cells []any) Column {
	rows := make([]engine.Row, len(cells))
	for i, c := range cells {
		rows[i] = engine.Row{name: c}
	}
	return analyzeColumn(name, rows)
}

func TestDetectTypeThreshold(t *testing.T) {
	// 4 of 5 numeric = 80%, right at the threshold.
	col := classify("amount", []any{"10", "€20", "30", "40", "pending"})
	if col.Type != TypeNumber {
		t.Errorf("80%% numeric column typed %q, want number", col.Type)
	}
	// 3 of 5 numeric is under it.
	col = classify("mixed", []any{"10", "20", "30", "low", "high"})
	if col.Type != TypeString {
		t.Errorf("60%% numeric column typed %q, want string", col.Type)
	}
}

func TestDetectDateAndBoolTypes(t *testing.T) {
	col := classify("created", []any{"2024-01-01", "2024-01-02", "2024-01-03"})
	if col.Type != TypeDate || col.Role != RoleDimension {
		t.Errorf("date column got %q/%q", col.Type, col.Role)
	}
	col = classify("active", []any{"yes", "no", true, "TRUE"})
	if col.Type != TypeBool || col.Role != RoleDimension {
		t.Errorf("bool column got %q/%q", col.Type, col.Role)
	}
}

func TestNullTextCounted(t *testing.T) {
	col := classify("region", []any{"West", "N/A", nil, "null", "-", "East"})
	if col.NullCount != 4 {
		t.Errorf("null count = %d, want 4", col.NullCount)
	}
	if col.UniqueCount != 2 {
		t.Errorf("unique count = %d, want 2", col.UniqueCount)
	}
}

func TestAllNullColumnSkipped(t *testing.T) {
	col := classify("empty", []any{nil, "", "n/a"})
	if col.Role != RoleSkipped || col.SkipReason == "" {
		t.Errorf("all-null column got %q (%q)", col.Role, col.SkipReason)
	}
}

func TestNumericIDColumnSkipped(t *testing.T) {
	cells := make([]any, 20)
	for i := range cells {
		cells[i] = fmt.Sprintf("%d", 1000+i)
	}
	col := classify("order_id", cells)
	if col.Role != RoleSkipped {
		t.Errorf("unique-per-row numbers got role %q, want skipped", col.Role)
	}
}

func TestCodedDimension(t *testing.T) {
	// Priority 1-3 over 30 rows: few distinct integers, low ratio.
	cells := make([]any, 30)
	for i := range cells {
		cells[i] = float64(i%3 + 1)
	}
	col := classify("priority", cells)
	if col.Type != TypeNumber || col.Role != RoleDimension {
		t.Errorf("coded category got %q/%q, want number/dimension", col.Type, col.Role)
	}
}

func TestContinuousMeasure(t *testing.T) {
	cells := make([]any, 30)
	for i := range cells {
		cells[i] = float64(i) * 1.5
	}
	// Append a duplicate so the ID rule does not fire.
	cells = append(cells, 0.0)
	col := classify("revenue", cells)
	if col.Role != RoleMeasure {
		t.Errorf("continuous numbers got role %q, want measure", col.Role)
	}
}

func TestHighCardinalityTextSkipped(t *testing.T) {
	cells := make([]any, 120)
	for i := range cells {
		if i%2 == 0 {
			cells[i] = fmt.Sprintf("comment text %d", i)
		} else {
			cells[i] = "duplicate"
		}
	}
	col := classify("notes", cells)
	if col.Role != RoleSkipped {
		t.Errorf("high-cardinality text got role %q, want skipped", col.Role)
	}
}

func TestSamplesCapped(t *testing.T) {
	cells := make([]any, 50)
	for i := range cells {
		cells[i] = fmt.Sprintf("this is sentence number %d", i)
	}
	col := classify("text", cells)
	if len(col.Samples) != maxSamples {
		t.Errorf("sample count = %d, want %d", len(col.Samples), maxSamples)
	}
}

func TestAnalyzeColumnsCoversAll(t *testing.T) {
	ds := engine.Dataset{
		Columns: []string{"date", "region", "revenue"},
		Rows: []engine.Row{
			{"date": "2024-01-01", "region": "West", "revenue": 10.0},
			{"date": "2024-01-02", "region": "East", "revenue": 20.0},
			{"date": "2024-01-03", "region": "West", "revenue": 30.0},
		},
	}
	cols := AnalyzeColumns(ds)
	if len(cols) != 3 {
		t.Fatalf("got %d columns, want 3", len(cols))
	}
	want := map[string]ColumnType{"date": TypeDate, "region": TypeString, "revenue": TypeNumber}
	for _, c := range cols {
		if c.Type != want[c.Name] {
			t.Errorf("%s typed %q, want %q", c.Name, c.Type, want[c.Name])
		}
	}
}
