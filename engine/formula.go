package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/interp"
)

// ============================================================================
// FORMULA SCORECARDS — expression evaluation over the row set
// ============================================================================
// A formula references columns by name, e.g. "(revenue - cost) / cost".
// Each referenced column is collapsed to its sum over the working set,
// the literal is substituted into the expression, and the resulting
// arithmetic is evaluated by the yaegi interpreter.
//
// Evaluation failures return an error; the caller logs it and keeps the
// prior working set so the chart still renders.
// ============================================================================

// EvaluateFormula computes a formula over the rows and returns a single
// derived row keyed by alias.
func EvaluateFormula(rows []Row, formula, alias string) (result []Row, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("formula evaluation panicked: %v", r)
		}
	}()

	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to evaluate formula over")
	}

	expr := substituteColumns(rows, formula)

	i := interp.New(interp.Options{})
	v, err := i.Eval(expr)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", formula, err)
	}

	var out float64
	switch v.Kind().String() {
	case "float64", "float32":
		out = v.Float()
	case "int", "int64", "int32":
		out = float64(v.Int())
	default:
		return nil, fmt.Errorf("formula %q produced non-numeric %s", formula, v.Kind())
	}

	return []Row{{alias: out}}, nil
}

// substituteColumns replaces each referenced column name with the column's
// summed value, longest names first so overlapping names substitute
// correctly.
func substituteColumns(rows []Row, formula string) string {
	columns := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		columns = append(columns, col)
	}
	sort.Slice(columns, func(i, j int) bool { return len(columns[i]) > len(columns[j]) })

	expr := formula
	for _, col := range columns {
		if !strings.Contains(expr, col) {
			continue
		}
		total := 0.0
		for _, row := range rows {
			total += CoerceNumber(row[col])
		}
		expr = strings.ReplaceAll(expr, col, floatLiteral(total))
	}
	return expr
}

// floatLiteral formats a float so the interpreted expression stays in
// float arithmetic (a bare "10" would divide as an integer).
func floatLiteral(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	if v < 0 {
		return "(" + s + ")"
	}
	return s
}
