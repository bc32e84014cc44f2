package engine

import (
	"reflect"
	"testing"
)

func TestMergeMappingsOverrideWins(t *testing.T) {
	suggested := FieldMapping{
		XAxis:       "created",
		YAxis:       "revenue",
		Aggregation: AggSum,
	}
	override := FieldMapping{
		YAxis:       "units",
		Aggregation: AggAvg,
		Limit:       5,
	}

	got := MergeMappings(suggested, override)

	if got.XAxis != "created" {
		t.Errorf("unset override field keeps suggestion, got xAxis=%q", got.XAxis)
	}
	if got.YAxis != "units" || got.Aggregation != AggAvg || got.Limit != 5 {
		t.Errorf("override fields must win: %+v", got)
	}
}

func TestMergeMappingsPure(t *testing.T) {
	suggested := FieldMapping{XAxis: "a", Values: []string{"v1"}}
	override := FieldMapping{Values: []string{"v2", "v3"}}

	got := MergeMappings(suggested, override)

	if suggested.XAxis != "a" || len(suggested.Values) != 1 || suggested.Values[0] != "v1" {
		t.Errorf("suggestion mutated: %+v", suggested)
	}
	if len(override.Values) != 2 {
		t.Errorf("override mutated: %+v", override)
	}
	got.Values[0] = "changed"
	if override.Values[0] != "v2" {
		t.Errorf("merged values must not alias the override slice")
	}
}

func TestYKeysFlattenAndDedup(t *testing.T) {
	m := FieldMapping{
		YAxis:  "revenue",
		YAxis1: "revenue",
		YAxis2: "units",
		Value:  "cost",
		Values: []string{"units", "margin"},
	}
	want := []string{"revenue", "units", "cost", "margin"}
	if got := m.YKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("YKeys = %v, want %v", got, want)
	}
}

func TestXKeyFallsBackToCategory(t *testing.T) {
	m := FieldMapping{Category: "region"}
	if got := m.XKey(); got != "region" {
		t.Errorf("XKey = %q, want region", got)
	}
	m.XAxis = "month"
	if got := m.XKey(); got != "month" {
		t.Errorf("XKey = %q, want month", got)
	}
}

func TestMethodDefaultsToSum(t *testing.T) {
	if got := (FieldMapping{}).Method(); got != AggSum {
		t.Errorf("Method() = %q, want sum", got)
	}
	if got := (FieldMapping{Aggregation: AggMedian}).Method(); got != AggMedian {
		t.Errorf("Method() = %q, want median", got)
	}
}
