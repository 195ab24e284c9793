package merparse

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func baseConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Parse(strings.NewReader(testConfig), "test.config")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cfg
}

func TestPlanKmerSweep(t *testing.T) {
	cfg := baseConfig(t)
	spec := SweepSpec{Axes: []Axis{{Param: "mer_size", Values: []string{"23", "27", "57"}}}}
	runs, err := Plan(cfg, spec, NameSpec{Date: "20160811"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	for i, want := range []string{"23", "27", "57"} {
		got, _ := runs[i].Config.Get("mer_size")
		if got != want {
			t.Errorf("run %d mer_size = %q, want %q", i, got, want)
		}
		// everything else must be untouched
		if gs, _ := runs[i].Config.Get("genome_size"); gs != "0.005" {
			t.Errorf("run %d genome_size changed to %q", i, gs)
		}
		if len(runs[i].Config.Libs()) != 1 {
			t.Errorf("run %d lost its lib_seq", i)
		}
	}
	if runs[0].Name != "as000_20160811_ME_k23_d0" {
		t.Errorf("run 0 name = %q", runs[0].Name)
	}
	if runs[2].Index != 2 {
		t.Errorf("run 2 index = %d, want 2", runs[2].Index)
	}
}

func TestPlanCrossProductOrder(t *testing.T) {
	cfg := baseConfig(t)
	spec := SweepSpec{Axes: []Axis{
		{Param: "mer_size", Values: []string{"23", "27"}},
		{Param: "diploid_mode", Values: []string{"0", "1", "2"}},
	}}
	runs, err := Plan(cfg, spec, NameSpec{Date: "20160811"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(runs) != 6 {
		t.Fatalf("got %d runs, want 6", len(runs))
	}
	// outer axis (mer_size) varies slowest, inner (diploid_mode) fastest
	var got []string
	for _, run := range runs {
		k, _ := run.Config.Get("mer_size")
		d, _ := run.Config.Get("diploid_mode")
		got = append(got, k+"/"+d)
	}
	want := []string{"23/0", "23/1", "23/2", "27/0", "27/1", "27/2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("combination order = %v, want %v", got, want)
		}
	}
	// all combinations distinct
	seen := map[string]bool{}
	for _, combo := range got {
		if seen[combo] {
			t.Errorf("duplicate combination %s", combo)
		}
		seen[combo] = true
	}
}

func TestPlanDeterministic(t *testing.T) {
	cfg := baseConfig(t)
	spec := TripletSpec([]string{"21", "31"})
	names := NameSpec{Date: "20160811", Genus: "Malacosteus", Species: "niger"}
	a, err := Plan(cfg, spec, names)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	b, err := Plan(cfg, spec, names)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			t.Errorf("run %d name differs between invocations: %q vs %q", i, a[i].Name, b[i].Name)
		}
	}
	if a[0].Name != "as000_20160811_ME_mala_nige_k21_d0" {
		t.Errorf("run 0 name = %q", a[0].Name)
	}
}

func TestPlanSingleValueAxis(t *testing.T) {
	cfg := baseConfig(t)
	spec := SweepSpec{Axes: []Axis{{Param: "mer_size", Values: []string{"31"}}}}
	runs, err := Plan(cfg, spec, NameSpec{})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if got, _ := runs[0].Config.Get("mer_size"); got != "31" {
		t.Errorf("mer_size = %q, want 31", got)
	}
}

func TestPlanEmptyAxis(t *testing.T) {
	cfg := baseConfig(t)
	spec := SweepSpec{Axes: []Axis{{Param: "mer_size", Values: nil}}}
	_, err := Plan(cfg, spec, NameSpec{})
	var empty *EmptySweepRangeError
	if !errors.As(err, &empty) {
		t.Fatalf("error = %v, want EmptySweepRangeError", err)
	}
	if empty.Param != "mer_size" {
		t.Errorf("Param = %q, want mer_size", empty.Param)
	}
}

func TestPlanRejectsEvenKmers(t *testing.T) {
	cfg := baseConfig(t)
	for _, bad := range []string{"22", "0", "-3", "21.5", "abc"} {
		spec := SweepSpec{Axes: []Axis{{Param: "mer_size", Values: []string{bad}}}}
		if _, err := Plan(cfg, spec, NameSpec{}); err == nil {
			t.Errorf("mer_size value %q accepted", bad)
		}
	}
}

func TestPlanRejectsIllegalNames(t *testing.T) {
	cfg := baseConfig(t)
	spec := SweepSpec{Axes: []Axis{{Param: "mer_size", Values: []string{"21"}}}}
	if _, err := Plan(cfg, spec, NameSpec{Genus: "bad/genus"}); err == nil {
		t.Error("genus with slash accepted")
	}
}

func TestPlanAxisSizesProduct(t *testing.T) {
	cfg := baseConfig(t)
	for _, sizes := range [][]int{{1}, {3}, {2, 3}, {2, 2, 2}} {
		var axes []Axis
		for a, n := range sizes {
			var vals []string
			for v := 0; v < n; v++ {
				vals = append(vals, fmt.Sprintf("%d", v))
			}
			axes = append(axes, Axis{Param: fmt.Sprintf("param_%d", a), Values: vals})
		}
		runs, err := Plan(cfg, SweepSpec{Axes: axes}, NameSpec{})
		if err != nil {
			t.Fatalf("Plan(%v): %v", sizes, err)
		}
		want := 1
		for _, n := range sizes {
			want *= n
		}
		if len(runs) != want {
			t.Errorf("axes %v produced %d runs, want %d", sizes, len(runs), want)
		}
	}
}
