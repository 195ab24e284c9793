package merparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// EmptySweepRangeError reports a declared sweep axis with no candidate
// values.
type EmptySweepRangeError struct {
	Param string
}

func (e *EmptySweepRangeError) Error() string {
	return fmt.Sprintf("sweep axis %q has no values", e.Param)
}

// Axis is one swept parameter with its explicit candidate values.
type Axis struct {
	Param  string
	Values []string
}

// SweepSpec declares the parameters to vary. The cross-product is iterated
// outer-to-inner in axis declaration order, so identical specs always yield
// identical run ordering.
type SweepSpec struct {
	Axes []Axis
}

// TripletSpec sweeps mer_size over kmers and diploid_mode over 0, 1 and 2,
// giving three assemblies per k-mer size.
func TripletSpec(kmers []string) SweepSpec {
	return SweepSpec{Axes: []Axis{
		{Param: "mer_size", Values: kmers},
		{Param: "diploid_mode", Values: []string{"0", "1", "2"}},
	}}
}

// NameSpec controls run-name generation. A zero value means prefix "as",
// index 0 and today's date.
type NameSpec struct {
	Prefix     string
	StartIndex int
	Date       string // YYYYMMDD
	Genus      string
	Species    string
}

// PlannedRun is one fully resolved configuration produced by a sweep.
type PlannedRun struct {
	Name   string
	Index  int
	Config *Config
	Swept  map[string]string // the axis values this run was given
}

// Plan clones base once per combination of the sweep axes, overwriting the
// swept keys, and tags every clone with a generated run name of the form
//
//	as000_20160811_ME_mala_nige_k21_d0
//
// mer_size candidates must be odd positive integers; Meraculous cannot use
// even k.
func Plan(base *Config, spec SweepSpec, names NameSpec) ([]PlannedRun, error) {
	if len(spec.Axes) == 0 {
		return nil, fmt.Errorf("sweep declares no axes")
	}
	for _, axis := range spec.Axes {
		if len(axis.Values) == 0 {
			return nil, &EmptySweepRangeError{Param: axis.Param}
		}
		if axis.Param == "mer_size" {
			bad := lo.Filter(axis.Values, func(v string, _ int) bool {
				k, err := strconv.Atoi(v)
				return err != nil || k <= 0 || k%2 == 0
			})
			if len(bad) > 0 {
				return nil, fmt.Errorf("mer_size sweep values must be odd positive integers, got %v", bad)
			}
		}
	}
	if err := checkNameParts(names.Genus, names.Species); err != nil {
		return nil, err
	}
	if names.Prefix == "" {
		names.Prefix = "as"
	}
	if names.Date == "" {
		names.Date = time.Now().Format("20060102")
	}

	total := 1
	for _, axis := range spec.Axes {
		total *= len(axis.Values)
	}

	runs := make([]PlannedRun, 0, total)
	// Odometer over the axes; the last axis spins fastest.
	idx := make([]int, len(spec.Axes))
	for n := 0; n < total; n++ {
		cfg := base.Clone()
		swept := make(map[string]string, len(spec.Axes))
		for a, axis := range spec.Axes {
			v := axis.Values[idx[a]]
			cfg.Set(axis.Param, v)
			swept[axis.Param] = v
		}
		runIndex := names.StartIndex + n
		run := PlannedRun{
			Name:   runName(names, runIndex, cfg),
			Index:  runIndex,
			Config: cfg,
			Swept:  swept,
		}
		runs = append(runs, run)

		for a := len(idx) - 1; a >= 0; a-- {
			idx[a]++
			if idx[a] < len(spec.Axes[a].Values) {
				break
			}
			idx[a] = 0
		}
	}
	return runs, nil
}

// runName encodes prefix+index, date, assembler tag, genus/species
// abbreviations, k-mer size and diploid mode.
func runName(names NameSpec, index int, cfg *Config) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%03d_%s_ME", names.Prefix, index, names.Date)
	if names.Genus != "" {
		sb.WriteString("_" + abbrev(names.Genus))
	}
	if names.Species != "" {
		sb.WriteString("_" + abbrev(names.Species))
	}
	fmt.Fprintf(&sb, "_k%s_d%s", cfg.GetDefault("mer_size", "?"), cfg.GetDefault("diploid_mode", "0"))
	return sb.String()
}

// abbrev lowercases and truncates a genus or species name to four letters,
// the convention Meraculous run directories use.
func abbrev(s string) string {
	s = strings.ToLower(s)
	if len(s) > 4 {
		return s[:4]
	}
	return s
}

// checkNameParts rejects genus/species strings that would produce hostile
// file names.
func checkNameParts(parts ...string) error {
	for _, p := range parts {
		for _, r := range p {
			ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
			if !ok {
				return fmt.Errorf("genus/species %q contains characters other than ASCII letters and digits", p)
			}
		}
	}
	return nil
}
