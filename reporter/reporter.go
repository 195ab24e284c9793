// Package reporter collates finished Meraculous runs into HTML reports.
package reporter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Stage names a Meraculous pipeline output file whose assembly stats belong
// in the report.
type Stage struct {
	Label string
	Path  string // relative to the run directory
}

// The stages worth reporting, in pipeline order. Diploid-only outputs are
// simply absent for haploid runs and get skipped.
var stages = []Stage{
	{Label: "UUtigs", Path: "meraculous_contigs/UUtigs.fa"},
	{Label: "haplotigs", Path: "meraculous_bubble/haplotigs.fa"},
	{Label: "gap-closed scaffolds", Path: "meraculous_gap_closure/final.scaffolds.fa"},
	{Label: "single-haplotype scaffolds", Path: "meraculous_gap_closure/final.scaffolds.single-haplotype.fa"},
	{Label: "final scaffolds", Path: "meraculous_final_results/final.scaffolds.fa"},
}

// knownImages are the diagnostic plots Meraculous leaves behind.
var knownImages = []string{
	"meraculous_mercount/mercount.png",
	"meraculous_mercount/kha.png",
	"meraculous_bubble/haplotigs.depth.hist.png",
}

const mercountHist = "meraculous_mercount/mercount.hist"

// StageStats pairs a stage label with its FASTA stats.
type StageStats struct {
	Stage Stage
	Stats FastaStats
}

// Entry is everything the report knows about one assembly run. It is derived
// entirely from the run directory and never persisted.
type Entry struct {
	RunName        string
	Dir            string
	MerSize        string
	DiploidMode    string
	GenomeSize     string
	MinDepthCutoff string
	Stages         []StageStats
	Images         []string // absolute paths into the run directory
	MercountHist   string   // absolute path, empty if missing
}

// FinalStats returns the stats of the last pipeline stage present.
func (e Entry) FinalStats() (StageStats, bool) {
	if len(e.Stages) == 0 {
		return StageStats{}, false
	}
	return e.Stages[len(e.Stages)-1], true
}

// IsMerRun reports whether dir looks like a Meraculous run directory: both
// log/ and meraculous_import/ must exist.
func IsMerRun(dir string) bool {
	for _, sub := range []string{"log", "meraculous_import"} {
		fi, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !fi.IsDir() {
			return false
		}
	}
	return true
}

// Collate scans assembliesDir for Meraculous runs and extracts whatever each
// one has produced. Absent stage files and images are skipped; an empty or
// missing directory yields an empty slice, not an error.
func Collate(assembliesDir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(assembliesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning %s: %w", assembliesDir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		runDir := filepath.Join(assembliesDir, de.Name())
		if !IsMerRun(runDir) {
			continue
		}
		entries = append(entries, collateRun(runDir))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].RunName < entries[j].RunName })
	return entries, nil
}

// CollateOne treats dir itself as a single run directory.
func CollateOne(dir string) ([]Entry, error) {
	if !IsMerRun(dir) {
		return nil, nil
	}
	e := collateRun(dir)
	return []Entry{e}, nil
}

func collateRun(runDir string) Entry {
	e := Entry{
		RunName: filepath.Base(runDir),
		Dir:     runDir,
	}
	readRunParams(&e, filepath.Join(runDir, "log", "meraculous.log"))

	for _, stage := range stages {
		path := filepath.Join(runDir, stage.Path)
		stats, err := ReadFastaStats(path)
		if err != nil {
			continue
		}
		e.Stages = append(e.Stages, StageStats{Stage: stage, Stats: stats})
	}
	for _, img := range knownImages {
		path := filepath.Join(runDir, img)
		if _, err := os.Stat(path); err == nil {
			e.Images = append(e.Images, path)
		}
	}
	if path := filepath.Join(runDir, mercountHist); fileExists(path) {
		e.MercountHist = path
	}
	return e
}

// readRunParams greps the run's meraculous.log for the parameters the
// report header shows. Meraculous echoes each config parameter on its own
// "name value" line.
func readRunParams(e *Entry, logPath string) {
	f, err := os.Open(logPath)
	if err != nil {
		return
	}
	defer f.Close()

	wanted := map[string]*string{
		"mer_size":         &e.MerSize,
		"diploid_mode":     &e.DiploidMode,
		"genome_size":      &e.GenomeSize,
		"min_depth_cutoff": &e.MinDepthCutoff,
	}
	remaining := len(wanted)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && remaining > 0 {
		line := scanner.Text()
		for name, dst := range wanted {
			if *dst != "" || !strings.Contains(line, name) {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				*dst = fields[1]
				remaining--
			}
		}
	}
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
