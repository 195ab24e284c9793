package reporter

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testScaffolds = `>scaffold_1 first
ACGTACGTAC
>scaffold_2 second
GGGGGGGGGGGGGGGGGGGG
>scaffold_3 third
ACGTACGTACGTACGTACGTACGTACGTAC
`

// fakeRun builds a minimal Meraculous run directory under dir.
func fakeRun(t *testing.T, dir, name string) string {
	t.Helper()
	runDir := filepath.Join(dir, name)
	for _, sub := range []string{
		"log", "meraculous_import", "meraculous_contigs",
		"meraculous_mercount", "meraculous_final_results",
	} {
		if err := os.MkdirAll(filepath.Join(runDir, sub), 0755); err != nil {
			t.Fatal(err)
		}
	}
	logText := "mer_size 31\ndiploid_mode 0\ngenome_size 0.005\nmin_depth_cutoff 2\n"
	files := map[string]string{
		"log/meraculous.log":                          logText,
		"meraculous_contigs/UUtigs.fa":                testScaffolds,
		"meraculous_final_results/final.scaffolds.fa": testScaffolds,
		"meraculous_mercount/mercount.png":            "not really a png",
		"meraculous_mercount/kha.png":                 "not really a png",
		"meraculous_mercount/mercount.hist":           "1 100\n2 250\n3 120\n4 30\n",
	}
	for rel, content := range files {
		if err := os.WriteFile(filepath.Join(runDir, rel), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return runDir
}

func TestReadFastaStats(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "scaffolds.fa")
	if err := os.WriteFile(path, []byte(testScaffolds), 0644); err != nil {
		t.Fatal(err)
	}
	stats, err := ReadFastaStats(path)
	if err != nil {
		t.Fatalf("ReadFastaStats: %v", err)
	}
	if stats.NumSeqs != 3 {
		t.Errorf("NumSeqs = %d, want 3", stats.NumSeqs)
	}
	if stats.TotalLen != 60 {
		t.Errorf("TotalLen = %d, want 60", stats.TotalLen)
	}
	if stats.MaxLen != 30 {
		t.Errorf("MaxLen = %d, want 30", stats.MaxLen)
	}
	if stats.N50 != 30 {
		t.Errorf("N50 = %d, want 30", stats.N50)
	}
	if stats.MeanLen != 20 {
		t.Errorf("MeanLen = %f, want 20", stats.MeanLen)
	}
	if stats.MedianLen != 20 {
		t.Errorf("MedianLen = %f, want 20", stats.MedianLen)
	}
	if math.Abs(stats.GC-40.0/60.0) > 1e-9 {
		t.Errorf("GC = %f, want %f", stats.GC, 40.0/60.0)
	}
}

func TestIsMerRun(t *testing.T) {
	tmp := t.TempDir()
	runDir := fakeRun(t, tmp, "as000_test_k31_d0")
	if !IsMerRun(runDir) {
		t.Error("fake run not recognized")
	}
	if IsMerRun(tmp) {
		t.Error("plain directory recognized as a run")
	}
}

func TestCollateScansAssembliesDir(t *testing.T) {
	tmp := t.TempDir()
	fakeRun(t, tmp, "as000_test_k31_d0")
	// noise that must be ignored
	if err := os.MkdirAll(filepath.Join(tmp, "not_an_assembly"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := Collate(tmp)
	if err != nil {
		t.Fatalf("Collate: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.RunName != "as000_test_k31_d0" {
		t.Errorf("RunName = %q", e.RunName)
	}
	if e.MerSize != "31" || e.DiploidMode != "0" || e.GenomeSize != "0.005" || e.MinDepthCutoff != "2" {
		t.Errorf("params misparsed: %+v", e)
	}
	if len(e.Stages) != 2 {
		t.Fatalf("got %d stages, want 2 (UUtigs + final scaffolds): %+v", len(e.Stages), e.Stages)
	}
	final, ok := e.FinalStats()
	if !ok || final.Stats.N50 != 30 {
		t.Errorf("FinalStats = %+v, %v", final, ok)
	}
	if len(e.Images) != 2 {
		t.Errorf("got %d images, want 2", len(e.Images))
	}
	if e.MercountHist == "" {
		t.Error("mercount histogram not found")
	}
}

func TestCollateOneBareRunDir(t *testing.T) {
	tmp := t.TempDir()
	runDir := fakeRun(t, tmp, "as000_test_k31_d0")

	entries, err := CollateOne(runDir)
	if err != nil {
		t.Fatalf("CollateOne: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].RunName != "as000_test_k31_d0" {
		t.Errorf("RunName = %q", entries[0].RunName)
	}
	if entries[0].MerSize != "31" {
		t.Errorf("MerSize = %q, want 31", entries[0].MerSize)
	}

	entries, err = CollateOne(tmp)
	if err != nil {
		t.Fatalf("CollateOne of non-run dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("non-run dir yielded %d entries", len(entries))
	}
}

func TestCollateEmptyDir(t *testing.T) {
	entries, err := Collate(t.TempDir())
	if err != nil {
		t.Fatalf("Collate: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries from empty dir", len(entries))
	}
}

func TestCollateMissingDir(t *testing.T) {
	entries, err := Collate(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Collate of missing dir: %v", err)
	}
	if entries != nil {
		t.Errorf("entries = %v, want nil", entries)
	}
}

func TestRenderFullReport(t *testing.T) {
	tmp := t.TempDir()
	fakeRun(t, tmp, "as000_test_k31_d0")
	fakeRun(t, tmp, "as001_test_k41_d0")
	entries, err := Collate(tmp)
	if err != nil {
		t.Fatalf("Collate: %v", err)
	}

	outDir := filepath.Join(tmp, "reports")
	if err := Render(entries, outDir); err != nil {
		t.Fatalf("Render: %v", err)
	}

	index, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	if err != nil {
		t.Fatalf("reading index: %v", err)
	}
	for _, want := range []string{"as000_test_k31_d0", "as001_test_k41_d0", "n50_comparison.html"} {
		if !strings.Contains(string(index), want) {
			t.Errorf("index missing %q", want)
		}
	}

	for _, file := range []string{
		"as000_test_k31_d0_report.html",
		filepath.Join("as000_test_k31_d0", "mercount.png"),
		filepath.Join("as000_test_k31_d0", "kha.png"),
		filepath.Join("as000_test_k31_d0", "kmer_histogram.html"),
		"n50_comparison.html",
		"summary.csv",
	} {
		if _, err := os.Stat(filepath.Join(outDir, file)); err != nil {
			t.Errorf("missing report artifact %s", file)
		}
	}

	page, err := os.ReadFile(filepath.Join(outDir, "as000_test_k31_d0_report.html"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"mer_size", "UUtigs", "final scaffolds", "mercount.png"} {
		if !strings.Contains(string(page), want) {
			t.Errorf("run page missing %q", want)
		}
	}

	summary, err := os.ReadFile(filepath.Join(outDir, "summary.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(summary), "n50") {
		t.Errorf("summary missing header: %q", summary)
	}
}

func TestRenderEmptyEntries(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "reports")
	if err := Render(nil, outDir); err != nil {
		t.Fatalf("Render: %v", err)
	}
	index, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	if err != nil {
		t.Fatalf("empty render produced no index: %v", err)
	}
	if !strings.Contains(string(index), "gloTK assembly reports") {
		t.Errorf("index malformed: %q", index)
	}
}

func TestRenderErrorOnBadOutputDir(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocked")
	if err := os.WriteFile(blocker, []byte("file, not dir"), 0644); err != nil {
		t.Fatal(err)
	}
	err := Render(nil, filepath.Join(blocker, "reports"))
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("error = %v, want RenderError", err)
	}
}

func TestLoadMercountHist(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "mercount.hist")
	if err := os.WriteFile(path, []byte("1\t100\n2   250\n3 120\n"), 0644); err != nil {
		t.Fatal(err)
	}
	df, err := loadMercountHist(path)
	if err != nil {
		t.Fatalf("loadMercountHist: %v", err)
	}
	if df.Nrow() != 3 {
		t.Errorf("Nrow = %d, want 3", df.Nrow())
	}
	counts := df.Col("Count").Float()
	if counts[1] != 250 {
		t.Errorf("Count[1] = %f, want 250", counts[1])
	}
}
