package merparse

import (
	"errors"
	"strings"
	"testing"
)

const testConfig = `# Meraculous params for the phix174 test set
lib_seq testdata/reads/*.fastq.gz PHIX 250 50 100 0 0 1 1 1 0 0
genome_size 0.005
mer_size 71
min_depth_cutoff 0
num_prefix_blocks 4
diploid_mode 0

use_cluster 0
no_read_validation 0
fallback_on_est_insert_size 0
gap_close_aggressive 0
gap_close_rpt_depth_ratio 2.0
local_num_procs 8
local_max_retries 0
`

func TestParseRoundTrip(t *testing.T) {
	cfg, err := Parse(strings.NewReader(testConfig), "test.config")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := cfg.String(); got != testConfig {
		t.Errorf("round trip mismatch:\ngot:\n%s\nwant:\n%s", got, testConfig)
	}
}

func TestParseGetSet(t *testing.T) {
	cfg, err := Parse(strings.NewReader(testConfig), "test.config")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	mer, err := cfg.Get("mer_size")
	if err != nil {
		t.Fatalf("Get(mer_size): %v", err)
	}
	if mer != "71" {
		t.Errorf("mer_size = %q, want 71", mer)
	}

	cfg.Set("mer_size", "23")
	if got, _ := cfg.Get("mer_size"); got != "23" {
		t.Errorf("after Set, mer_size = %q, want 23", got)
	}

	_, err = cfg.Get("no_such_param")
	var notFound *KeyNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Get(no_such_param) error = %v, want KeyNotFoundError", err)
	}

	cfg.Set("brand_new", "1")
	if got, _ := cfg.Get("brand_new"); got != "1" {
		t.Errorf("Set of new key did not stick, got %q", got)
	}
}

func TestParseMalformedLine(t *testing.T) {
	_, err := Parse(strings.NewReader("mer_size\n"), "bad.config")
	var malformed *MalformedLineError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedLineError", err)
	}
	if malformed.Line != 1 {
		t.Errorf("Line = %d, want 1", malformed.Line)
	}
}

func TestParseRepeatedLibSeq(t *testing.T) {
	text := "lib_seq a/*.gz LIBA 250 50 100 0 0 1 1 1 0 0\n" +
		"lib_seq b/*.gz LIBB 3000 300 100 0 1 0 2 1 0 0\n" +
		"mer_size 31\n"
	cfg, err := Parse(strings.NewReader(text), "libs.config")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	libs := cfg.Libs()
	if len(libs) != 2 {
		t.Fatalf("got %d libs, want 2", len(libs))
	}
	if libs[0].Name != "LIBA" || libs[1].Name != "LIBB" {
		t.Errorf("lib order not preserved: %q, %q", libs[0].Name, libs[1].Name)
	}
	if libs[1].InsertAvg != 3000 || libs[1].IsRevComped != 1 || libs[1].ScaffRound != 2 {
		t.Errorf("LIBB fields misparsed: %+v", libs[1])
	}
	if got := cfg.String(); got != text {
		t.Errorf("lib_seq round trip mismatch:\ngot:\n%s\nwant:\n%s", got, text)
	}
}

func TestParseLibSeqErrors(t *testing.T) {
	if _, err := Parse(strings.NewReader("lib_seq a/*.gz LIBA 250 50\n"), "short.config"); err == nil {
		t.Error("short lib_seq line parsed without error")
	}
	if _, err := Parse(strings.NewReader("lib_seq a/*.gz LIBA 250 50 100 0 0 1 1 one 0 0\n"), "bad.config"); err == nil {
		t.Error("non-integer lib_seq field parsed without error")
	}
}

func TestKeysPreserveFileOrder(t *testing.T) {
	text := "mer_size 31\nlib_seq a/*.gz LIBA 250 50 100 0 0 1 1 1 0 0\n" +
		"lib_seq b/*.gz LIBB 3000 300 100 0 1 0 2 1 0 0\n" +
		"genome_size 0.005\n"
	cfg, err := Parse(strings.NewReader(text), "keys.config")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"mer_size", "lib_seq", "lib_seq", "genome_size"}
	got := cfg.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg, err := Parse(strings.NewReader(testConfig), "test.config")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	dup := cfg.Clone()
	dup.Set("mer_size", "23")
	if got, _ := cfg.Get("mer_size"); got != "71" {
		t.Errorf("mutating the clone changed the original: mer_size = %q", got)
	}
}

func TestLibSeqString(t *testing.T) {
	lib, err := ParseLibSeq(strings.Fields("a/*.gz LIBA 250 50 100 0 0 1 1 1 0 0"))
	if err != nil {
		t.Fatalf("ParseLibSeq: %v", err)
	}
	want := "a/*.gz LIBA 250 50 100 0 0 1 1 1 0 0"
	if lib.String() != want {
		t.Errorf("String() = %q, want %q", lib.String(), want)
	}
}
