// Package wrappers drives the external read-QC programs gloTK projects use
// around the assembler itself.
package wrappers

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/rand"

	"github.com/cypridina/glotk/utils"
)

// runCmd is the shell launch hook. Tests replace it to inspect command
// strings without the tools installed.
var runCmd = utils.RunBashCmdVerbose

// Seqtk subsamples a fastq file down to ReadCount reads. A zero Seed picks
// a random one; callers needing reproducible subsamples set Seed themselves.
type Seqtk struct {
	Seed       uint64
	InputFile  string
	ReadCount  int
	OutputFile string
}

// Sample runs seqtk sample and gzips its stdout into OutputFile.
func (s Seqtk) Sample() error {
	seed := s.Seed
	if seed == 0 {
		seed = rand.New(rand.NewSource(uint64(time.Now().UnixNano()))).Uint64()
	}
	cmdStr := fmt.Sprintf("seqtk sample -s %d %s %d | gzip -c > %s",
		seed, s.InputFile, s.ReadCount, s.OutputFile)
	fmt.Println(cmdStr)
	return runCmd(cmdStr)
}

// SeqPrep merges and adapter-trims one read pair with SeqPrep2.
type SeqPrep struct {
	Forward    string
	Reverse    string
	OutForward string
	OutReverse string
	OutMerged  string
	QualCutoff int // -q, mismatch quality cutoff in overlaps
	LenCutoff  int // -L, minimum printed read length
	AdapterA   string
	AdapterB   string
}

func (s SeqPrep) Run() error {
	cmdStr := fmt.Sprintf("SeqPrep2 -f %s -r %s -1 %s -2 %s",
		s.Forward, s.Reverse, s.OutForward, s.OutReverse)
	if s.OutMerged != "" {
		cmdStr += fmt.Sprintf(" -s %s", s.OutMerged)
	}
	if s.QualCutoff > 0 {
		cmdStr += fmt.Sprintf(" -q %d", s.QualCutoff)
	}
	if s.LenCutoff > 0 {
		cmdStr += fmt.Sprintf(" -L %d", s.LenCutoff)
	}
	if s.AdapterA != "" {
		cmdStr += fmt.Sprintf(" -A %s", s.AdapterA)
	}
	if s.AdapterB != "" {
		cmdStr += fmt.Sprintf(" -B %s", s.AdapterB)
	}
	fmt.Println(cmdStr)
	return runCmd(cmdStr)
}

// FastQC runs FastQC over a set of read files into OutDir.
type FastQC struct {
	Reads   []string
	OutDir  string
	Threads int
}

func (f FastQC) Run() error {
	threads := f.Threads
	if threads < 1 {
		threads = 1
	}
	cmdStr := fmt.Sprintf("fastqc -t %d -o %s %s",
		threads, f.OutDir, strings.Join(f.Reads, " "))
	fmt.Println(cmdStr)
	return runCmd(cmdStr)
}
