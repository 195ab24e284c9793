package utils

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
)

// FastqStats summarizes one (optionally gzipped) fastq file.
type FastqStats struct {
	NumReads   int
	NumBases   int
	NumGCBases int
	PortionGC  float64
	AvgReadLen float64
}

// FastqInfo scans a fastq file and tallies read counts, base counts and GC
// content. S (strong) bases count toward GC.
func FastqInfo(path string) (FastqStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return FastqStats{}, err
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return FastqStats{}, fmt.Errorf("opening gzip reader for %s: %w", path, err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	r := fastq.NewReader(reader, linear.NewQSeq("", nil, alphabet.DNA, alphabet.Sanger))
	sc := seqio.NewScanner(r)

	var stats FastqStats
	for sc.Next() {
		s := sc.Seq().(*linear.QSeq)
		stats.NumReads++
		stats.NumBases += s.Len()
		for _, ql := range s.Seq {
			switch byte(ql.L) {
			case 'G', 'C', 'g', 'c', 'S', 's':
				stats.NumGCBases++
			}
		}
	}
	if err := sc.Error(); err != nil {
		return stats, fmt.Errorf("reading fastq %s: %w", path, err)
	}
	if stats.NumBases > 0 {
		stats.PortionGC = float64(stats.NumGCBases) / float64(stats.NumBases)
	}
	if stats.NumReads > 0 {
		stats.AvgReadLen = float64(stats.NumBases) / float64(stats.NumReads)
	}
	return stats, nil
}
