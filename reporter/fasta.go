package reporter

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"gonum.org/v1/gonum/stat"
)

// FastaStats are the assembly summary numbers for one FASTA file.
type FastaStats struct {
	NumSeqs   int
	TotalLen  int
	MeanLen   float64
	MedianLen float64
	MaxLen    int
	N50       int
	GC        float64
}

// ReadFastaStats scans a (optionally gzipped) FASTA file and computes
// contig/scaffold summary statistics.
func ReadFastaStats(path string) (FastaStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return FastaStats{}, err
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(f)
		if err != nil {
			return FastaStats{}, fmt.Errorf("opening gzip reader for %s: %w", path, err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	r := fasta.NewReader(reader, linear.NewSeq("", nil, alphabet.DNA))
	sc := seqio.NewScanner(r)

	var (
		lengths []float64
		gcBases int
	)
	stats := FastaStats{}
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		n := s.Len()
		stats.NumSeqs++
		stats.TotalLen += n
		if n > stats.MaxLen {
			stats.MaxLen = n
		}
		lengths = append(lengths, float64(n))
		for _, l := range s.Seq {
			switch byte(l) {
			case 'G', 'C', 'g', 'c', 'S', 's':
				gcBases++
			}
		}
	}
	if err := sc.Error(); err != nil {
		return stats, fmt.Errorf("reading fasta %s: %w", path, err)
	}
	if stats.NumSeqs == 0 {
		return stats, nil
	}

	stats.MeanLen = stat.Mean(lengths, nil)
	sort.Float64s(lengths)
	stats.MedianLen = stat.Quantile(0.5, stat.Empirical, lengths, nil)
	stats.GC = float64(gcBases) / float64(stats.TotalLen)
	stats.N50 = n50(lengths, stats.TotalLen)
	return stats, nil
}

// n50 expects lengths sorted ascending.
func n50(lengths []float64, totalLen int) int {
	half := float64(totalLen) / 2
	var cum float64
	for i := len(lengths) - 1; i >= 0; i-- {
		cum += lengths[i]
		if cum >= half {
			return int(lengths[i])
		}
	}
	return 0
}
