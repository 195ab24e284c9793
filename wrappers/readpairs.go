package wrappers

import (
	"sort"
	"strings"
)

// forward/reverse filename tags, checked in order.
var pairTags = [][2]string{
	{"_R1", "_R2"},
	{"_1.", "_2."},
	{".R1.", ".R2."},
}

// PairReads matches forward and reverse fastq files by the usual _R1/_R2 and
// _1/_2 naming conventions. Files with no mate in the list come back in
// unpaired, in sorted order; each pair is (forward, reverse).
func PairReads(files []string) (pairs [][2]string, unpaired []string) {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	present := make(map[string]bool, len(sorted))
	for _, f := range sorted {
		present[f] = true
	}

	used := make(map[string]bool)
	for _, f := range sorted {
		if used[f] {
			continue
		}
		mate := ""
		for _, tag := range pairTags {
			i := strings.LastIndex(f, tag[0])
			if i < 0 {
				continue
			}
			candidate := f[:i] + tag[1] + f[i+len(tag[0]):]
			if present[candidate] && !used[candidate] {
				mate = candidate
				break
			}
		}
		if mate == "" {
			unpaired = append(unpaired, f)
			continue
		}
		used[f], used[mate] = true, true
		pairs = append(pairs, [2]string{f, mate})
	}
	return pairs, unpaired
}
