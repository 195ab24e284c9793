package merparse

import (
	"fmt"
	"strconv"
	"strings"
)

// LibSeq is one read-library line of a Meraculous config. The text format is
// twelve positional whitespace-separated fields; here each field is named so
// callers never index into the line.
type LibSeq struct {
	Wildcard             string
	Name                 string
	InsertAvg            int
	InsertSdev           int
	AvgReadLen           int
	HasInnieArtifact     int
	IsRevComped          int
	UseForContiging      int
	ScaffRound           int
	UseForGapClosing     int
	FivePrimeWiggleRoom  int
	ThreePrimeWiggleRoom int
}

const libSeqFields = 12

// ParseLibSeq builds a LibSeq from the fields following the lib_seq keyword.
func ParseLibSeq(fields []string) (LibSeq, error) {
	if len(fields) != libSeqFields {
		return LibSeq{}, fmt.Errorf("lib_seq needs %d fields, got %d", libSeqFields, len(fields))
	}
	ints := make([]int, libSeqFields)
	for i := 2; i < libSeqFields; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return LibSeq{}, fmt.Errorf("lib_seq field %d (%q) is not an integer", i+1, fields[i])
		}
		ints[i] = v
	}
	return LibSeq{
		Wildcard:             fields[0],
		Name:                 fields[1],
		InsertAvg:            ints[2],
		InsertSdev:           ints[3],
		AvgReadLen:           ints[4],
		HasInnieArtifact:     ints[5],
		IsRevComped:          ints[6],
		UseForContiging:      ints[7],
		ScaffRound:           ints[8],
		UseForGapClosing:     ints[9],
		FivePrimeWiggleRoom:  ints[10],
		ThreePrimeWiggleRoom: ints[11],
	}, nil
}

// Fields returns the twelve positional fields in wire order.
func (l LibSeq) Fields() []string {
	return []string{
		l.Wildcard,
		l.Name,
		strconv.Itoa(l.InsertAvg),
		strconv.Itoa(l.InsertSdev),
		strconv.Itoa(l.AvgReadLen),
		strconv.Itoa(l.HasInnieArtifact),
		strconv.Itoa(l.IsRevComped),
		strconv.Itoa(l.UseForContiging),
		strconv.Itoa(l.ScaffRound),
		strconv.Itoa(l.UseForGapClosing),
		strconv.Itoa(l.FivePrimeWiggleRoom),
		strconv.Itoa(l.ThreePrimeWiggleRoom),
	}
}

func (l LibSeq) String() string {
	return strings.Join(l.Fields(), " ")
}
