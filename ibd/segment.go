// Package ibd models identity-by-descent (IBD) and homozygosity-by-descent
// (HBD) segments detected between target haplotypes, and the splice-merge
// logic that joins a segment spanning a window boundary into one record.
package ibd

import "math"

// HapPair identifies the two target haplotype indices an IBD/HBD segment
// was detected between.
type HapPair struct {
	Hap1, Hap2 int
}

// Segment is one candidate IBD/HBD tract for a haplotype pair, expressed
// in target-marker-index coordinates within the current window plus the
// genomic (chromosome, position) endpoints of the tract.
type Segment struct {
	Pair HapPair

	StartChrom, StartPos int
	EndChrom, EndPos      int

	Score float64

	// StartIndex is the tract's starting target-marker index within the
	// current window, or -1 if the tract began in a previous window (the
	// sentinel a merge leaves behind).
	StartIndex int
	// EndIndex is the tract's ending target-marker index within the
	// current window.
	EndIndex int
}

// Merge joins a segment buffered from the previous window (a) with a
// segment from the current window that picks up where it left off (b,
// with b.StartIndex == 0). The merged segment spans from a's start to b's
// end, keeps the higher of the two scores, and carries the -1 sentinel
// start index marking it as having begun before the current window.
func Merge(a, b Segment) Segment {
	return Segment{
		Pair:       a.Pair,
		StartChrom: a.StartChrom,
		StartPos:   a.StartPos,
		EndChrom:   b.EndChrom,
		EndPos:     b.EndPos,
		Score:      math.Max(a.Score, b.Score),
		StartIndex: -1,
		EndIndex:   b.EndIndex,
	}
}

// SameSample reports whether the segment's two haplotypes belong to the
// same sample, i.e. it describes an HBD tract rather than an IBD tract.
func (s Segment) SameSample() bool {
	return s.Pair.Hap1/2 == s.Pair.Hap2/2
}
