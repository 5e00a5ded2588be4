package haplotype

import "github.com/browning-lab/beagle-impute/marker"

// RefHapSeg holds the distinct reference allele-sequence vocabulary over
// one chromosome segment [start, end) of reference-marker indices: one row
// per distinct sequence, one column per marker in the segment.
type RefHapSeg struct {
	start, end int
	seq        []int // seq[hap] = index of hap's allele sequence among the segment's distinct sequences
	alleles    [][]int // alleles[marker-start][seq] = allele index
}

// NewRefHapSeg builds the distinct-sequence vocabulary for refHapPairs over
// the marker range [start, end).
func NewRefHapSeg(refHapPairs marker.SampleHapPairs, start, end int) *RefHapSeg {
	nHaps := refHapPairs.NHaps()
	n := end - start

	seq := make([]int, nHaps)
	seen := make(map[string]int)
	var alleles [][]int

	for h := 0; h < nHaps; h++ {
		key := make([]byte, 0, n*2)
		row := make([]int, n)
		for i := 0; i < n; i++ {
			a := refHapPairs.Allele(start+i, h)
			row[i] = a
			key = append(key, byte(a), byte(a>>8))
		}
		code, ok := seen[string(key)]
		if !ok {
			code = len(alleles)
			seen[string(key)] = code
			col := make([]int, n)
			copy(col, row)
			alleles = append(alleles, col)
		}
		seq[h] = code
	}

	return &RefHapSeg{start: start, end: end, seq: seq, alleles: alleles}
}

// Start returns the segment's starting reference-marker index (inclusive).
func (r *RefHapSeg) Start() int { return r.start }

// End returns the segment's ending reference-marker index (exclusive).
func (r *RefHapSeg) End() int { return r.end }

// NMarkers returns the number of markers spanned by the segment.
func (r *RefHapSeg) NMarkers() int { return r.end - r.start }

// NSeq returns the number of distinct reference allele sequences in the
// segment.
func (r *RefHapSeg) NSeq() int { return len(r.alleles) }

// Seq returns the distinct-sequence index for reference haplotype hap.
func (r *RefHapSeg) Seq(hap int) int { return r.seq[hap] }

// Allele returns the allele at the given marker-offset within the segment
// (0-based, relative to Start()) for the given distinct-sequence index.
func (r *RefHapSeg) Allele(marker, seq int) int { return r.alleles[seq][marker] }
