package haplotype

import (
	"fmt"

	"github.com/exascience/pargo/parallel"

	"github.com/browning-lab/beagle-impute/marker"
)

// RefHapSegs holds, for a chromosome's worth of marker clusters, the
// reference allele-sequence vocabulary over each of the nClusters+1
// overlapping segments those clusters define. Segment 0 spans
// [0, clusterEnd[0]); segment j in [1, nClusters-1] spans
// [clusterStart[j-1], clusterEnd[j]); segment nClusters spans
// [clusterStart[nClusters-1], nMarkers). Consecutive segments therefore
// overlap by one cluster's worth of markers on each side, which the
// Li-Stephens engine's interpolation step relies on.
type RefHapSegs struct {
	clusterStart []int
	clusterEnd   []int
	refHapPairs  marker.SampleHapPairs
	segs         []*RefHapSeg
}

// NewRefHapSegs builds a RefHapSegs from refHapPairs and the given cluster
// boundaries, computing each segment's vocabulary in parallel.
func NewRefHapSegs(refHapPairs marker.SampleHapPairs, clusterStart, clusterEnd []int) (*RefHapSegs, error) {
	nMarkers := refHapPairs.NMarkers()
	if err := checkClusters(clusterStart, clusterEnd, nMarkers); err != nil {
		return nil, err
	}

	nSegs := len(clusterStart) + 1
	segs := make([]*RefHapSeg, nSegs)
	parallel.Range(0, nSegs, 0, func(low, high int) {
		for j := low; j < high; j++ {
			start, end := segmentBounds(j, clusterStart, clusterEnd, nMarkers)
			segs[j] = NewRefHapSeg(refHapPairs, start, end)
		}
	})

	cs := make([]int, len(clusterStart))
	ce := make([]int, len(clusterEnd))
	copy(cs, clusterStart)
	copy(ce, clusterEnd)

	return &RefHapSegs{clusterStart: cs, clusterEnd: ce, refHapPairs: refHapPairs, segs: segs}, nil
}

func checkClusters(starts, ends []int, nMarkers int) error {
	if len(starts) != len(ends) {
		return fmt.Errorf("haplotype: clusterStart and clusterEnd lengths differ: %d != %d", len(starts), len(ends))
	}
	if len(starts) > 0 && starts[0] < 0 {
		return fmt.Errorf("haplotype: clusterStart[0] = %d < 0", starts[0])
	}
	if len(ends) > 0 && ends[len(ends)-1] > nMarkers {
		return fmt.Errorf("haplotype: clusterEnd[%d] = %d > nMarkers = %d", len(ends)-1, ends[len(ends)-1], nMarkers)
	}
	for j := range starts {
		if starts[j] >= ends[j] {
			return fmt.Errorf("haplotype: clusterStart[%d] = %d >= clusterEnd[%d] = %d", j, starts[j], j, ends[j])
		}
		if j > 0 && ends[j-1] > starts[j] {
			return fmt.Errorf("haplotype: clusterEnd[%d] = %d > clusterStart[%d] = %d", j-1, ends[j-1], j, starts[j])
		}
	}
	return nil
}

func segmentBounds(index int, starts, ends []int, nMarkers int) (start, end int) {
	if index == 0 {
		start = 0
	} else {
		start = starts[index-1]
	}
	if index == len(ends) {
		end = nMarkers
	} else {
		end = ends[index]
	}
	return start, end
}

// RefHapPairs returns the reference haplotype pairs.
func (r *RefHapSegs) RefHapPairs() marker.SampleHapPairs { return r.refHapPairs }

// NClusters returns the number of marker clusters.
func (r *RefHapSegs) NClusters() int { return len(r.clusterStart) }

// ClusterStart returns the starting reference-marker index (inclusive) of
// the given cluster.
func (r *RefHapSegs) ClusterStart(cluster int) int { return r.clusterStart[cluster] }

// ClusterEnd returns the ending reference-marker index (exclusive) of the
// given cluster.
func (r *RefHapSegs) ClusterEnd(cluster int) int { return r.clusterEnd[cluster] }

// NSeq returns the number of distinct reference allele sequences in the
// given segment.
func (r *RefHapSegs) NSeq(segment int) int { return r.segs[segment].NSeq() }

// NMarkers returns the number of markers in the given segment.
func (r *RefHapSegs) NMarkers(segment int) int { return r.segs[segment].NMarkers() }

// Seq returns the distinct-sequence index in the given segment for the
// given reference haplotype.
func (r *RefHapSegs) Seq(segment, hap int) int { return r.segs[segment].Seq(hap) }

// Allele returns the allele at the given marker offset (relative to the
// segment's start) for the given distinct-sequence index in the given
// segment.
func (r *RefHapSegs) Allele(segment, marker, seq int) int {
	return r.segs[segment].Allele(marker, seq)
}

// SegStart returns the given segment's starting reference-marker index.
func (r *RefHapSegs) SegStart(segment int) int { return r.segs[segment].Start() }

// SegEnd returns the given segment's ending reference-marker index.
func (r *RefHapSegs) SegEnd(segment int) int { return r.segs[segment].End() }
