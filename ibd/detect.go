package ibd

import (
	"sync"

	"github.com/exascience/pargo/parallel"

	"github.com/browning-lab/beagle-impute/marker"
)

// MinLength is the minimum number of target markers a run of identical
// alleles must span before it is reported as a candidate segment.
const MinLength = 20

// Detect compares every pair of target haplotypes over targetHaps and
// returns maximal runs of identical alleles, scored by run length in
// markers, keyed by haplotype pair. This is a simplified allele-identity
// surrogate for the production IBD/HBD segment detector, whose exact
// algorithm is a separate concern from the splice-and-merge assembly this
// module exercises.
func Detect(targetHaps marker.SampleHapPairs) map[HapPair][]Segment {
	nHaps := targetHaps.NHaps()
	out := make(map[HapPair][]Segment)
	if targetHaps.NMarkers() == 0 {
		return out
	}

	var mu sync.Mutex
	parallel.Range(0, nHaps, 0, func(low, high int) {
		local := make(map[HapPair][]Segment)
		for h1 := low; h1 < high; h1++ {
			for h2 := h1 + 1; h2 < nHaps; h2++ {
				if segs := detectPair(targetHaps, h1, h2); len(segs) > 0 {
					local[HapPair{Hap1: h1, Hap2: h2}] = segs
				}
			}
		}
		if len(local) == 0 {
			return
		}
		mu.Lock()
		for k, v := range local {
			out[k] = v
		}
		mu.Unlock()
	})
	return out
}

func detectPair(targetHaps marker.SampleHapPairs, h1, h2 int) []Segment {
	nMarkers := targetHaps.NMarkers()
	var segs []Segment
	runStart := -1
	for m := 0; m < nMarkers; m++ {
		if targetHaps.Allele(m, h1) == targetHaps.Allele(m, h2) {
			if runStart == -1 {
				runStart = m
			}
			continue
		}
		if runStart != -1 {
			if m-runStart >= MinLength {
				segs = append(segs, buildSegment(targetHaps.Markers(), h1, h2, runStart, m-1))
			}
			runStart = -1
		}
	}
	if runStart != -1 && nMarkers-runStart >= MinLength {
		segs = append(segs, buildSegment(targetHaps.Markers(), h1, h2, runStart, nMarkers-1))
	}
	return segs
}

func buildSegment(markers marker.Markers, h1, h2, start, end int) Segment {
	startMk := markers.Marker(start)
	endMk := markers.Marker(end)
	return Segment{
		Pair:       HapPair{Hap1: h1, Hap2: h2},
		StartChrom: startMk.ChromIndex(),
		StartPos:   startMk.Pos(),
		EndChrom:   endMk.ChromIndex(),
		EndPos:     endMk.Pos(),
		Score:      float64(end - start + 1),
		StartIndex: start,
		EndIndex:   end,
	}
}
