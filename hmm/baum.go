// Package hmm implements the Li-Stephens hidden Markov model forward-
// backward recurrence that estimates, for one target haplotype, the
// posterior allele distribution at every reference marker.
package hmm

import (
	"math"

	"github.com/browning-lab/beagle-impute/impute"
	"github.com/browning-lab/beagle-impute/marker"
)

// Baum runs the Li-Stephens forward-backward algorithm against one
// window's ImputationData. A Baum is not safe for concurrent use by
// multiple goroutines; callers running one target haplotype per goroutine
// must construct one Baum per goroutine.
type Baum struct {
	data   *impute.Data
	lowMem bool

	n          int // number of reference haplotypes
	refMarkers marker.Markers

	alleleProbs []float64

	fwdVal                [][]float64
	bwdVal                []float64
	emBwdVal              []float64
	fwdValueIndex2Marker  []int
	emBwdValuesSum        float64

	fwdHapProbs [][]float64
	bwdHapProbs [][]float64

	windowIndex int
	arrayIndex  int
}

// NewBaum constructs a Baum over data. When lowMem is true, the forward
// recurrence retains only O(sqrt(C)) columns via a checkpointed buffer and
// re-materializes earlier columns on demand during the backward sweep;
// otherwise every forward column for the window is kept.
func NewBaum(data *impute.Data, lowMem bool) *Baum {
	nClusters := data.NClusters()
	n := data.RefHapPairs().NHaps()

	size := nClusters
	if lowMem {
		size = int(math.Ceil(math.Sqrt(1+8*float64(nClusters))/2.0)) + 1
	}

	fwdVal := make([][]float64, size)
	for i := range fwdVal {
		fwdVal[i] = make([]float64, n)
	}

	refHapSegs := data.RefHapSegs()
	fwdHapProbs := make([][]float64, nClusters)
	bwdHapProbs := make([][]float64, nClusters)
	for j := 0; j < nClusters; j++ {
		fwdHapProbs[j] = make([]float64, refHapSegs.NSeq(j+1))
		bwdHapProbs[j] = make([]float64, refHapSegs.NSeq(j))
	}

	return &Baum{
		data:                 data,
		lowMem:               lowMem,
		n:                    n,
		refMarkers:           data.RefHapPairs().Markers(),
		alleleProbs:          make([]float64, data.RefHapPairs().Markers().SumAllelesTotal()),
		fwdVal:               fwdVal,
		bwdVal:               make([]float64, n),
		emBwdVal:             make([]float64, n),
		fwdValueIndex2Marker: make([]int, size),
		fwdHapProbs:          fwdHapProbs,
		bwdHapProbs:          bwdHapProbs,
	}
}

// RandomHapSample runs the forward-backward recurrence for the given
// target haplotype and returns its posterior allele distribution over
// every reference marker in the window.
func (b *Baum) RandomHapSample(hap int) AlleleProbs {
	nClusters := b.data.NClusters()
	for i := range b.alleleProbs {
		b.alleleProbs[i] = 0
	}

	b.setFwdValues(hap)
	b.setInitBwdValue(hap)
	b.setStateProbs(nClusters-1, b.currentIndex())
	for m := nClusters - 2; m >= 0; m-- {
		b.setBwdValue(m, hap)
		b.setStateProbs(m, b.previousIndex(hap))
	}
	b.setAlleleProbs()

	probs := make([]float64, len(b.alleleProbs))
	copy(probs, b.alleleProbs)
	return AlleleProbs{markers: b.refMarkers, hap: hap, probs: probs}
}

func (b *Baum) setFwdValues(hap int) {
	nClusters := b.data.NClusters()
	b.windowIndex = 0
	b.arrayIndex = -1
	for m := 0; m < nClusters; m++ {
		var sum float64
		probRec := b.data.PRecomb(m)
		prev := b.currentIndex()
		next := b.nextIndex()
		b.fwdValueIndex2Marker[next] = m
		a := b.data.TargetAllele(m, hap)
		fwd := b.fwdVal[next]
		var prevFwd []float64
		if m != 0 {
			prevFwd = b.fwdVal[prev]
		}
		for h := 0; h < b.n; h++ {
			refAllele := b.data.RefAllele(m, h)
			em := b.data.ErrProb(m)
			if a == refAllele {
				em = b.data.NoErrProb(m)
			}
			x := 1.0
			if m != 0 {
				x = probRec/float64(b.n) + (1-probRec)*prevFwd[h]
			}
			fwd[h] = em * x
			sum += fwd[h]
		}
		scale(fwd, sum)
	}
}

func (b *Baum) setInitBwdValue(hap int) {
	m := b.data.NClusters() - 1
	f := 1.0 / float64(b.n)
	b.emBwdValuesSum = 0
	a := b.data.TargetAllele(m, hap)
	for h := 0; h < b.n; h++ {
		refAllele := b.data.RefAllele(m, h)
		em := b.data.ErrProb(m)
		if a == refAllele {
			em = b.data.NoErrProb(m)
		}
		b.bwdVal[h] = f
		b.emBwdVal[h] = f * em
		b.emBwdValuesSum += b.emBwdVal[h]
	}
}

func (b *Baum) setBwdValue(m, hap int) {
	var bwdValuesSum float64
	probRec := b.data.PRecomb(m + 1)
	commonTerm := b.emBwdValuesSum * probRec / float64(b.n)
	for h := 0; h < b.n; h++ {
		b.bwdVal[h] = commonTerm + (1-probRec)*b.emBwdVal[h]
		bwdValuesSum += b.bwdVal[h]
	}
	a := b.data.TargetAllele(m, hap)
	b.emBwdValuesSum = 0
	for h := 0; h < b.n; h++ {
		b.bwdVal[h] /= bwdValuesSum
		refAllele := b.data.RefAllele(m, h)
		em := b.data.ErrProb(m)
		if a == refAllele {
			em = b.data.NoErrProb(m)
		}
		b.emBwdVal[h] = em * b.bwdVal[h]
		b.emBwdValuesSum += b.emBwdVal[h]
	}
}

func (b *Baum) setStateProbs(cluster, fwdIndex int) {
	fwdProbs := b.fwdHapProbs[cluster]
	bwdProbs := b.bwdHapProbs[cluster]
	for i := range fwdProbs {
		fwdProbs[i] = 0
	}
	for i := range bwdProbs {
		bwdProbs[i] = 0
	}
	refHapSegs := b.data.RefHapSegs()
	fwd := b.fwdVal[fwdIndex]
	for h := 0; h < b.n; h++ {
		stateProb := fwd[h] * b.bwdVal[h]
		fwdProbs[refHapSegs.Seq(cluster+1, h)] += stateProb
		bwdProbs[refHapSegs.Seq(cluster, h)] += stateProb
	}
	scale(fwdProbs, sum(fwdProbs))
	scale(bwdProbs, sum(bwdProbs))
}

func threshold(nSeq int) float64 { return 0.5 / float64(nSeq) }

func (b *Baum) setAlleleProbs() {
	nClusters := b.data.RefHapSegs().NClusters()
	b.setFirstAlleleProbs()
	for cluster := 1; cluster < nClusters; cluster++ {
		b.setMidAlleleProbs(cluster)
	}
	b.setLastAlleleProbs()
}

func (b *Baum) setFirstAlleleProbs() {
	segment := 0
	refHapSegs := b.data.RefHapSegs()
	refMarker := refHapSegs.ClusterStart(segment)
	nSeq := refHapSegs.NSeq(segment)
	th := threshold(nSeq)
	for s := 0; s < nSeq; s++ {
		if b.bwdHapProbs[segment][s] < th {
			continue
		}
		for m := 0; m < refMarker; m++ {
			start := b.refMarkers.SumAlleles(m)
			allele := refHapSegs.Allele(segment, m, s)
			b.alleleProbs[start+allele] += b.bwdHapProbs[segment][s]
		}
	}
}

func (b *Baum) setMidAlleleProbs(cluster int) {
	refHapSegs := b.data.RefHapSegs()
	startRefMarker := refHapSegs.ClusterStart(cluster - 1)
	midRefMarker := refHapSegs.ClusterEnd(cluster - 1)
	endRefMarker := refHapSegs.ClusterStart(cluster)
	nSeq := refHapSegs.NSeq(cluster)
	th := threshold(nSeq)
	for s := 0; s < nSeq; s++ {
		useFwd := b.fwdHapProbs[cluster-1][s] >= th
		useBwd := b.bwdHapProbs[cluster][s] >= th
		if useFwd {
			for m := startRefMarker; m < midRefMarker; m++ {
				start := b.refMarkers.SumAlleles(m)
				allele := refHapSegs.Allele(cluster, m-startRefMarker, s)
				b.alleleProbs[start+allele] += b.fwdHapProbs[cluster-1][s]
			}
		}
		if useFwd || useBwd {
			for m := midRefMarker; m < endRefMarker; m++ {
				start := b.refMarkers.SumAlleles(m)
				allele := refHapSegs.Allele(cluster, m-startRefMarker, s)
				wt := b.data.Weight(m)
				b.alleleProbs[start+allele] += wt * b.fwdHapProbs[cluster-1][s]
				b.alleleProbs[start+allele] += (1 - wt) * b.bwdHapProbs[cluster][s]
			}
		}
	}
}

func (b *Baum) setLastAlleleProbs() {
	refHapSegs := b.data.RefHapSegs()
	segment := refHapSegs.NClusters()
	cluster := segment - 1
	refMarkerStart := refHapSegs.ClusterStart(cluster)
	refMarkerEnd := refHapSegs.RefHapPairs().NMarkers()
	nSeq := refHapSegs.NSeq(segment)
	th := threshold(nSeq)
	for s := 0; s < nSeq; s++ {
		if b.fwdHapProbs[cluster][s] < th {
			continue
		}
		for m := refMarkerStart; m < refMarkerEnd; m++ {
			start := b.refMarkers.SumAlleles(m)
			allele := refHapSegs.Allele(segment, m-refMarkerStart, s)
			b.alleleProbs[start+allele] += b.fwdHapProbs[cluster][s]
		}
	}
}

// nextIndex advances the checkpoint buffer's array index, wrapping to the
// next diagonal of the triangular-wave pattern when the buffer is full.
func (b *Baum) nextIndex() int {
	b.arrayIndex++
	if b.arrayIndex == len(b.fwdVal) {
		b.windowIndex++
		b.arrayIndex = b.windowIndex
	}
	return b.arrayIndex
}

func (b *Baum) currentIndex() int { return b.arrayIndex }

// previousIndex returns the forward-column index for the cluster before
// the one last read. When the checkpoint buffer has no earlier column
// cached, it rewinds to the previous diagonal and re-materializes forward
// columns up to the point it was called from.
func (b *Baum) previousIndex(hap int) int {
	if b.arrayIndex != b.windowIndex {
		b.arrayIndex--
		return b.arrayIndex
	}

	b.windowIndex--
	b.arrayIndex = b.windowIndex
	start := b.fwdValueIndex2Marker[b.arrayIndex] + 1
	end := start + (len(b.fwdVal) - (b.arrayIndex + 1))
	for m := start; m < end; m++ {
		var sum float64
		probRec := b.data.PRecomb(m)
		prev := b.currentIndex()
		next := b.nextIndex()
		b.fwdValueIndex2Marker[next] = m
		a := b.data.TargetAllele(m, hap)
		fwd := b.fwdVal[next]
		prevFwd := b.fwdVal[prev]
		for h := 0; h < b.n; h++ {
			refAllele := b.data.RefAllele(m, h)
			em := b.data.ErrProb(m)
			if a == refAllele {
				em = b.data.NoErrProb(m)
			}
			x := probRec/float64(b.n) + (1-probRec)*prevFwd[h] // m > 0 always here
			fwd[h] = em * x
			sum += fwd[h]
		}
		scale(fwd, sum)
	}
	return b.arrayIndex
}

func sum(fs []float64) float64 {
	var s float64
	for _, f := range fs {
		s += f
	}
	return s
}

func scale(fs []float64, divisor float64) {
	for i := range fs {
		fs[i] /= divisor
	}
}
