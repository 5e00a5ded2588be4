// Package impute assembles the per-window bundle of reference and target
// haplotype data, cluster boundaries, and Li-Stephens model parameters
// (error rate, recombination probability, interpolation weight) that the
// HMM engine consumes one marker cluster at a time.
package impute

import (
	"fmt"
	"math"

	"github.com/browning-lab/beagle-impute/config"
	"github.com/browning-lab/beagle-impute/gmap"
	"github.com/browning-lab/beagle-impute/haplotype"
	"github.com/browning-lab/beagle-impute/marker"
	"github.com/browning-lab/beagle-impute/window"
)

// minCMDist is the floor applied to genetic distances between cluster
// midpoints so that co-located clusters never produce a zero recombination
// probability.
const minCMDist = 1e-7

// Data is the immutable per-window bundle of haplotype data and model
// parameters required to impute the ungenotyped markers in a window.
type Data struct {
	refHapPairs marker.SampleHapPairs
	targHapPairs marker.SampleHapPairs
	refHapSegs  *haplotype.RefHapSegs

	refAlleles []marker.IntArray
	targAlleles []marker.IntArray

	errProb []float64
	pRecomb []float64
	weight  []float64

	nClusters int
}

// NewData builds a Data instance for the current window. targetHapPairs
// must share markers and samples with cd's target marker/sample set.
func NewData(par *config.Par, cd window.CurrentData, targetHapPairs marker.SampleHapPairs, gm *gmap.Map) (*Data, error) {
	if !cd.TargetMarkers().Equals(targetHapPairs.Markers()) {
		return nil, fmt.Errorf("impute: target markers of current window and target haplotypes do not match")
	}

	gtEnd := clusterEnds(targetHapPairs.Markers(), gm, par.Cluster())
	gtStart := clusterStarts(gtEnd)
	nClusters := len(gtStart)

	restrictedRef := cd.RestrictedRefSampleHapPairs()
	refAlleles := make([]marker.IntArray, nClusters)
	targAlleles := make([]marker.IntArray, nClusters)
	for j := 0; j < nClusters; j++ {
		refCodes, targCodes, _ := haplotype.Code(restrictedRef, targetHapPairs, gtStart[j], gtEnd[j])
		refAlleles[j] = marker.NewIntArray(refCodes)
		targAlleles[j] = marker.NewIntArray(targCodes)
	}

	refHapPairs := cd.RefSampleHapPairs()
	refHapSegs, err := buildRefHapSegs(refHapPairs, gtStart, gtEnd, cd.MarkerIndices(), par.NThreads())
	if err != nil {
		return nil, err
	}

	errProb := errProbs(par.Err(), gtStart, gtEnd)
	pRecomb := recombProbs(refHapSegs, gm, par.Ne())
	weight := weights(refHapSegs, gm)

	return &Data{
		refHapPairs:  refHapPairs,
		targHapPairs: targetHapPairs,
		refHapSegs:   refHapSegs,
		refAlleles:   refAlleles,
		targAlleles:  targAlleles,
		errProb:      errProb,
		pRecomb:      pRecomb,
		weight:       weight,
		nClusters:    nClusters,
	}, nil
}

// clusterEnds partitions targetMarkers into clusters no wider than
// clusterDist centiMorgans, returning the exclusive end index of each
// cluster.
func clusterEnds(targetMarkers marker.Markers, gm *gmap.Map, clusterDist float64) []int {
	nMarkers := targetMarkers.NMarkers()
	ends := make([]int, 0, nMarkers)
	startPos := gm.GenPosMarker(targetMarkers.Marker(0))
	for m := 1; m < nMarkers; m++ {
		pos := gm.GenPosMarker(targetMarkers.Marker(m))
		if pos-startPos > clusterDist {
			ends = append(ends, m)
			startPos = pos
		}
	}
	ends = append(ends, nMarkers)
	return ends
}

func clusterStarts(ends []int) []int {
	starts := make([]int, len(ends))
	for j := 1; j < len(starts); j++ {
		starts[j] = ends[j-1]
	}
	return starts
}

func errProbs(errRate float64, gtStart, gtEnd []int) []float64 {
	const maxErrProb = 0.5
	errProb := make([]float64, len(gtStart))
	for j := range errProb {
		e := errRate * float64(gtEnd[j]-gtStart[j])
		if e > maxErrProb {
			e = maxErrProb
		}
		errProb[j] = e
	}
	return errProb
}

// buildRefHapSegs translates target-marker cluster boundaries into
// reference-marker segment boundaries via markerIndices (the
// CurrentData target-to-reference marker index map), then builds the
// reference segment vocabulary over them.
func buildRefHapSegs(refHapPairs marker.SampleHapPairs, gtStart, gtEnd, markerIndices []int, nThreads int) (*haplotype.RefHapSegs, error) {
	clusterStart := make([]int, len(gtStart))
	clusterEnd := make([]int, len(gtEnd))
	for j := range clusterStart {
		clusterStart[j] = markerIndices[gtStart[j]]
		clusterEnd[j] = markerIndices[gtEnd[j]-1] + 1
	}
	_ = nThreads // segment construction parallelism is fixed by pargo's worker pool, not user-tunable per call
	return haplotype.NewRefHapSegs(refHapPairs, clusterStart, clusterEnd)
}

// recombProbs computes, for each cluster boundary, the probability of a
// recombination event between this cluster and the previous one, derived
// from the genetic distance between cluster midpoints and the effective
// population size ne.
func recombProbs(refHapSegs *haplotype.RefHapSegs, gm *gmap.Map, ne float64) []float64 {
	refMarkers := refHapSegs.RefHapPairs().Markers()
	nHaps := refHapSegs.RefHapPairs().NHaps()
	mid := clusterMidPositions(refMarkers, refHapSegs)
	chrom := refMarkers.Marker(0).ChromIndex()

	rr := make([]float64, len(mid))
	if len(mid) == 0 {
		return rr
	}
	c := -(0.04 * ne / float64(nHaps)) // 0.04 = 4 / (100 cM/M)
	lastGenPos := gm.GenPos(chrom, mid[0])
	for j := 1; j < len(rr); j++ {
		genPos := gm.GenPos(chrom, mid[j])
		genDist := math.Max(math.Abs(genPos-lastGenPos), minCMDist)
		rr[j] = -math.Expm1(c * genDist)
		lastGenPos = genPos
	}
	return rr
}

func clusterMidPositions(refMarkers marker.Markers, refHapSegs *haplotype.RefHapSegs) []int {
	mid := make([]int, refHapSegs.NClusters())
	for j := range mid {
		startPos := refMarkers.Marker(refHapSegs.ClusterStart(j)).Pos()
		endPos := refMarkers.Marker(refHapSegs.ClusterEnd(j) - 1).Pos()
		mid[j] = (startPos + endPos) / 2
	}
	return mid
}

// weights computes, for every reference marker, the interpolation weight
// used to blend allele probabilities between a cluster's own segment and
// its neighbors: NaN before the first cluster's start and from the last
// cluster's start onward, 1 within every other cluster, and a linear blend in cumulative genetic distance for markers
// that fall strictly between one cluster's end and the next cluster's
// start.
func weights(refHapSegs *haplotype.RefHapSegs, gm *gmap.Map) []float64 {
	refMarkers := refHapSegs.RefHapPairs().Markers()
	cum := cumulativeGenPos(refMarkers, gm)
	nMarkers := refMarkers.NMarkers()
	nClusters := refHapSegs.NClusters()

	wts := make([]float64, nMarkers)
	if nClusters == 0 {
		for i := range wts {
			wts[i] = math.NaN()
		}
		return wts
	}

	for i := 0; i < refHapSegs.ClusterStart(0); i++ {
		wts[i] = math.NaN()
	}
	for j := 0; j < nClusters-1; j++ {
		start := refHapSegs.ClusterStart(j)
		end := refHapSegs.ClusterEnd(j)
		nextStart := refHapSegs.ClusterStart(j + 1)
		nextStartPos := cum[nextStart]
		totalLength := nextStartPos - cum[end-1]
		for m := start; m < end; m++ {
			wts[m] = 1
		}
		for m := end; m < nextStart; m++ {
			wts[m] = (nextStartPos - cum[m]) / totalLength
		}
	}
	for i := refHapSegs.ClusterStart(nClusters - 1); i < nMarkers; i++ {
		wts[i] = math.NaN()
	}
	return wts
}

func cumulativeGenPos(markers marker.Markers, gm *gmap.Map) []float64 {
	cum := make([]float64, markers.NMarkers())
	lastGenPos := gm.GenPosMarker(markers.Marker(0))
	for j := 1; j < len(cum); j++ {
		genPos := gm.GenPosMarker(markers.Marker(j))
		genDist := math.Max(math.Abs(genPos-lastGenPos), minCMDist)
		cum[j] = cum[j-1] + genDist
		lastGenPos = genPos
	}
	return cum
}

// RefHapPairs returns the reference haplotype pairs.
func (d *Data) RefHapPairs() marker.SampleHapPairs { return d.refHapPairs }

// TargHapPairs returns the target haplotype pairs.
func (d *Data) TargHapPairs() marker.SampleHapPairs { return d.targHapPairs }

// RefHapSegs returns the reference haplotype segments.
func (d *Data) RefHapSegs() *haplotype.RefHapSegs { return d.refHapSegs }

// NClusters returns the number of target-marker clusters.
func (d *Data) NClusters() int { return d.nClusters }

// TargetSamples returns the target samples.
func (d *Data) TargetSamples() marker.Samples { return d.targHapPairs.Samples() }

// RefAllele returns the coded reference allele sequence index for the
// given cluster and reference haplotype.
func (d *Data) RefAllele(cluster, haplotype int) int { return d.refAlleles[cluster].Get(haplotype) }

// TargetAllele returns the coded target allele sequence index for the
// given cluster and target haplotype.
func (d *Data) TargetAllele(cluster, haplotype int) int { return d.targAlleles[cluster].Get(haplotype) }

// ErrProb returns the allele error probability for the given cluster.
func (d *Data) ErrProb(cluster int) float64 { return d.errProb[cluster] }

// NoErrProb returns 1 - ErrProb(cluster).
func (d *Data) NoErrProb(cluster int) float64 { return 1 - d.errProb[cluster] }

// PRecomb returns the probability of recombination between the given
// cluster and the previous one, or 0 if cluster == 0.
func (d *Data) PRecomb(cluster int) float64 { return d.pRecomb[cluster] }

// Weight returns the interpolation weight for the given reference-marker
// index.
func (d *Data) Weight(marker int) float64 { return d.weight[marker] }
