package window

import "github.com/browning-lab/beagle-impute/marker"

// CurrentData is the per-window bundle derived from an Iterator's current
// window (§4.2). It identifies the reference and target markers carried by
// the window, the reference and target haplotype data over those markers,
// and the splice indices that divide the window into the region the
// previous window already finalized, this window's own authoritative
// region, and the tail overlap the next window will finalize.
type CurrentData struct {
	window []Emission

	refSamples    marker.Samples
	targetSamples marker.Samples

	refHaps    marker.SampleHapPairs
	targetHaps marker.SampleHapPairs

	markerIndices []int // target-marker index -> reference-marker (window-local) index

	prevSplice int
	nextSplice int

	prevTargetSplice  int
	nextTargetSplice  int
	nextTargetOverlap int
}

// NewCurrentData builds a CurrentData from it's current window. nextOverlap
// is the overlap that will be requested of the following advanceWindow
// call on the same chromosome, or 0 if this is the last window on the
// chromosome; it is extended upward to respect same-position ties using
// the same rule advanceWindow itself applies, so the two windows agree on
// where authority for a position lies.
func NewCurrentData(it *Iterator, nextOverlap int) CurrentData {
	w := it.Window()
	prevSplice := it.Overlap()

	adjustedNextOverlap := nextOverlap
	for adjustedNextOverlap > 0 && adjustedNextOverlap < len(w) {
		boundary := w[len(w)-adjustedNextOverlap]
		before := w[len(w)-adjustedNextOverlap-1]
		if boundary.Marker().ChromIndex() == before.Marker().ChromIndex() &&
			boundary.Marker().Pos() == before.Marker().Pos() {
			adjustedNextOverlap++
		} else {
			break
		}
	}
	if adjustedNextOverlap > len(w) {
		adjustedNextOverlap = len(w)
	}
	nextSplice := len(w) - adjustedNextOverlap

	refSamples := it.src.RefSamples()
	targetSamples := it.src.TargetSamples()

	refMarkers := make([]marker.Marker, len(w))
	refRows := make([]marker.IntArray, len(w))
	var markerIndices []int
	targetMarkers := make([]marker.Marker, 0, len(w))
	targetRows := make([]marker.IntArray, 0, len(w))

	nRefHaps := 2 * refSamples.NSamples()
	nTargetHaps := 2 * targetSamples.NSamples()

	for i, e := range w {
		refMarkers[i] = e.Marker()
		refAlleles := make([]int, nRefHaps)
		for h := 0; h < nRefHaps; h++ {
			refAlleles[h] = e.RefAllele(h)
		}
		refRows[i] = marker.NewIntArray(refAlleles)

		if e.IsTargetMarker() {
			markerIndices = append(markerIndices, i)
			targetMarkers = append(targetMarkers, e.Marker())
			targetAlleles := make([]int, nTargetHaps)
			for h := 0; h < nTargetHaps; h++ {
				targetAlleles[h] = e.TargetAllele(h)
			}
			targetRows = append(targetRows, marker.NewIntArray(targetAlleles))
		}
	}

	refHaps := marker.NewSampleHapPairs(refSamples, marker.NewMarkers(refMarkers), refRows)
	targetHaps := marker.NewSampleHapPairs(targetSamples, marker.NewMarkers(targetMarkers), targetRows)

	prevTargetSplice := projectSplice(markerIndices, prevSplice)
	nextTargetSplice := projectSplice(markerIndices, nextSplice)
	nextTargetOverlap := len(markerIndices) - nextTargetSplice

	return CurrentData{
		window:            w,
		refSamples:        refSamples,
		targetSamples:     targetSamples,
		refHaps:           refHaps,
		targetHaps:        targetHaps,
		markerIndices:     markerIndices,
		prevSplice:        prevSplice,
		nextSplice:        nextSplice,
		prevTargetSplice:  prevTargetSplice,
		nextTargetSplice:  nextTargetSplice,
		nextTargetOverlap: nextTargetOverlap,
	}
}

// projectSplice returns the number of entries of markerIndices strictly
// less than refSplice: the target-marker-index equivalent of a
// reference-marker-index splice boundary.
func projectSplice(markerIndices []int, refSplice int) int {
	lo, hi := 0, len(markerIndices)
	for lo < hi {
		mid := (lo + hi) / 2
		if markerIndices[mid] < refSplice {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// PrevSplice returns the reference-marker index at which this window's own
// authoritative region begins; markers before it were already finalized by
// the previous window.
func (cd CurrentData) PrevSplice() int { return cd.prevSplice }

// NextSplice returns the reference-marker index at which this window's own
// authoritative region ends; markers at or after it will be finalized by
// the next window.
func (cd CurrentData) NextSplice() int { return cd.nextSplice }

// PrevTargetSplice is PrevSplice projected into target-marker-index space.
func (cd CurrentData) PrevTargetSplice() int { return cd.prevTargetSplice }

// NextTargetSplice is NextSplice projected into target-marker-index space.
func (cd CurrentData) NextTargetSplice() int { return cd.nextTargetSplice }

// NextTargetOverlap is the number of target markers in this window's tail
// overlap region, nTargetMarkers() - NextTargetSplice().
func (cd CurrentData) NextTargetOverlap() int { return cd.nextTargetOverlap }

// Markers returns the reference markers spanned by this window.
func (cd CurrentData) Markers() marker.Markers { return cd.refHaps.Markers() }

// TargetMarkers returns the target markers spanned by this window, a
// subsequence of Markers().
func (cd CurrentData) TargetMarkers() marker.Markers { return cd.targetHaps.Markers() }

// RefSampleHapPairs returns the reference panel haplotypes over this
// window's full reference marker set.
func (cd CurrentData) RefSampleHapPairs() marker.SampleHapPairs { return cd.refHaps }

// RestrictedRefSampleHapPairs returns the reference panel haplotypes
// restricted to the positions of the target markers within this window.
func (cd CurrentData) RestrictedRefSampleHapPairs() marker.SampleHapPairs {
	return cd.refHaps.Restrict(cd.markerIndices)
}

// TargetSampleHapPairs returns the target individuals' haplotypes over
// this window's target marker set.
func (cd CurrentData) TargetSampleHapPairs() marker.SampleHapPairs { return cd.targetHaps }

// TargetSamples returns the target individuals carried by this window.
func (cd CurrentData) TargetSamples() marker.Samples { return cd.targetSamples }

// MarkerIndices maps each target-marker index to the reference-marker
// (window-local) index of the same marker. It is strictly increasing.
func (cd CurrentData) MarkerIndices() []int {
	cp := make([]int, len(cd.markerIndices))
	copy(cp, cd.markerIndices)
	return cp
}

// NTargetMarkers returns the number of target markers in this window.
func (cd CurrentData) NTargetMarkers() int { return len(cd.markerIndices) }

// NMarkers returns the number of reference markers in this window.
func (cd CurrentData) NMarkers() int { return len(cd.window) }
