package hmm

import "github.com/browning-lab/beagle-impute/marker"

// AlleleProbs is one target haplotype's posterior allele distribution over
// every reference marker in a window, as estimated by Baum.RandomHapSample.
type AlleleProbs struct {
	markers marker.Markers
	hap     int
	probs   []float64 // probs[markers.SumAlleles(m)+allele]
}

// NewAlleleProbs builds an AlleleProbs from already-computed per-allele
// probabilities, indexed as markers.SumAlleles(m)+allele.
func NewAlleleProbs(markers marker.Markers, hap int, probs []float64) AlleleProbs {
	cp := make([]float64, len(probs))
	copy(cp, probs)
	return AlleleProbs{markers: markers, hap: hap, probs: cp}
}

// Hap returns the target haplotype index these probabilities were
// estimated for.
func (ap AlleleProbs) Hap() int { return ap.hap }

// Markers returns the reference markers these probabilities are indexed
// over.
func (ap AlleleProbs) Markers() marker.Markers { return ap.markers }

// Prob returns the estimated probability of the given allele at the given
// reference-marker index.
func (ap AlleleProbs) Prob(marker, allele int) float64 {
	return ap.probs[ap.markers.SumAlleles(marker)+allele]
}

// NAlleles returns the number of alleles at the given reference-marker
// index.
func (ap AlleleProbs) NAlleles(marker int) int {
	return ap.markers.Marker(marker).NAlleles()
}

// BestAllele returns the allele with the highest estimated probability at
// the given reference-marker index, and that probability.
func (ap AlleleProbs) BestAllele(marker int) (allele int, prob float64) {
	n := ap.NAlleles(marker)
	best, bestProb := 0, ap.Prob(marker, 0)
	for a := 1; a < n; a++ {
		if p := ap.Prob(marker, a); p > bestProb {
			best, bestProb = a, p
		}
	}
	return best, bestProb
}
