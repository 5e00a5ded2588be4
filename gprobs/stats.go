// Package gprobs computes per-marker imputation-quality statistics
// (allele frequency, allelic R-squared, dose R-squared, HWE dose
// R-squared) from the posterior genotype probabilities implied by a pair
// of target haplotypes' estimated allele distributions.
package gprobs

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/browning-lab/beagle-impute/hmm"
	"github.com/browning-lab/beagle-impute/marker"
)

// Stats accumulates, over all target samples at one marker, the
// per-sample best-guess dose, posterior-expected dose and posterior
// second moment needed to report allele frequency and the three
// R-squared imputation-quality measures.
type Stats struct {
	marker   marker.Marker
	nSamples int

	alleleFreq []float64

	call      []float64
	exp       []float64
	expSquare []float64
}

// NewStats computes Stats for the given reference-marker index from
// hapProbs, the target haplotypes' estimated allele distributions over
// the window, ordered sample-major (hapProbs[2*j], hapProbs[2*j+1] are
// sample j's two haplotypes).
func NewStats(markerIndex int, hapProbs []hmm.AlleleProbs) Stats {
	nSamples := len(hapProbs) / 2
	mk := hapProbs[0].Markers().Marker(markerIndex)
	nAlleles := mk.NAlleles()

	s := Stats{
		marker:     mk,
		nSamples:   nSamples,
		alleleFreq: make([]float64, nAlleles),
		call:       make([]float64, nSamples),
		exp:        make([]float64, nSamples),
		expSquare:  make([]float64, nSamples),
	}

	gtProbs := make([]float64, 3)
	alProbs := make([]float64, nAlleles)
	for j := 0; j < nSamples; j++ {
		hap1, hap2 := hapProbs[2*j], hapProbs[2*j+1]
		sampleProbs(hap1, hap2, markerIndex, gtProbs, alProbs)

		floats.Add(s.alleleFreq, alProbs)

		s.call[j] = float64(maxIndex(gtProbs))
		s.exp[j] = gtProbs[1] + 2*gtProbs[2]
		s.expSquare[j] = gtProbs[1] + 4*gtProbs[2]
	}

	floats.Scale(1/floats.Sum(s.alleleFreq), s.alleleFreq)
	return s
}

// sampleProbs fills gtProbs (indexed 0=hom-ref, 1=het, 2=hom-alt-or-other)
// and alProbs (per-allele marginal) for one sample's diploid genotype
// distribution, derived from its two haplotypes' independent allele
// probabilities at markerIndex. Both are normalized to sum 1 (alProbs to
// sum 1 over the two haplotypes, i.e. divided by 2*sum(gtProbs)).
func sampleProbs(hap1, hap2 hmm.AlleleProbs, markerIndex int, gtProbs, alProbs []float64) {
	for i := range gtProbs {
		gtProbs[i] = 0
	}
	for i := range alProbs {
		alProbs[i] = 0
	}
	for a2 := 0; a2 < len(alProbs); a2++ {
		for a1 := 0; a1 <= a2; a1++ {
			gprob := hap1.Prob(markerIndex, a1) * hap2.Prob(markerIndex, a2)
			if a1 != a2 {
				gprob += hap1.Prob(markerIndex, a2) * hap2.Prob(markerIndex, a1)
			}
			alProbs[a1] += gprob
			alProbs[a2] += gprob
			switch {
			case a2 == 0:
				gtProbs[0] += gprob
			case a1 == 0:
				gtProbs[1] += gprob
			default:
				gtProbs[2] += gprob
			}
		}
	}
	total := floats.Sum(gtProbs)
	floats.Scale(1/total, gtProbs)
	floats.Scale(1/(2*total), alProbs)
}

// maxIndex returns the index of the largest value in fs, i.e. the
// most probable genotype class.
func maxIndex(fs []float64) int {
	return floats.MaxIdx(fs)
}

// Marker returns the marker these statistics were computed for.
func (s Stats) Marker() marker.Marker { return s.marker }

// AlleleFreq returns the estimated sample frequency of each allele,
// summing to 1.
func (s Stats) AlleleFreq() []float64 {
	cp := make([]float64, len(s.alleleFreq))
	copy(cp, s.alleleFreq)
	return cp
}

// AllelicR2 returns the estimated squared correlation between the most
// probable ALT allele dose and the estimated ALT allele dose:
// cov(call,exp)^2 / (var(call)*varExp), where varExp is derived from the
// posterior second moment (expSquare), not from exp^2 — the two differ
// whenever a sample's genotype call is uncertain, which is the normal
// case at an imputed marker. It is 0 if either dose is monomorphic
// across the target samples.
func (s Stats) AllelicR2() float64 {
	n := float64(s.nSamples)
	sumCall := floats.Sum(s.call)
	sumExp := floats.Sum(s.exp)
	sumExpSquare := floats.Sum(s.expSquare)

	cov := floats.Dot(s.call, s.exp) - sumCall*sumExp/n
	varBest := floats.Dot(s.call, s.call) - sumCall*sumCall/n
	varExp := sumExpSquare - sumExp*sumExp/n

	den := varBest * varExp
	if den <= 0 {
		return 0
	}
	return math.Max(cov*cov/den, 0)
}

// DoseR2 returns the fraction of the total posterior dose variance
// attributable to variance in the posterior mean, i.e. the estimated
// squared correlation between the estimated ALT allele dose and the
// true ALT allele dose. It is 0 if the marker is monomorphic.
func (s Stats) DoseR2() float64 {
	n := float64(s.nSamples)
	sumExp := floats.Sum(s.exp)
	num := floats.Dot(s.exp, s.exp) - sumExp*sumExp/n
	den := floats.Sum(s.expSquare) - sumExp*sumExp/n
	if den == 0 {
		return 0
	}
	return math.Max(num/den, 0)
}

// HWEDoseR2 returns the estimated squared correlation between the
// estimated ALT allele dose and the true ALT allele dose, where the
// true dose's variance is estimated from the allele frequency under
// Hardy-Weinberg equilibrium rather than from the sample. It is 0 if
// the estimated ALT allele frequency is 0 or 1.
func (s Stats) HWEDoseR2() float64 {
	n := float64(s.nSamples)
	sumExp := floats.Sum(s.exp)
	num := (floats.Dot(s.exp, s.exp) - sumExp*sumExp/n) / n
	altFreq := sumExp / (2.0 * n)
	den := 2.0 * altFreq * (1.0 - altFreq)
	if den == 0 {
		return 0
	}
	return math.Max(num/den, 0)
}

// String returns a diagnostic one-line summary of the marker's allele
// frequency and all three R-squared measures, tab-separated as
// "<marker>\tAF=f[,f...]\tAR2=f\tDR2=f\tHDR2=f". Unlike the fixed
// two-decimal AR2/DR2/AF fields in the VCF INFO column, values here are
// trimmed to at most 4 fractional digits; the exact format is
// unspecified and meant for run logs, not machine parsing.
func (s Stats) String() string {
	var sb strings.Builder
	sb.WriteString(s.marker.String())
	for j, f := range s.alleleFreq {
		if j == 0 {
			sb.WriteString("\tAF=")
		} else {
			sb.WriteByte(',')
		}
		sb.WriteString(trimmed(f))
	}
	sb.WriteString("\tAR2=")
	sb.WriteString(trimmed(s.AllelicR2()))
	sb.WriteString("\tDR2=")
	sb.WriteString(trimmed(s.DoseR2()))
	sb.WriteString("\tHDR2=")
	sb.WriteString(trimmed(s.HWEDoseR2()))
	return sb.String()
}

// trimmed renders f with up to 4 fractional digits, trimming trailing
// zeros and a trailing decimal point.
func trimmed(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	end := len(s)
	for end > 0 && s[end-1] == '0' {
		end--
	}
	if end > 0 && s[end-1] == '.' {
		end--
	}
	return s[:end]
}
