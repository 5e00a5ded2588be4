package vcf

import (
	"math"
	"strconv"
	"strings"

	"github.com/browning-lab/beagle-impute/gprobs"
	"github.com/browning-lab/beagle-impute/hmm"
	"github.com/browning-lab/beagle-impute/marker"
	"github.com/browning-lab/beagle-impute/utils"
)

// GenotypeIndex returns the packed index of the unordered genotype (a1,a2)
// with a1 <= a2, in the a2-outer/a1-inner order marker.Marker.NGenotypes
// counts.
func GenotypeIndex(a1, a2 int) int {
	if a1 > a2 {
		a1, a2 = a2, a1
	}
	return a2*(a2+1)/2 + a1
}

// GenotypeProbs returns the NGenotypes()-length unordered genotype
// probability distribution implied by two independent per-haplotype
// allele distributions, the same reduction gprobs.Stats applies per
// sample: gtProb[(a1,a2)] = p1(a1)p2(a2) [+ p1(a2)p2(a1) if a1 != a2].
func GenotypeProbs(hap1, hap2 hmm.AlleleProbs, m int) []float64 {
	n := hap1.NAlleles(m)
	out := make([]float64, n*(n+1)/2)
	for a1 := 0; a1 < n; a1++ {
		p1 := hap1.Prob(m, a1)
		for a2 := a1; a2 < n; a2++ {
			p := p1*hap2.Prob(m, a2)
			if a2 != a1 {
				p += hap1.Prob(m, a2) * hap2.Prob(m, a1)
			}
			out[GenotypeIndex(a1, a2)] = p
		}
	}
	return out
}

// Dosage returns the expected-ALT-copy-count vector (length nAlleles-1,
// one entry per non-reference allele) for a sample, derived linearly from
// the two haplotypes' independent allele distributions:
// dose[a] = P(hap1=a) + P(hap2=a).
func Dosage(hap1, hap2 hmm.AlleleProbs, m int) []float64 {
	n := hap1.NAlleles(m)
	dose := make([]float64, n-1)
	for a := 1; a < n; a++ {
		dose[a-1] = hap1.Prob(m, a) + hap2.Prob(m, a)
	}
	return dose
}

// GenotypeFromHapProbs builds a phased Genotype for one sample at marker m
// from its two target haplotypes' allele-probability distributions: the
// best allele per haplotype becomes GT (phased, "|"), and DS/GP are filled
// in from the same distributions when requested.
func GenotypeFromHapProbs(hap1, hap2 hmm.AlleleProbs, m int, withGP bool) Genotype {
	a1, _ := hap1.BestAllele(m)
	a2, _ := hap2.BestAllele(m)

	g := Genotype{Phased: true, GT: [2]int{a1, a2}}
	g.Data.Set(DS, Dosage(hap1, hap2, m))
	if withGP {
		g.Data.Set(GP, GenotypeProbs(hap1, hap2, m))
	}
	return g
}

// GenotypeFromGenotypeProbs builds an unphased Genotype for one sample at
// marker m from its two haplotypes' allele-probability distributions: GT
// is the most probable unordered genotype, and DS/GP are filled in from
// the same distributions. Used for genotyped target markers, where the
// input carries no haplotype phase to preserve.
func GenotypeFromGenotypeProbs(hap1, hap2 hmm.AlleleProbs, m int) Genotype {
	gp := GenotypeProbs(hap1, hap2, m)
	a1, a2 := unpackGenotypeIndex(maxIndex(gp))

	g := Genotype{Phased: false, GT: [2]int{a1, a2}}
	g.Data.Set(DS, Dosage(hap1, hap2, m))
	g.Data.Set(GP, gp)
	return g
}

func maxIndex(fs []float64) int {
	best := 0
	for i := 1; i < len(fs); i++ {
		if fs[i] > fs[best] {
			best = i
		}
	}
	return best
}

// unpackGenotypeIndex inverts GenotypeIndex: recovers the unordered
// genotype (a1, a2), a1 <= a2, from its packed index.
func unpackGenotypeIndex(idx int) (a1, a2 int) {
	a2 = int((math.Sqrt(float64(8*idx+1)) - 1) / 2)
	for a2*(a2+1)/2 > idx {
		a2--
	}
	for (a2+1)*(a2+2)/2 <= idx {
		a2++
	}
	a1 = idx - a2*(a2+1)/2
	return a1, a2
}

// BuildInfo assembles the INFO field SmallMap (AF, AR2, DR2) for one
// marker's gprobs statistics.
func BuildInfo(s gprobs.Stats) utils.SmallMap {
	var info utils.SmallMap
	info.Set(AF, s.AlleleFreq()[1:])
	info.Set(AR2, s.AllelicR2())
	info.Set(DR2, s.DoseR2())
	return info
}

// RenderInfo formats an INFO SmallMap built by BuildInfo as
// "AR2=0.00;DR2=0.00;AF=#.##[,#.##...]", the fixed field order spec.md's
// external interface calls for.
func RenderInfo(info utils.SmallMap) string {
	var b strings.Builder
	ar2, _ := info.Get(AR2)
	dr2, _ := info.Get(DR2)
	af, _ := info.Get(AF)

	b.WriteString("AR2=")
	b.WriteString(FormatFixed(ar2.(float64), 2))
	b.WriteString(";DR2=")
	b.WriteString(FormatFixed(dr2.(float64), 2))
	b.WriteString(";AF=")
	freqs := af.([]float64)
	for i, f := range freqs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatAF(f))
	}
	return b.String()
}

// formatAF rounds f to 2 significant digits, the precision spec.md's
// external interface calls for AF specifically (distinct from the other
// "#.##" fixed-fraction-digit fields).
func formatAF(f float64) string {
	return strconv.FormatFloat(f, 'g', 2, 64)
}

// RenderGenotype formats one sample's FORMAT-field values in the column
// order given by format (a colon-separated subset of GT, DS, GP).
func RenderGenotype(g Genotype, format []string) string {
	sep := byte('/')
	if g.Phased {
		sep = '|'
	}

	parts := make([]string, len(format))
	for i, key := range format {
		switch key {
		case "GT":
			parts[i] = alleleString(g.GT[0]) + string(sep) + alleleString(g.GT[1])
		case "DS":
			dose, _ := g.Data.Get(DS)
			parts[i] = joinTrimmed(dose.([]float64), 2)
		case "GP":
			gp, _ := g.Data.Get(GP)
			parts[i] = joinTrimmed(gp.([]float64), 2)
		}
	}
	return strings.Join(parts, ":")
}

func alleleString(a int) string {
	if a < 0 {
		return "."
	}
	return strconv.Itoa(a)
}

func joinTrimmed(vs []float64, digits int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = FormatTrimmed(v, digits)
	}
	return strings.Join(parts, ",")
}

// RenderVariant formats one VCF data line: the nine fixed columns
// followed by one formatted Genotype column per sample, in column order.
// chrom is the marker's chromosome name, resolved by the caller from
// whichever ChromTable assigned mk.ChromIndex().
func RenderVariant(chrom string, mk marker.Marker, id string, info utils.SmallMap, format []string, genotypes []Genotype) string {
	alt := make([]string, mk.NAlleles()-1)
	for a := range alt {
		alt[a] = mk.Allele(a + 1)
	}

	var sb strings.Builder
	sb.WriteString(chrom)
	sb.WriteByte('\t')
	sb.WriteString(strconv.Itoa(mk.Pos()))
	sb.WriteByte('\t')
	sb.WriteString(id)
	sb.WriteByte('\t')
	sb.WriteString(mk.Allele(0))
	sb.WriteByte('\t')
	sb.WriteString(strings.Join(alt, ","))
	sb.WriteString("\t.\tPASS\t")
	sb.WriteString(RenderInfo(info))
	sb.WriteByte('\t')
	sb.WriteString(strings.Join(format, ":"))
	for _, g := range genotypes {
		sb.WriteByte('\t')
		sb.WriteString(RenderGenotype(g, format))
	}
	return sb.String()
}
