package vcf

import (
	"math"
	"testing"

	"github.com/browning-lab/beagle-impute/hmm"
	"github.com/browning-lab/beagle-impute/marker"
	"github.com/browning-lab/beagle-impute/utils"
)

func biallelicMarkers() marker.Markers {
	return marker.NewMarkers([]marker.Marker{marker.NewMarker(0, 100, []string{"A", "T"})})
}

func haploidProbs(markers marker.Markers, hap int, probs []float64) hmm.AlleleProbs {
	return hmm.NewAlleleProbs(markers, hap, probs)
}

func TestGenotypeIndexIsSymmetric(t *testing.T) {
	if GenotypeIndex(0, 1) != GenotypeIndex(1, 0) {
		t.Fatal("GenotypeIndex not symmetric")
	}
	if GenotypeIndex(0, 0) != 0 {
		t.Fatalf("GenotypeIndex(0,0) = %d, want 0", GenotypeIndex(0, 0))
	}
}

func TestGenotypeProbsSumsToOne(t *testing.T) {
	ms := biallelicMarkers()
	hap1 := haploidProbs(ms, 0, []float64{0.3, 0.7})
	hap2 := haploidProbs(ms, 1, []float64{0.4, 0.6})

	gp := GenotypeProbs(hap1, hap2, 0)
	var sum float64
	for _, p := range gp {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("GenotypeProbs sums to %v, want 1", sum)
	}
}

func TestUnpackGenotypeIndexInvertsGenotypeIndex(t *testing.T) {
	for a1 := 0; a1 < 4; a1++ {
		for a2 := a1; a2 < 4; a2++ {
			idx := GenotypeIndex(a1, a2)
			gotA1, gotA2 := unpackGenotypeIndex(idx)
			if gotA1 != a1 || gotA2 != a2 {
				t.Fatalf("unpackGenotypeIndex(GenotypeIndex(%d,%d)=%d) = (%d,%d), want (%d,%d)", a1, a2, idx, gotA1, gotA2, a1, a2)
			}
		}
	}
}

func TestGenotypeFromHapProbsIsPhased(t *testing.T) {
	ms := biallelicMarkers()
	hap1 := haploidProbs(ms, 0, []float64{0.1, 0.9})
	hap2 := haploidProbs(ms, 1, []float64{0.8, 0.2})

	g := GenotypeFromHapProbs(hap1, hap2, 0, false)
	if !g.Phased {
		t.Fatal("GenotypeFromHapProbs produced an unphased genotype")
	}
	if g.GT[0] != 1 || g.GT[1] != 0 {
		t.Fatalf("GT = %v, want [1 0] (best allele per haplotype)", g.GT)
	}
}

func TestGenotypeFromGenotypeProbsIsUnphasedAndPicksArgmax(t *testing.T) {
	ms := biallelicMarkers()
	// both haplotypes near-certain allele 1: the unordered genotype (1,1) should dominate
	hap1 := haploidProbs(ms, 0, []float64{0.01, 0.99})
	hap2 := haploidProbs(ms, 1, []float64{0.01, 0.99})

	g := GenotypeFromGenotypeProbs(hap1, hap2, 0)
	if g.Phased {
		t.Fatal("GenotypeFromGenotypeProbs produced a phased genotype")
	}
	if g.GT[0] != 1 || g.GT[1] != 1 {
		t.Fatalf("GT = %v, want [1 1]", g.GT)
	}
}

func TestDosageLinearInNonRefAlleleProb(t *testing.T) {
	ms := biallelicMarkers()
	hap1 := haploidProbs(ms, 0, []float64{0.2, 0.8})
	hap2 := haploidProbs(ms, 1, []float64{0.5, 0.5})

	dose := Dosage(hap1, hap2, 0)
	if len(dose) != 1 {
		t.Fatalf("len(dose) = %d, want 1", len(dose))
	}
	if math.Abs(dose[0]-1.3) > 1e-9 {
		t.Fatalf("dose[0] = %v, want 1.3", dose[0])
	}
}

func TestRenderGenotypeSeparatorByPhase(t *testing.T) {
	g := Genotype{Phased: true, GT: [2]int{0, 1}}
	if got := RenderGenotype(g, []string{"GT"}); got != "0|1" {
		t.Fatalf("RenderGenotype(phased) = %q, want 0|1", got)
	}
	g.Phased = false
	if got := RenderGenotype(g, []string{"GT"}); got != "0/1" {
		t.Fatalf("RenderGenotype(unphased) = %q, want 0/1", got)
	}
}

func TestRenderGenotypeMissingAllele(t *testing.T) {
	g := Genotype{Phased: false, GT: [2]int{-1, -1}}
	if got := RenderGenotype(g, []string{"GT"}); got != "./." {
		t.Fatalf("RenderGenotype(missing) = %q, want ./.", got)
	}
}

func TestRenderInfoFieldOrder(t *testing.T) {
	var info utils.SmallMap
	info.Set(AF, []float64{0.25})
	info.Set(AR2, 0.8)
	info.Set(DR2, 0.75)

	got := RenderInfo(info)
	want := "AR2=0.80;DR2=0.75;AF=0.25"
	if got != want {
		t.Fatalf("RenderInfo() = %q, want %q", got, want)
	}
}

func TestRenderVariantColumnLayout(t *testing.T) {
	mk := marker.NewMarker(0, 1000, []string{"A", "C", "G"})
	var info utils.SmallMap
	info.Set(AF, []float64{0.1, 0.2})
	info.Set(AR2, 0.5)
	info.Set(DR2, 0.5)

	g := Genotype{Phased: true, GT: [2]int{1, 2}}
	g.Data.Set(DS, []float64{0.2, 0.8})

	line := RenderVariant("1", mk, "rs1", info, []string{"GT", "DS"}, []Genotype{g})
	want := "1\t1000\trs1\tA\tC,G\t.\tPASS\tAR2=0.50;DR2=0.50;AF=0.1,0.2\tGT:DS\t1|2:0.2,0.8"
	if line != want {
		t.Fatalf("RenderVariant() =\n%q\nwant\n%q", line, want)
	}
}
