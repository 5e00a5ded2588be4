package hmm

import (
	"testing"

	"github.com/browning-lab/beagle-impute/marker"
)

func twoMarkerSet() marker.Markers {
	return marker.NewMarkers([]marker.Marker{
		marker.NewMarker(0, 100, []string{"A", "T"}),
		marker.NewMarker(0, 200, []string{"A", "C", "G"}),
	})
}

func TestAlleleProbsProb(t *testing.T) {
	ms := twoMarkerSet()
	probs := []float64{0.3, 0.7, 0.1, 0.2, 0.7}
	ap := NewAlleleProbs(ms, 0, probs)

	if got := ap.Prob(0, 1); got != 0.7 {
		t.Fatalf("Prob(0,1) = %v, want 0.7", got)
	}
	if got := ap.Prob(1, 2); got != 0.7 {
		t.Fatalf("Prob(1,2) = %v, want 0.7", got)
	}
}

func TestAlleleProbsNAlleles(t *testing.T) {
	ap := NewAlleleProbs(twoMarkerSet(), 0, []float64{0.3, 0.7, 0.1, 0.2, 0.7})
	if ap.NAlleles(0) != 2 {
		t.Fatalf("NAlleles(0) = %d, want 2", ap.NAlleles(0))
	}
	if ap.NAlleles(1) != 3 {
		t.Fatalf("NAlleles(1) = %d, want 3", ap.NAlleles(1))
	}
}

func TestAlleleProbsBestAllele(t *testing.T) {
	ap := NewAlleleProbs(twoMarkerSet(), 1, []float64{0.3, 0.7, 0.1, 0.2, 0.7})
	a, p := ap.BestAllele(0)
	if a != 1 || p != 0.7 {
		t.Fatalf("BestAllele(0) = (%d,%v), want (1,0.7)", a, p)
	}
	a2, p2 := ap.BestAllele(1)
	if a2 != 2 || p2 != 0.7 {
		t.Fatalf("BestAllele(1) = (%d,%v), want (2,0.7)", a2, p2)
	}
}

func TestAlleleProbsHap(t *testing.T) {
	ap := NewAlleleProbs(twoMarkerSet(), 3, []float64{1, 0, 1, 0, 0})
	if ap.Hap() != 3 {
		t.Fatalf("Hap() = %d, want 3", ap.Hap())
	}
}
