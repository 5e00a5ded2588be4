package haplotype

import (
	"testing"

	"github.com/browning-lab/beagle-impute/marker"
)

func buildHapPairs(t *testing.T, nSamples int, rows [][]int) marker.SampleHapPairs {
	t.Helper()
	ids := make([]string, nSamples)
	for i := range ids {
		ids[i] = "s"
	}
	samples := marker.NewSamples(ids)
	mks := make([]marker.Marker, len(rows))
	intRows := make([]marker.IntArray, len(rows))
	for i, row := range rows {
		mks[i] = marker.NewMarker(0, 100+i, []string{"A", "T"})
		intRows[i] = marker.NewIntArray(row)
	}
	return marker.NewSampleHapPairs(samples, marker.NewMarkers(mks), intRows)
}

func TestCodeAssignsSameCodeToIdenticalSequences(t *testing.T) {
	ref := buildHapPairs(t, 2, [][]int{{0, 1, 0, 1}, {1, 0, 1, 0}})
	target := buildHapPairs(t, 1, [][]int{{0, 1}, {1, 0}})

	refCodes, targetCodes, nSeq := Code(ref, target, 0, 2)
	if refCodes[0] != refCodes[2] {
		t.Fatalf("identical ref haplotypes 0 and 2 got different codes: %v", refCodes)
	}
	if targetCodes[0] != refCodes[0] {
		t.Fatalf("target haplotype matching ref sequence got a different code: target=%d ref=%d", targetCodes[0], refCodes[0])
	}
	if nSeq == 0 {
		t.Fatal("nSeq = 0, want at least 1 distinct sequence")
	}
}

func TestCodeAssignsFreshCodeToNovelTargetSequence(t *testing.T) {
	ref := buildHapPairs(t, 1, [][]int{{0, 0}})
	target := buildHapPairs(t, 1, [][]int{{1, 1}})

	refCodes, targetCodes, nSeq := Code(ref, target, 0, 1)
	if targetCodes[0] == refCodes[0] {
		t.Fatal("target sequence distinct from reference got the reference's code")
	}
	if nSeq != 2 {
		t.Fatalf("nSeq = %d, want 2", nSeq)
	}
}

func TestBitWidth(t *testing.T) {
	cases := []struct {
		max  int
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
	}
	for _, c := range cases {
		if got := bitWidth(c.max); got != c.want {
			t.Fatalf("bitWidth(%d) = %d, want %d", c.max, got, c.want)
		}
	}
}
