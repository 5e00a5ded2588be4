package haplotype

import "testing"

func TestNewRefHapSegsBuildsOverlappingSegments(t *testing.T) {
	refHaps := buildHapPairs(t, 1, [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {0, 0}, {1, 1}})
	// 6 markers, 2 clusters: [0,3) and [3,6)
	clusterStart := []int{0, 3}
	clusterEnd := []int{3, 6}

	segs, err := NewRefHapSegs(refHaps, clusterStart, clusterEnd)
	if err != nil {
		t.Fatalf("NewRefHapSegs: %v", err)
	}
	if segs.NClusters() != 2 {
		t.Fatalf("NClusters() = %d, want 2", segs.NClusters())
	}
	// 3 segments: [0,3), [0,6), [3,6)
	if segs.SegStart(0) != 0 || segs.SegEnd(0) != 3 {
		t.Fatalf("segment 0 = [%d,%d), want [0,3)", segs.SegStart(0), segs.SegEnd(0))
	}
	if segs.SegStart(1) != 0 || segs.SegEnd(1) != 6 {
		t.Fatalf("segment 1 = [%d,%d), want [0,6)", segs.SegStart(1), segs.SegEnd(1))
	}
	if segs.SegStart(2) != 3 || segs.SegEnd(2) != 6 {
		t.Fatalf("segment 2 = [%d,%d), want [3,6)", segs.SegStart(2), segs.SegEnd(2))
	}
}

func TestNewRefHapSegsRejectsOverlappingClusters(t *testing.T) {
	refHaps := buildHapPairs(t, 1, [][]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}})
	_, err := NewRefHapSegs(refHaps, []int{0, 1}, []int{2, 4})
	if err == nil {
		t.Fatal("NewRefHapSegs with overlapping clusters did not error")
	}
}

func TestNewRefHapSegsRejectsOutOfRangeEnd(t *testing.T) {
	refHaps := buildHapPairs(t, 1, [][]int{{0, 0}, {0, 1}})
	_, err := NewRefHapSegs(refHaps, []int{0}, []int{5})
	if err == nil {
		t.Fatal("NewRefHapSegs with clusterEnd beyond nMarkers did not error")
	}
}
