package ibd

import "testing"

func TestMergeSpansBothSegmentsAndKeepsHigherScore(t *testing.T) {
	a := Segment{Pair: HapPair{0, 1}, StartChrom: 0, StartPos: 100, EndChrom: 0, EndPos: 500, Score: 30, StartIndex: 3, EndIndex: 9}
	b := Segment{Pair: HapPair{0, 1}, StartChrom: 0, StartPos: 600, EndChrom: 0, EndPos: 900, Score: 10, StartIndex: 0, EndIndex: 4}

	merged := Merge(a, b)
	if merged.StartPos != a.StartPos || merged.EndPos != b.EndPos {
		t.Fatalf("Merge endpoints = (%d,%d), want (%d,%d)", merged.StartPos, merged.EndPos, a.StartPos, b.EndPos)
	}
	if merged.Score != 30 {
		t.Fatalf("Merge score = %v, want 30", merged.Score)
	}
	if merged.StartIndex != -1 {
		t.Fatalf("Merge StartIndex = %d, want -1", merged.StartIndex)
	}
	if merged.EndIndex != b.EndIndex {
		t.Fatalf("Merge EndIndex = %d, want %d", merged.EndIndex, b.EndIndex)
	}
}

func TestSameSample(t *testing.T) {
	same := Segment{Pair: HapPair{Hap1: 2, Hap2: 3}}
	if !same.SameSample() {
		t.Fatal("haplotypes 2,3 (same sample) reported as different samples")
	}
	diff := Segment{Pair: HapPair{Hap1: 2, Hap2: 4}}
	if diff.SameSample() {
		t.Fatal("haplotypes 2,4 (different samples) reported as same sample")
	}
}
