package gmap

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func mustMap(t *testing.T, chromAnchors map[int][]Anchor) *Map {
	t.Helper()
	m, err := NewMap(chromAnchors)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

func TestGenPosInterpolates(t *testing.T) {
	m := mustMap(t, map[int][]Anchor{
		0: {{Pos: 100, GenPos: 0}, {Pos: 200, GenPos: 1}},
	})
	if got := m.GenPos(0, 150); !almostEqual(got, 0.5) {
		t.Fatalf("GenPos(150) = %v, want 0.5", got)
	}
}

func TestGenPosExtrapolatesBeforeAndAfter(t *testing.T) {
	m := mustMap(t, map[int][]Anchor{
		0: {{Pos: 100, GenPos: 1}, {Pos: 200, GenPos: 2}},
	})
	if got := m.GenPos(0, 0); !almostEqual(got, 0) {
		t.Fatalf("GenPos(0) = %v, want 0", got)
	}
	if got := m.GenPos(0, 300); !almostEqual(got, 3) {
		t.Fatalf("GenPos(300) = %v, want 3", got)
	}
}

func TestGenPosSingleAnchor(t *testing.T) {
	m := mustMap(t, map[int][]Anchor{
		0: {{Pos: 100, GenPos: 5}},
	})
	if got := m.GenPos(0, 999); got != 5 {
		t.Fatalf("GenPos with single anchor = %v, want 5", got)
	}
}

func TestGenPosUnknownChromReturnsZero(t *testing.T) {
	m := mustMap(t, map[int][]Anchor{0: {{Pos: 100, GenPos: 5}}})
	if got := m.GenPos(7, 100); got != 0 {
		t.Fatalf("GenPos for unknown chrom = %v, want 0", got)
	}
}

func TestGenPosExactAnchor(t *testing.T) {
	m := mustMap(t, map[int][]Anchor{
		0: {{Pos: 100, GenPos: 1}, {Pos: 200, GenPos: 2}, {Pos: 300, GenPos: 3}},
	})
	if got := m.GenPos(0, 200); got != 2 {
		t.Fatalf("GenPos(200) = %v, want 2", got)
	}
}

func TestNewMapSortsUnorderedAnchors(t *testing.T) {
	m := mustMap(t, map[int][]Anchor{
		0: {{Pos: 200, GenPos: 2}, {Pos: 100, GenPos: 1}},
	})
	if got := m.GenPos(0, 150); !almostEqual(got, 1.5) {
		t.Fatalf("GenPos(150) after sort = %v, want 1.5", got)
	}
}

func TestNewMapErrorsOnNonMonotoneGenPos(t *testing.T) {
	_, err := NewMap(map[int][]Anchor{
		0: {{Pos: 100, GenPos: 2}, {Pos: 200, GenPos: 1}},
	})
	if err == nil {
		t.Fatal("NewMap with non-monotone genetic position did not return an error")
	}
}
