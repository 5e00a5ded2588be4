package ibd

import "testing"

func TestBufferDrainEmitsSegmentWithinSplice(t *testing.T) {
	b := NewBuffer()
	seg := Segment{Pair: HapPair{0, 1}, StartIndex: 2, EndIndex: 5}
	candidates := map[HapPair][]Segment{seg.Pair: {seg}}

	emitted := b.Drain(candidates, 0, 0, 10, 10)
	if len(emitted) != 1 {
		t.Fatalf("Drain emitted %d segments, want 1", len(emitted))
	}
}

func TestBufferDrainBuffersSegmentExtendingIntoOverlap(t *testing.T) {
	b := NewBuffer()
	seg := Segment{Pair: HapPair{0, 1}, StartPos: 300, EndPos: 350, StartIndex: 8, EndIndex: 9}
	candidates := map[HapPair][]Segment{seg.Pair: {seg}}

	emitted := b.Drain(candidates, 0, 10, 0, 10)
	if len(emitted) != 0 {
		t.Fatalf("Drain emitted %d segments, want 0 (should be buffered)", len(emitted))
	}

	continuation := Segment{Pair: HapPair{0, 1}, StartPos: 360, EndPos: 400, StartIndex: 0, EndIndex: 2}
	emitted2 := b.Drain(map[HapPair][]Segment{continuation.Pair: {continuation}}, 0, 0, 10, 10)
	if len(emitted2) != 1 || emitted2[0].StartPos != seg.StartPos {
		t.Fatalf("buffered segment was not picked up by the following window's Drain: %+v", emitted2)
	}
}

func TestBufferDrainMergesContinuationFromPreviousWindow(t *testing.T) {
	b := NewBuffer()
	first := Segment{Pair: HapPair{0, 1}, StartPos: 100, EndPos: 200, Score: 5, StartIndex: 8, EndIndex: 9}
	b.Drain(map[HapPair][]Segment{first.Pair: {first}}, 0, 2, 8, 10)

	continuation := Segment{Pair: HapPair{0, 1}, StartPos: 210, EndPos: 400, Score: 7, StartIndex: 0, EndIndex: 4}
	emitted := b.Drain(map[HapPair][]Segment{continuation.Pair: {continuation}}, 0, 0, 10, 10)

	if len(emitted) != 1 {
		t.Fatalf("Drain after continuation emitted %d segments, want 1", len(emitted))
	}
	if emitted[0].StartPos != first.StartPos {
		t.Fatalf("merged segment StartPos = %d, want %d (from buffered tract)", emitted[0].StartPos, first.StartPos)
	}
	if emitted[0].EndPos != continuation.EndPos {
		t.Fatalf("merged segment EndPos = %d, want %d", emitted[0].EndPos, continuation.EndPos)
	}
}

func TestBufferDrainDropsUnbufferedSegmentThatDoesNotContinue(t *testing.T) {
	b := NewBuffer()
	// A segment that neither qualifies for emission nor for buffering (doesn't start in overlap) is dropped.
	seg := Segment{Pair: HapPair{0, 1}, StartIndex: 1, EndIndex: 2}
	emitted := b.Drain(map[HapPair][]Segment{seg.Pair: {seg}}, 5, 0, 10, 10)
	if len(emitted) != 0 {
		t.Fatalf("Drain emitted %d segments, want 0", len(emitted))
	}
}
