package ibd

// Buffer carries unfinished IBD/HBD segments across a window boundary: a
// segment whose tract extends into the next window's overlap region is
// held here until the next window's Drain call either merges it with that
// tract's continuation or discovers the tract ended without one.
type Buffer struct {
	segs map[HapPair]Segment
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{segs: make(map[HapPair]Segment)}
}

// Drain processes one window's candidate segments, keyed by haplotype
// pair, against the splice boundaries of that window's CurrentData, and
// replaces the buffer's contents with whatever should carry forward into
// the next window. It returns the segments that should be emitted as
// final output this window.
//
// A candidate segment that starts at index 0 is first checked against the
// buffer for a continuation of an earlier tract and merged if one is
// found. A segment is emitted once its end lies at or after prevSplice
// and either this is the window's last splice point or its end lies
// before nextSplice; otherwise, if its start lies within the next
// window's overlap region, it is buffered for the next call.
func (b *Buffer) Drain(candidates map[HapPair][]Segment, prevSplice, nextOverlap, nextSplice, nMarkers int) []Segment {
	lastBuffer := b.segs
	b.segs = make(map[HapPair]Segment)

	var emitted []Segment
	for key, segs := range candidates {
		for _, seg := range segs {
			if seg.StartIndex == 0 {
				if saved, ok := lastBuffer[key]; ok {
					seg = Merge(saved, seg)
				}
			}
			endExclusive := seg.EndIndex + 1
			switch {
			case endExclusive >= prevSplice && (nextSplice == nMarkers || endExclusive < nextSplice):
				emitted = append(emitted, seg)
			case seg.StartIndex < nextOverlap:
				b.segs[key] = seg
			}
		}
	}
	return emitted
}
