package window

import (
	"errors"
	"fmt"

	"github.com/browning-lab/beagle-impute/gmap"
)

// ErrNoLookahead is returned by advanceWindow variants when called after
// the source has already been exhausted.
var ErrNoLookahead = errors.New("window: no lookahead emission, cannot advance window")

// Iterator maintains a sliding window over a Source's emission stream,
// splicing consecutive windows on an overlap tail and never splitting a
// run of same-position markers across a window boundary.
type Iterator struct {
	src          Source
	window       []Emission
	overlap      int
	lookahead    Emission
	hasLookahead bool
	cumMarkerCnt int
}

// NewIterator constructs an Iterator over src and primes the one-record
// lookahead. An error from src.Next() on priming is returned immediately.
func NewIterator(src Source) (*Iterator, error) {
	it := &Iterator{src: src}
	if src.HasNext() {
		e, err := src.Next()
		if err != nil {
			return nil, err
		}
		it.lookahead = e
		it.hasLookahead = true
	}
	return it, nil
}

// Window returns the current window's emissions, in order.
func (it *Iterator) Window() []Emission { return it.window }

// Overlap returns the overlap count used to seed the current window.
func (it *Iterator) Overlap() int { return it.overlap }

// CumulativeMarkers returns the running total of non-overlap markers
// emitted by advanceWindow calls so far.
func (it *Iterator) CumulativeMarkers() int { return it.cumMarkerCnt }

// lastWindowOnChrom reports whether the lookahead is absent, or its
// chromosome differs from the first record of the current window.
func (it *Iterator) lastWindowOnChrom() bool {
	if !it.hasLookahead {
		return true
	}
	if len(it.window) == 0 {
		return false
	}
	return it.lookahead.Marker().ChromIndex() != it.window[0].Marker().ChromIndex()
}

// canAdvanceWindow reports whether a lookahead emission is available.
func (it *Iterator) canAdvanceWindow() bool {
	return it.hasLookahead
}

// advance implements the shared body of both advanceWindow variants.
// requestedOverlap is the overlap argument for this call; withinBudget is
// consulted (with the in-progress new window) to decide whether another
// lookahead record may be appended before the tie-extension pass runs.
func (it *Iterator) advance(requestedOverlap int, withinBudget func(newWindow []Emission) bool) error {
	if !it.canAdvanceWindow() {
		return ErrNoLookahead
	}

	wasLastWindowOnChrom := len(it.window) == 0 || it.lastWindowOnChrom()

	actualOverlap := 0
	if !wasLastWindowOnChrom {
		if requestedOverlap < len(it.window) {
			actualOverlap = requestedOverlap
		} else {
			actualOverlap = len(it.window)
		}
		for actualOverlap > 0 && actualOverlap < len(it.window) {
			boundary := it.window[len(it.window)-actualOverlap]
			before := it.window[len(it.window)-actualOverlap-1]
			if boundary.Marker().ChromIndex() == before.Marker().ChromIndex() &&
				boundary.Marker().Pos() == before.Marker().Pos() {
				actualOverlap++
			} else {
				break
			}
		}
	}

	newWindow := make([]Emission, actualOverlap)
	copy(newWindow, it.window[len(it.window)-actualOverlap:])

	firstChrom := -1
	if len(newWindow) > 0 {
		firstChrom = newWindow[0].Marker().ChromIndex()
	} else if it.hasLookahead {
		firstChrom = it.lookahead.Marker().ChromIndex()
	}

	for it.hasLookahead && it.lookahead.Marker().ChromIndex() == firstChrom && withinBudget(newWindow) {
		newWindow = append(newWindow, it.lookahead)
		if err := it.fetchLookahead(); err != nil {
			return err
		}
	}

	for it.hasLookahead && len(newWindow) > 0 &&
		it.lookahead.Marker().ChromIndex() == newWindow[len(newWindow)-1].Marker().ChromIndex() &&
		it.lookahead.Marker().Pos() == newWindow[len(newWindow)-1].Marker().Pos() {
		newWindow = append(newWindow, it.lookahead)
		if err := it.fetchLookahead(); err != nil {
			return err
		}
	}

	emitted := len(newWindow) - actualOverlap
	it.window = newWindow
	it.overlap = actualOverlap
	it.cumMarkerCnt += emitted
	return nil
}

func (it *Iterator) fetchLookahead() error {
	if !it.src.HasNext() {
		it.hasLookahead = false
		var zero Emission
		it.lookahead = zero
		return nil
	}
	e, err := it.src.Next()
	if err != nil {
		return err
	}
	it.lookahead = e
	it.hasLookahead = true
	return nil
}

// PeekOverlap reports the overlap count a following AdvanceWindow or
// AdvanceWindowCM call would use if called with the given requested
// overlap, without advancing the iterator: 0 once the current window is
// the last one on its chromosome (no lookahead remains, or the lookahead
// starts a new chromosome), otherwise min(requested, len(Window())). The
// driver uses this to learn a window's true trailing overlap — needed to
// build that window's CurrentData splice boundaries — one step before
// actually advancing into it.
func (it *Iterator) PeekOverlap(requested int) int {
	if it.lastWindowOnChrom() {
		return 0
	}
	if requested < len(it.window) {
		return requested
	}
	return len(it.window)
}

// AdvanceWindow advances the window by size, requesting the given overlap
// tail from the previous window. It fails if canAdvanceWindow() is false
// or the inputs violate 0 <= overlap < windowSize.
func (it *Iterator) AdvanceWindow(overlap, windowSize int) error {
	if overlap < 0 || windowSize <= overlap {
		return fmt.Errorf("window: invalid overlap=%d windowSize=%d, require 0 <= overlap < windowSize", overlap, windowSize)
	}
	return it.advance(overlap, func(newWindow []Emission) bool {
		return len(newWindow) < windowSize
	})
}

// AdvanceWindowCM advances the window using a genetic-distance budget cM
// (centiMorgans), requesting the given overlap tail from the previous
// window, per m's genetic map. The budget is measured from the genetic
// position of the new window's first marker (the first overlap marker, or
// the first freshly appended marker when there is no overlap).
func (it *Iterator) AdvanceWindowCM(overlap int, cM float64, m *gmap.Map) error {
	if overlap < 0 {
		return fmt.Errorf("window: invalid overlap=%d, require overlap >= 0", overlap)
	}
	if cM < 0 {
		return fmt.Errorf("window: invalid cM=%g, require cM >= 0", cM)
	}
	var startMapPos float64
	started := false
	return it.advance(overlap, func(newWindow []Emission) bool {
		if !started {
			if len(newWindow) > 0 {
				startMapPos = m.GenPosMarker(newWindow[0].Marker())
			} else if it.hasLookahead {
				startMapPos = m.GenPosMarker(it.lookahead.Marker())
			}
			started = true
		}
		return m.GenPosMarker(it.lookahead.Marker()) < startMapPos+cM
	})
}
