// Package gmap provides a monotone base-pair-to-genetic-position mapping,
// linearly interpolated between anchor points loaded from a PLINK-format
// genetic map file (one Map holds the anchors of every chromosome, keyed
// by chromosome index).
package gmap

import (
	"fmt"
	"sort"

	"github.com/browning-lab/beagle-impute/marker"
)

// Anchor is one (position, genetic position) row of a genetic map.
type Anchor struct {
	Pos   int
	GenPos float64
}

// Map holds, per chromosome, a monotone non-decreasing sequence of anchors
// and linearly interpolates between them; positions outside the anchor
// range extrapolate using the nearest pair's slope.
type Map struct {
	chromAnchors map[int][]Anchor
}

// NewMap constructs a Map from chromosome-grouped, position-sorted anchors.
// Anchors within a chromosome must already be sorted by Pos; NewMap sorts
// defensively and returns an error if genetic position is not monotone
// non-decreasing, since that means the map file itself is malformed rather
// than any internal invariant being violated.
func NewMap(chromAnchors map[int][]Anchor) (*Map, error) {
	cp := make(map[int][]Anchor, len(chromAnchors))
	for chrom, anchors := range chromAnchors {
		as := make([]Anchor, len(anchors))
		copy(as, anchors)
		sort.Slice(as, func(i, j int) bool { return as[i].Pos < as[j].Pos })
		for i := 1; i < len(as); i++ {
			if as[i].GenPos < as[i-1].GenPos {
				return nil, fmt.Errorf("gmap: genetic position not monotone on chromosome %d", chrom)
			}
		}
		cp[chrom] = as
	}
	return &Map{chromAnchors: cp}, nil
}

// GenPos returns the genetic position in centiMorgans for the given
// chromosome and base-pair position, linearly interpolating between the
// two bracketing anchors, or extrapolating from the nearest two anchors if
// pos lies outside the anchor range.
func (m *Map) GenPos(chrom, pos int) float64 {
	anchors := m.chromAnchors[chrom]
	if len(anchors) == 0 {
		return 0
	}
	if len(anchors) == 1 {
		return anchors[0].GenPos
	}
	i := sort.Search(len(anchors), func(i int) bool { return anchors[i].Pos >= pos })
	switch {
	case i == 0:
		return extrapolate(anchors[0], anchors[1], pos)
	case i == len(anchors):
		return extrapolate(anchors[len(anchors)-2], anchors[len(anchors)-1], pos)
	case anchors[i].Pos == pos:
		return anchors[i].GenPos
	default:
		return interpolate(anchors[i-1], anchors[i], pos)
	}
}

// GenPosMarker returns GenPos(marker.ChromIndex(), marker.Pos()).
func (m *Map) GenPosMarker(mk marker.Marker) float64 {
	return m.GenPos(mk.ChromIndex(), mk.Pos())
}

func interpolate(a, b Anchor, pos int) float64 {
	if a.Pos == b.Pos {
		return a.GenPos
	}
	frac := float64(pos-a.Pos) / float64(b.Pos-a.Pos)
	return a.GenPos + frac*(b.GenPos-a.GenPos)
}

func extrapolate(a, b Anchor, pos int) float64 {
	return interpolate(a, b, pos)
}
