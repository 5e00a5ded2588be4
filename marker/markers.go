package marker

// Markers is an ordered, immutable sequence of Marker values. It precomputes
// the cumulative allele count so sumAlleles lookups (the base index into
// allele-probability arrays) are O(1).
type Markers struct {
	markers    []Marker
	sumAlleles []int // sumAlleles[m] = number of alleles in markers[0:m]
}

// NewMarkers constructs a Markers sequence from the given slice, which is
// copied defensively.
func NewMarkers(ms []Marker) Markers {
	cp := make([]Marker, len(ms))
	copy(cp, ms)
	sums := make([]int, len(cp)+1)
	for i, m := range cp {
		sums[i+1] = sums[i] + m.NAlleles()
	}
	return Markers{markers: cp, sumAlleles: sums}
}

// NMarkers returns the number of markers.
func (ms Markers) NMarkers() int { return len(ms.markers) }

// Marker returns the marker at the given index.
func (ms Markers) Marker(index int) Marker { return ms.markers[index] }

// SumAlleles returns the total number of alleles over markers [0, index),
// the base offset for allele-indexed arrays at marker index.
func (ms Markers) SumAlleles(index int) int { return ms.sumAlleles[index] }

// SumAllelesTotal returns SumAlleles(NMarkers()), the size required for an
// array indexed by (marker, allele) pairs across every marker.
func (ms Markers) SumAllelesTotal() int { return ms.sumAlleles[len(ms.sumAlleles)-1] }

// Equals reports whether two Markers sequences have identical markers.
func (ms Markers) Equals(other Markers) bool {
	if len(ms.markers) != len(other.markers) {
		return false
	}
	for i, m := range ms.markers {
		if !m.Equals(other.markers[i]) {
			return false
		}
	}
	return true
}

// Slice returns the sub-sequence of markers [start, end).
func (ms Markers) Slice(start, end int) Markers {
	return NewMarkers(ms.markers[start:end])
}
