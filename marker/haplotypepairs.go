package marker

// SampleHapPairs is an ordered list of samples, each contributing a pair of
// phased haplotypes, together with the markers each haplotype is typed on.
// Allele calls are stored one IntArray per marker, indexed by haplotype.
type SampleHapPairs struct {
	samples Samples
	markers Markers
	alleles []IntArray // alleles[m].Get(h) is the allele of haplotype h at marker m
}

// NewSampleHapPairs constructs a SampleHapPairs instance. alleles must have
// one entry per marker, each sized 2*samples.NSamples().
func NewSampleHapPairs(samples Samples, markers Markers, alleles []IntArray) SampleHapPairs {
	if len(alleles) != markers.NMarkers() {
		panic("marker.NewSampleHapPairs: allele row count does not match marker count")
	}
	return SampleHapPairs{samples: samples, markers: markers, alleles: alleles}
}

// Samples returns the samples carried by this instance.
func (s SampleHapPairs) Samples() Samples { return s.samples }

// Markers returns the markers these haplotypes are typed on.
func (s SampleHapPairs) Markers() Markers { return s.markers }

// NHaps returns 2*NSamples, the number of haplotypes.
func (s SampleHapPairs) NHaps() int { return 2 * s.samples.NSamples() }

// NMarkers returns the number of markers.
func (s SampleHapPairs) NMarkers() int { return s.markers.NMarkers() }

// Allele returns the allele index of the given haplotype at the given
// marker.
func (s SampleHapPairs) Allele(marker, hap int) int {
	return s.alleles[marker].Get(hap)
}

// Sample returns the sample index for the given haplotype: hap/2.
func (s SampleHapPairs) Sample(hap int) int { return hap / 2 }

// Restrict returns a new SampleHapPairs over the same samples, restricted to
// the marker indices given by markerIndices into this instance's markers.
func (s SampleHapPairs) Restrict(markerIndices []int) SampleHapPairs {
	ms := make([]Marker, len(markerIndices))
	rows := make([]IntArray, len(markerIndices))
	for i, mi := range markerIndices {
		ms[i] = s.markers.Marker(mi)
		rows[i] = s.alleles[mi]
	}
	return SampleHapPairs{samples: s.samples, markers: NewMarkers(ms), alleles: rows}
}

// Slice returns a new SampleHapPairs over the marker range [start, end).
func (s SampleHapPairs) Slice(start, end int) SampleHapPairs {
	return SampleHapPairs{
		samples: s.samples,
		markers: s.markers.Slice(start, end),
		alleles: s.alleles[start:end],
	}
}
