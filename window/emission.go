// Package window implements the sliding marker window over an ordered
// emission stream (§4.1) and the per-window CurrentData splice view (§4.2).
package window

import "github.com/browning-lab/beagle-impute/marker"

// Emission is the capability set the window iterator requires of each
// record in the input stream: a marker description plus per-haplotype
// allele accessors for the reference panel and, where the marker is also
// genotyped in the target, the target haplotypes. Concrete emission kinds
// (genotype, allele-probability, genotype-likelihood sources) implement
// this interface with their own internal representation; the window
// iterator and everything downstream of it only ever sees this interface.
type Emission interface {
	Marker() marker.Marker
	// IsTargetMarker reports whether this marker is also genotyped in the
	// imputation target, i.e. whether TargetAllele is meaningful here.
	IsTargetMarker() bool
	// RefAllele returns the allele index of reference haplotype hap.
	RefAllele(hap int) int
	// NRefHaps returns the number of reference haplotypes.
	NRefHaps() int
	// TargetAllele returns the allele index of target haplotype hap.
	// Only valid when IsTargetMarker() is true.
	TargetAllele(hap int) int
	// NTargetHaps returns the number of target haplotypes.
	NTargetHaps() int
}

// Source is a lazy, finite, forward-only provider of Emission records for
// one or more chromosomes, ordered by chromosome then position.
type Source interface {
	HasNext() bool
	Next() (Emission, error)
	RefSamples() marker.Samples
	TargetSamples() marker.Samples
	File() string
	Close() error
}
