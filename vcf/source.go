package vcf

import (
	"fmt"
	"io"

	"github.com/browning-lab/beagle-impute/marker"
	"github.com/browning-lab/beagle-impute/window"
)

// Source merges a reference-panel VCF and a target-genotype VCF, both
// sorted by chromosome and position and sharing a ChromTable, into one
// window.Source: the ordered emission stream the window iterator consumes.
// Target markers not present in the reference panel are dropped, since
// this engine only imputes onto the reference panel's marker set.
type Source struct {
	ref, tgt *Reader
	file     string
	chroms   *ChromTable

	refFilter, tgtFilter hapFilter

	refRec Record
	refOK  bool
	tgtRec Record
	tgtOK  bool

	skippedTargetOnly int
}

// OpenSource opens refPath and gtPath (optionally BGZF-compressed),
// restricts both to chrom if non-empty, and drops the given excluded
// sample IDs from each panel. chroms assigns the chromosome name/index
// mapping; pass the same ChromTable to gmap.Load so both inputs agree on
// chromosome identity. nThreads bounds the BGZF decompression
// parallelism for either input.
func OpenSource(refPath, gtPath, chrom string, excludeFromRef, excludeTarget []string, chroms *ChromTable, nThreads int) (*Source, error) {
	ref, err := OpenReader(refPath, chroms, chrom, nThreads)
	if err != nil {
		return nil, err
	}
	tgt, err := OpenReader(gtPath, chroms, chrom, nThreads)
	if err != nil {
		ref.Close()
		return nil, err
	}

	s := &Source{
		ref:       ref,
		tgt:       tgt,
		file:      refPath + "," + gtPath,
		chroms:    chroms,
		refFilter: newHapFilter(ref.SampleIDs(), excludeFromRef),
		tgtFilter: newHapFilter(tgt.SampleIDs(), excludeTarget),
	}
	if err := s.advanceRef(); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.advanceTgt(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Source) advanceRef() error {
	rec, err := s.ref.Next()
	if err == io.EOF {
		s.refOK = false
		return nil
	}
	if err != nil {
		return err
	}
	s.refRec, s.refOK = rec, true
	return nil
}

func (s *Source) advanceTgt() error {
	rec, err := s.tgt.Next()
	if err == io.EOF {
		s.tgtOK = false
		return nil
	}
	if err != nil {
		return err
	}
	s.tgtRec, s.tgtOK = rec, true
	return nil
}

// RefSamples returns the kept reference-panel samples.
func (s *Source) RefSamples() marker.Samples { return s.refFilter.samples }

// TargetSamples returns the kept target samples.
func (s *Source) TargetSamples() marker.Samples { return s.tgtFilter.samples }

// File returns a description of the files this Source reads, for
// diagnostics.
func (s *Source) File() string { return s.file }

// ChromTable returns the chromosome name/index table this Source (and any
// genetic map loaded alongside it) was built against.
func (s *Source) ChromTable() *ChromTable { return s.chroms }

// Close releases both underlying files.
func (s *Source) Close() error {
	err1 := s.ref.Close()
	err2 := s.tgt.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// HasNext reports whether another reference-panel marker remains. Target
// markers absent from the reference panel are silently consumed and do
// not themselves extend the stream.
func (s *Source) HasNext() bool { return s.refOK }

func before(a, b marker.Marker) bool {
	if a.ChromIndex() != b.ChromIndex() {
		return a.ChromIndex() < b.ChromIndex()
	}
	return a.Pos() < b.Pos()
}

func samePos(a, b marker.Marker) bool {
	return a.ChromIndex() == b.ChromIndex() && a.Pos() == b.Pos()
}

// Next returns the next reference-panel marker, combined with the matching
// target-panel genotypes if the target VCF carries a record at the same
// position.
func (s *Source) Next() (window.Emission, error) {
	if !s.refOK {
		return nil, fmt.Errorf("vcf: Next called with no more records")
	}
	refRec := s.refRec
	if err := s.advanceRef(); err != nil {
		return nil, err
	}

	for s.tgtOK && before(s.tgtRec.Marker, refRec.Marker) {
		s.skippedTargetOnly++
		if err := s.advanceTgt(); err != nil {
			return nil, err
		}
	}

	e := &emission{marker: refRec.Marker, refAlleles: refRec.Alleles, refFilter: s.refFilter}
	if s.tgtOK && samePos(s.tgtRec.Marker, refRec.Marker) {
		e.isTarget = true
		e.targetAlleles = translateAlleles(refRec.Marker, s.tgtRec.Marker, s.tgtRec.Alleles)
		e.tgtFilter = s.tgtFilter
		if err := s.advanceTgt(); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// translateAlleles remaps tgtAlleles (indices into tgtMk's own allele list)
// into indices over refMk's allele list, since the two files need not list
// ALT alleles in the same order. An allele string absent from the
// reference marker's list (a target-private allele) maps to the
// reference allele (0); such positions are not exercised by well-formed,
// biallelic-aligned inputs.
func translateAlleles(refMk, tgtMk marker.Marker, tgtAlleles []int) []int {
	lookup := make(map[string]int, refMk.NAlleles())
	for a := 0; a < refMk.NAlleles(); a++ {
		lookup[refMk.Allele(a)] = a
	}

	out := make([]int, len(tgtAlleles))
	cache := make([]int, tgtMk.NAlleles())
	for a := range cache {
		cache[a] = -1
	}
	for i, ta := range tgtAlleles {
		if cache[ta] == -1 {
			if idx, ok := lookup[tgtMk.Allele(ta)]; ok {
				cache[ta] = idx
			} else {
				cache[ta] = 0
			}
		}
		out[i] = cache[ta]
	}
	return out
}

// emission implements window.Emission for one combined reference/target
// marker record.
type emission struct {
	marker        marker.Marker
	refAlleles    []int
	refFilter     hapFilter
	isTarget      bool
	targetAlleles []int
	tgtFilter     hapFilter
}

func (e *emission) Marker() marker.Marker  { return e.marker }
func (e *emission) IsTargetMarker() bool   { return e.isTarget }
func (e *emission) NRefHaps() int          { return e.refFilter.nHaps() }
func (e *emission) RefAllele(hap int) int  { return e.refFilter.allele(e.refAlleles, hap) }
func (e *emission) NTargetHaps() int       { return e.tgtFilter.nHaps() }
func (e *emission) TargetAllele(hap int) int {
	return e.tgtFilter.allele(e.targetAlleles, hap)
}
