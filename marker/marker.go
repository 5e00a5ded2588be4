// Package marker defines the immutable genomic marker, sample, and
// phased-haplotype data model shared by every downstream stage of the
// imputation engine.
package marker

import "fmt"

// A Marker is an immutable description of a genomic site: its chromosome,
// its one-based position on that chromosome, and its list of alleles, the
// first of which is the reference allele.
type Marker struct {
	chromIndex int
	pos        int
	alleles    []string
}

// NewMarker constructs a Marker. It panics if fewer than two alleles are
// given, matching the invariant that every marker has at least REF and ALT.
func NewMarker(chromIndex, pos int, alleles []string) Marker {
	if len(alleles) < 2 {
		panic(fmt.Sprintf("marker at %d:%d has fewer than 2 alleles", chromIndex, pos))
	}
	cp := make([]string, len(alleles))
	copy(cp, alleles)
	return Marker{chromIndex: chromIndex, pos: pos, alleles: cp}
}

// ChromIndex returns the chromosome index, stable for the duration of a run.
func (m Marker) ChromIndex() int { return m.chromIndex }

// Pos returns the one-based position on the chromosome.
func (m Marker) Pos() int { return m.pos }

// Allele returns the allele string at the given allele index; index 0 is
// always the reference allele.
func (m Marker) Allele(index int) string { return m.alleles[index] }

// NAlleles returns the number of distinct alleles at this marker (>= 2).
func (m Marker) NAlleles() int { return len(m.alleles) }

// NGenotypes returns nAlleles*(nAlleles+1)/2, the number of unordered
// diploid genotypes, ordered a2 >= a1 outer / a1 <= a2 inner.
func (m Marker) NGenotypes() int {
	n := m.NAlleles()
	return n * (n + 1) / 2
}

// Equals reports whether two markers have identical chromosome, position,
// and allele list.
func (m Marker) Equals(other Marker) bool {
	if m.chromIndex != other.chromIndex || m.pos != other.pos {
		return false
	}
	if len(m.alleles) != len(other.alleles) {
		return false
	}
	for i, a := range m.alleles {
		if a != other.alleles[i] {
			return false
		}
	}
	return true
}

func (m Marker) String() string {
	return fmt.Sprintf("%d:%d:%v", m.chromIndex, m.pos, m.alleles)
}
