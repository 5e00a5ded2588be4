// Package haplotype builds the reference-segment data structures consumed
// by the Li-Stephens engine: haplotype sequence coding over a marker
// range, and the per-segment distinct-sequence vocabulary and allele
// matrix built from it.
package haplotype

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/browning-lab/beagle-impute/marker"
)

// Code assigns each reference haplotype in refHaps and each target
// haplotype in targetHaps an integer code in [0, nSeq) over the marker
// range [start, end), such that two haplotypes receive the same code iff
// their allele sequences on the range are identical. refHaps and
// targetHaps must be indexed over the same marker range so that
// corresponding positions i in [start, end) describe the same marker for
// both panels. Reference and target codes are drawn from one shared
// vocabulary; a target haplotype whose sequence matches no reference
// haplotype receives a fresh code.
func Code(refHaps, targetHaps marker.SampleHapPairs, start, end int) (refCodes, targetCodes []int, nSeq int) {
	n := end - start
	bitsPerMarker := make([]int, n)
	offsets := make([]int, n+1)
	for i := 0; i < n; i++ {
		nAlleles := refHaps.Markers().Marker(start + i).NAlleles()
		bits := bitWidth(nAlleles - 1)
		bitsPerMarker[i] = bits
		offsets[i+1] = offsets[i] + bits
	}
	totalBits := offsets[n]

	seen := make(map[string]int)
	keyOf := func(allele func(marker, hap int) int, hap int) string {
		bs := bitset.New(uint(totalBits))
		for i := 0; i < n; i++ {
			a := allele(start+i, hap)
			off := offsets[i]
			for b := 0; b < bitsPerMarker[i]; b++ {
				if a&(1<<uint(b)) != 0 {
					bs.Set(uint(off + b))
				}
			}
		}
		return bs.DumpAsBits()
	}

	assign := func(hp marker.SampleHapPairs) []int {
		codes := make([]int, hp.NHaps())
		for h := 0; h < hp.NHaps(); h++ {
			k := keyOf(hp.Allele, h)
			code, ok := seen[k]
			if !ok {
				code = len(seen)
				seen[k] = code
			}
			codes[h] = code
		}
		return codes
	}

	refCodes = assign(refHaps)
	targetCodes = assign(targetHaps)
	nSeq = len(seen)
	return refCodes, targetCodes, nSeq
}

// bitWidth returns the number of bits needed to represent values in
// [0, maxValue] in binary, at least 1.
func bitWidth(maxValue int) int {
	if maxValue <= 0 {
		return 1
	}
	bits := 1
	for (1 << uint(bits)) <= maxValue {
		bits++
	}
	return bits
}
