package vcf

import "github.com/browning-lab/beagle-impute/marker"

// hapFilter drops excluded samples from a column-ordered allele stream,
// remapping the kept samples' two haplotypes each down to a dense index
// range starting at 0.
type hapFilter struct {
	samples marker.Samples
	keptHap []int // keptHap[newHap] = original column hap index
}

func newHapFilter(sampleIDs []string, exclude []string) hapFilter {
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	var keptIDs []string
	var keptHap []int
	for s, id := range sampleIDs {
		if excluded[id] {
			continue
		}
		keptIDs = append(keptIDs, id)
		keptHap = append(keptHap, 2*s, 2*s+1)
	}
	return hapFilter{samples: marker.NewSamples(keptIDs), keptHap: keptHap}
}

func (f hapFilter) nHaps() int { return len(f.keptHap) }

func (f hapFilter) allele(alleles []int, hap int) int {
	return alleles[f.keptHap[hap]]
}
