package vcf

import "testing"

func TestNewHapFilterDropsExcludedSamplesAndRemapsHaps(t *testing.T) {
	f := newHapFilter([]string{"s0", "s1", "s2"}, []string{"s1"})

	if f.samples.NSamples() != 2 {
		t.Fatalf("NSamples() = %d, want 2", f.samples.NSamples())
	}
	if f.samples.ID(0) != "s0" || f.samples.ID(1) != "s2" {
		t.Fatalf("kept sample IDs = [%s %s], want [s0 s2]", f.samples.ID(0), f.samples.ID(1))
	}
	if f.nHaps() != 4 {
		t.Fatalf("nHaps() = %d, want 4", f.nHaps())
	}

	alleles := []int{10, 11, 20, 21, 30, 31} // s0's haps, s1's haps, s2's haps
	if got := f.allele(alleles, 0); got != 10 {
		t.Fatalf("allele(0) = %d, want 10 (s0 hap0)", got)
	}
	if got := f.allele(alleles, 2); got != 30 {
		t.Fatalf("allele(2) = %d, want 30 (s2 hap0, after s1 dropped)", got)
	}
	if got := f.allele(alleles, 3); got != 31 {
		t.Fatalf("allele(3) = %d, want 31 (s2 hap1)", got)
	}
}

func TestNewHapFilterNoExclusionsKeepsAll(t *testing.T) {
	f := newHapFilter([]string{"a", "b"}, nil)
	if f.nHaps() != 4 {
		t.Fatalf("nHaps() = %d, want 4", f.nHaps())
	}
}
