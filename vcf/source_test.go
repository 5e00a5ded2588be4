package vcf

import "testing"

const refVCF = "##fileformat=VCFv4.2\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tr0\tr1\n" +
	"1\t100\t.\tA\tT\t.\tPASS\t.\tGT\t0|1\t1|0\n" +
	"1\t200\t.\tA\tC\t.\tPASS\t.\tGT\t0|0\t1|1\n" +
	"1\t300\t.\tA\tT\t.\tPASS\t.\tGT\t0|1\t0|1\n"

const targetVCF = "##fileformat=VCFv4.2\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tt0\n" +
	"1\t150\t.\tA\tT\t.\tPASS\t.\tGT\t0|1\n" + // absent from ref: silently consumed, doesn't extend stream
	"1\t200\t.\tA\tC\t.\tPASS\t.\tGT\t1|0\n" +
	"1\t500\t.\tA\tT\t.\tPASS\t.\tGT\t0|0\n" // absent from ref (never reached): dropped too

func TestSourceMergesRefAndTargetByPosition(t *testing.T) {
	refPath := writeTempVCF(t, refVCF)
	tgtPath := writeTempVCF(t, targetVCF)
	chroms := NewChromTable()

	src, err := OpenSource(refPath, tgtPath, "", nil, nil, chroms, 0)
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	defer src.Close()

	if src.RefSamples().NSamples() != 2 {
		t.Fatalf("RefSamples().NSamples() = %d, want 2", src.RefSamples().NSamples())
	}
	if src.TargetSamples().NSamples() != 1 {
		t.Fatalf("TargetSamples().NSamples() = %d, want 1", src.TargetSamples().NSamples())
	}

	e1, err := src.Next()
	if err != nil {
		t.Fatalf("Next() 1: %v", err)
	}
	if e1.Marker().Pos() != 100 {
		t.Fatalf("e1 Pos = %d, want 100 (target-only marker at 150 must not extend the stream)", e1.Marker().Pos())
	}
	if e1.IsTargetMarker() {
		t.Fatal("e1 should not be a target marker (no target record at pos 100)")
	}

	e2, err := src.Next()
	if err != nil {
		t.Fatalf("Next() 2: %v", err)
	}
	if e2.Marker().Pos() != 200 {
		t.Fatalf("e2 Pos = %d, want 200", e2.Marker().Pos())
	}
	if !e2.IsTargetMarker() {
		t.Fatal("e2 at pos 200 should be a target marker")
	}
	if got := e2.TargetAllele(0); got != 1 {
		t.Fatalf("e2 TargetAllele(0) = %d, want 1 (target GT 1|0, translated into ref allele space)", got)
	}
	if got := e2.TargetAllele(1); got != 0 {
		t.Fatalf("e2 TargetAllele(1) = %d, want 0", got)
	}

	e3, err := src.Next()
	if err != nil {
		t.Fatalf("Next() 3: %v", err)
	}
	if e3.Marker().Pos() != 300 {
		t.Fatalf("e3 Pos = %d, want 300", e3.Marker().Pos())
	}
	if e3.IsTargetMarker() {
		t.Fatal("e3 at pos 300 should not be a target marker")
	}

	if src.HasNext() {
		t.Fatal("HasNext() true after exhausting reference panel")
	}
}

func TestSourceExcludesSamples(t *testing.T) {
	refPath := writeTempVCF(t, refVCF)
	tgtPath := writeTempVCF(t, targetVCF)
	chroms := NewChromTable()

	src, err := OpenSource(refPath, tgtPath, "", []string{"r1"}, nil, chroms, 0)
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	defer src.Close()

	if src.RefSamples().NSamples() != 1 {
		t.Fatalf("RefSamples().NSamples() = %d, want 1", src.RefSamples().NSamples())
	}

	e, err := src.Next()
	if err != nil {
		t.Fatalf("Next(): %v", err)
	}
	if e.NRefHaps() != 2 {
		t.Fatalf("NRefHaps() = %d, want 2 (one sample excluded)", e.NRefHaps())
	}
}
