package vcf

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/browning-lab/beagle-impute/utils/bgzf"
)

func TestWriteHeaderProducesExpectedLines(t *testing.T) {
	h := NewHeader([]string{"s0", "s1"})
	h.FileDate = "20260101"
	h.Source = "beagle-impute run=abc"
	h.Infos, h.Formats = StandardMeta(true)

	var buf bytes.Buffer
	if err := WriteHeader(&buf, h); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != FileFormatVersionLine {
		t.Fatalf("first line = %q, want %q", lines[0], FileFormatVersionLine)
	}
	if lines[1] != "##filedate=20260101" {
		t.Fatalf("filedate line = %q", lines[1])
	}
	if lines[2] != "##source=beagle-impute run=abc" {
		t.Fatalf("source line = %q", lines[2])
	}
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "#CHROM\t") || !strings.HasSuffix(last, "\ts0\ts1") {
		t.Fatalf("column header line = %q", last)
	}
}

func TestCreateVCFRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.vcf.gz")

	h := NewHeader([]string{"s0"})
	h.Infos, h.Formats = StandardMeta(false)

	w, err := CreateVCF(path, h, 0)
	if err != nil {
		t.Fatalf("CreateVCF: %v", err)
	}
	if err := w.WriteLine("1\t100\trs1\tA\tT\t.\tPASS\tAR2=0.50;DR2=0.50;AF=0.1\tGT\t0|1"); err != nil {
		t.Fatalf("WriteLine: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening written file: %v", err)
	}
	defer f.Close()
	br, err := bgzf.NewReader(bufio.NewReader(f), 0)
	if err != nil {
		t.Fatalf("bgzf.NewReader: %v", err)
	}
	contents, err := io.ReadAll(br)
	if err != nil {
		t.Fatalf("reading decompressed contents: %v", err)
	}
	if !strings.Contains(string(contents), FileFormatVersionLine) {
		t.Fatal("decompressed output missing fileformat header line")
	}
	if !strings.Contains(string(contents), "1\t100\trs1\tA\tT") {
		t.Fatal("decompressed output missing written data line")
	}
}

func TestSegmentWriterTruncatesOnFirstOpenThenAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ibd")

	if err := os.WriteFile(path, []byte("stale contents\n"), 0o644); err != nil {
		t.Fatalf("seeding stale file: %v", err)
	}

	sw := NewSegmentWriter(path)
	if err := sw.WriteLine("line1"); err != nil {
		t.Fatalf("WriteLine: %v", err)
	}
	if err := sw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if string(contents) != "line1\n" {
		t.Fatalf("contents after first write = %q, want %q (stale contents should be truncated)", contents, "line1\n")
	}

	if err := sw.WriteLine("line2"); err != nil {
		t.Fatalf("WriteLine 2: %v", err)
	}
	if err := sw.Flush(); err != nil {
		t.Fatalf("Flush 2: %v", err)
	}

	contents, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if string(contents) != "line1\nline2\n" {
		t.Fatalf("contents after second write = %q, want %q (should append)", contents, "line1\nline2\n")
	}
}
