package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/browning-lab/beagle-impute/marker"
	"github.com/browning-lab/beagle-impute/utils/bgzf"
)

// Record is one parsed VCF data line: its marker definition and one pair
// of allele indices per sample, in column order.
type Record struct {
	Marker  marker.Marker
	Alleles []int // len == 2*nSamples
}

// Reader streams Records from one VCF (optionally BGZF-compressed) file in
// file order: a bufio.Scanner yields the lines, and each data line's
// fields are tokenized with a StringScanner.
type Reader struct {
	file    *os.File
	closer  io.Closer
	scanner *bufio.Scanner
	chroms  *ChromTable
	restrict string

	samples []string
	eof     bool
}

// OpenReader opens path (plain or BGZF-compressed VCF) and parses its
// header. chroms assigns chromosome names to stable indices shared across
// every file opened against it; restrict, if non-empty, causes Next to
// skip every record whose CHROM does not equal it. nThreads bounds the
// BGZF decompression pipeline's parallelism when the input is
// BGZF-compressed; it is ignored otherwise.
func OpenReader(path string, chroms *ChromTable, restrict string, nThreads int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vcf: opening %s: %w", path, err)
	}

	buffered := bufio.NewReader(f)
	isGzip, err := bgzf.IsGzip(buffered)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, fmt.Errorf("vcf: probing %s: %w", path, err)
	}

	var body io.Reader = buffered
	var closer io.Closer = f
	if isGzip {
		bz, err := bgzf.NewReader(buffered, nThreads)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("vcf: opening BGZF stream %s: %w", path, err)
		}
		body = bz
		closer = multiCloser{bz, f}
	}

	r := &Reader{
		file:     f,
		closer:   closer,
		scanner:  bufio.NewScanner(body),
		chroms:   chroms,
		restrict: restrict,
	}
	r.scanner.Buffer(make([]byte, 0, 1<<20), 1<<28)

	if err := r.readHeader(); err != nil {
		closer.Close()
		return nil, err
	}
	return r, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (r *Reader) readHeader() error {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if strings.HasPrefix(line, "##") {
			continue
		}
		if strings.HasPrefix(line, "#CHROM") {
			cols := strings.Split(line, "\t")
			if len(cols) > len(DefaultHeaderColumns) {
				r.samples = cols[len(DefaultHeaderColumns):]
			}
			return nil
		}
		return fmt.Errorf("vcf: expected #CHROM header line, got %q", line)
	}
	if err := r.scanner.Err(); err != nil {
		return fmt.Errorf("vcf: reading header: %w", err)
	}
	return fmt.Errorf("vcf: file has no #CHROM header line")
}

// SampleIDs returns the sample identifiers in column order.
func (r *Reader) SampleIDs() []string {
	return append([]string(nil), r.samples...)
}

// Close releases the underlying file (and decompressor, if any).
func (r *Reader) Close() error {
	return r.closer.Close()
}

// Next returns the next record in the file, or io.EOF once exhausted.
// Records whose chromosome does not match the reader's restriction, if
// any, are skipped transparently.
func (r *Reader) Next() (Record, error) {
	for {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return Record{}, fmt.Errorf("vcf: reading record: %w", err)
			}
			return Record{}, io.EOF
		}
		line := r.scanner.Text()
		if line == "" {
			continue
		}
		rec, chrom, err := r.parseLine(line)
		if err != nil {
			return Record{}, err
		}
		if r.restrict != "" && chrom != r.restrict {
			continue
		}
		return rec, nil
	}
}

func (r *Reader) parseLine(line string) (rec Record, chrom string, err error) {
	var sc StringScanner
	sc.Reset(line)

	chrom, _ = sc.readUntilByte('\t')
	posStr, _ := sc.readUntilByte('\t')
	_, _ = sc.readUntilByte('\t') // ID
	ref, _ := sc.readUntilByte('\t')
	altField, _ := sc.readUntilByte('\t')
	_, _ = sc.readUntilByte('\t') // QUAL
	_, _ = sc.readUntilByte('\t') // FILTER
	_, _ = sc.readUntilByte('\t') // INFO
	formatField, _ := sc.readUntilByte('\t')

	pos, err := strconv.Atoi(posStr)
	if err != nil {
		return Record{}, "", fmt.Errorf("vcf: invalid POS %q: %w", posStr, err)
	}

	alleles := []string{ref}
	if altField != "." {
		alleles = append(alleles, strings.Split(altField, ",")...)
	} else {
		alleles = append(alleles, ".")
	}

	gtIndex := 0
	for i, key := range strings.Split(formatField, ":") {
		if key == "GT" {
			gtIndex = i
			break
		}
	}

	chromIndex := r.chroms.Index(chrom)
	mk := marker.NewMarker(chromIndex, pos, alleles)

	alleleCalls := make([]int, 2*len(r.samples))
	for s := 0; s < len(r.samples); s++ {
		field, ok := sc.readUntilByte('\t')
		if !ok && s < len(r.samples)-1 {
			return Record{}, "", fmt.Errorf("vcf: record at %s:%d has too few sample columns", chrom, pos)
		}
		gt := field
		if gtIndex > 0 {
			parts := strings.SplitN(field, ":", gtIndex+1)
			if gtIndex < len(parts) {
				gt = parts[gtIndex]
			}
		} else if i := strings.IndexByte(field, ':'); i >= 0 {
			gt = field[:i]
		}
		a1, a2 := parseGT(gt)
		alleleCalls[2*s] = a1
		alleleCalls[2*s+1] = a2
	}

	return Record{Marker: mk, Alleles: alleleCalls}, chrom, nil
}

// parseGT splits a GT subfield like "0|1", "1/0" or "." into its two
// allele indices. A missing call is returned as allele 0 (REF), since
// every haplotype this engine operates on is assumed to carry a call.
func parseGT(gt string) (a1, a2 int) {
	sep := strings.IndexAny(gt, "|/")
	if sep < 0 {
		a1 = atoiOrZero(gt)
		return a1, a1
	}
	a1 = atoiOrZero(gt[:sep])
	a2 = atoiOrZero(gt[sep+1:])
	return a1, a2
}

func atoiOrZero(s string) int {
	if s == "." || s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
