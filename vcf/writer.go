package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/browning-lab/beagle-impute/utils/bgzf"
)

// StandardMeta returns the ##INFO and ##FORMAT meta-line descriptions this
// module's output always or conditionally carries: AF/AR2/DR2 are always
// present; GP is added only when gprobs output is enabled.
func StandardMeta(withGP bool) (infos, formats []MetaInformation) {
	infos = []MetaInformation{
		{ID: "AF", Number: "A", Type: "Float", Description: "Estimated ALT Allele Frequencies"},
		{ID: "AR2", Number: "1", Type: "Float", Description: "Allelic R-Squared: estimated squared correlation between most probable REF dose and true REF dose"},
		{ID: "DR2", Number: "1", Type: "Float", Description: "Dose R-Squared: estimated squared correlation between estimated REF dose and true REF dose"},
	}
	formats = []MetaInformation{
		{ID: "GT", Number: "1", Type: "String", Description: "Genotype"},
		{ID: "DS", Number: "A", Type: "Float", Description: "Estimated ALT dose"},
	}
	if withGP {
		formats = append(formats, MetaInformation{ID: "GP", Number: "G", Type: "Float", Description: "Estimated Genotype Probability"})
	}
	return infos, formats
}

// WriteHeader writes h's meta-lines and column-header line to w.
func WriteHeader(w io.Writer, h *Header) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, FileFormatVersionLine); err != nil {
		return err
	}
	if h.FileDate != "" {
		if _, err := fmt.Fprintf(bw, "##filedate=%s\n", h.FileDate); err != nil {
			return err
		}
	}
	if h.Source != "" {
		if _, err := fmt.Fprintf(bw, "##source=%s\n", h.Source); err != nil {
			return err
		}
	}
	for _, info := range h.Infos {
		if _, err := fmt.Fprintf(bw, "##INFO=<ID=%s,Number=%s,Type=%s,Description=\"%s\">\n",
			info.ID, info.Number, info.Type, info.Description); err != nil {
			return err
		}
	}
	for _, format := range h.Formats {
		if _, err := fmt.Fprintf(bw, "##FORMAT=<ID=%s,Number=%s,Type=%s,Description=\"%s\">\n",
			format.ID, format.Number, format.Type, format.Description); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(bw, "#"+joinTab(h.Columns)); err != nil {
		return err
	}
	return bw.Flush()
}

func joinTab(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += "\t" + c
	}
	return out
}

// VCFWriter writes a block-gzipped VCF output file.
type VCFWriter struct {
	file *os.File
	bgzf *bgzf.Writer
	buf  *bufio.Writer
}

// CreateVCF creates path, writes header, and returns a VCFWriter ready to
// receive data lines via WriteLine. nThreads bounds the BGZF compression
// pipeline's parallelism.
func CreateVCF(path string, header *Header, nThreads int) (*VCFWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("vcf: creating %s: %w", path, err)
	}
	bz := bgzf.NewWriter(f, -1, nThreads)
	w := &VCFWriter{file: f, bgzf: bz, buf: bufio.NewWriter(bz)}
	if err := WriteHeader(w.buf, header); err != nil {
		w.Close()
		return nil, fmt.Errorf("vcf: writing header to %s: %w", path, err)
	}
	return w, nil
}

// WriteLine writes one already-formatted data line (as produced by
// RenderVariant), terminated with a newline.
func (w *VCFWriter) WriteLine(line string) error {
	if _, err := w.buf.WriteString(line); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

// Close flushes buffered output and closes the BGZF stream and file.
func (w *VCFWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if err := w.bgzf.Close(); err != nil {
		return err
	}
	return w.file.Close()
}

// SegmentWriter writes a plain-text IBD or HBD segment file. The file is
// opened by the first WriteLine call, which truncates any existing file;
// after each Flush, the next WriteLine reopens it in append mode, matching the teacher's splice-across-windows output
// contract.
type SegmentWriter struct {
	file   *os.File
	buf    *bufio.Writer
	path   string
	opened bool
}

// NewSegmentWriter returns a SegmentWriter for path that has not yet
// opened its file.
func NewSegmentWriter(path string) *SegmentWriter {
	return &SegmentWriter{path: path}
}

func (s *SegmentWriter) ensureOpen() error {
	if s.file != nil {
		return nil
	}
	flags := os.O_WRONLY | os.O_CREATE
	if s.opened {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(s.path, flags, 0644)
	if err != nil {
		return fmt.Errorf("vcf: opening %s: %w", s.path, err)
	}
	s.file = f
	s.buf = bufio.NewWriter(f)
	s.opened = true
	return nil
}

// WriteLine appends one tab-separated segment record.
func (s *SegmentWriter) WriteLine(line string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if _, err := s.buf.WriteString(line); err != nil {
		return err
	}
	return s.buf.WriteByte('\n')
}

// Flush flushes and closes the underlying file handle, so the next
// WriteLine call reopens it in append mode. The driver calls this once
// per window so a segment file is never left with buffered, unflushed
// records if the process exits between windows.
func (s *SegmentWriter) Flush() error {
	if s.file == nil {
		return nil
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	err := s.file.Close()
	s.file = nil
	s.buf = nil
	return err
}
