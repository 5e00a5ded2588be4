// Package driver wires the window iterator, per-window imputation data,
// HMM fan-out, and output writers into the single-threaded pipeline that
// runs one imputation job end to end.
package driver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/browning-lab/beagle-impute/gprobs"
	"github.com/browning-lab/beagle-impute/hmm"
	"github.com/browning-lab/beagle-impute/ibd"
	"github.com/browning-lab/beagle-impute/utils"
	"github.com/browning-lab/beagle-impute/vcf"
	"github.com/browning-lab/beagle-impute/window"
)

// ErrWriterClosed is returned by every WindowWriter operation once Close
// has been called.
var ErrWriterClosed = errors.New("driver: writer is closed")

// WindowWriter is the per-run output state machine (§4.7): it owns the
// VCF output stream and the IBD/HBD segment files, and the splice-merge
// buffer that joins IBD/HBD segments crossing a window boundary into one
// record.
type WindowWriter struct {
	vcfOut *vcf.VCFWriter
	ibdOut *vcf.SegmentWriter
	hbdOut *vcf.SegmentWriter

	buffer *ibd.Buffer
	chroms *vcf.ChromTable

	withGP bool
	closed bool
}

// NewWindowWriter creates the VCF output file at outPrefix+".vcf.gz" (and,
// lazily, the outPrefix+".ibd"/outPrefix+".hbd" segment files on first
// use) and writes the VCF header. runID tags this run's provenance: it is
// folded into the VCF header's ##source= meta-line only, since the IBD
// and HBD segment files are tab-separated data files with a fixed
// eight-column-per-line contract and carry no header or comment line.
func NewWindowWriter(outPrefix string, sampleIDs []string, chroms *vcf.ChromTable, withGP bool, runID string, fileDate string, nThreads int) (*WindowWriter, error) {
	header := vcf.NewHeader(sampleIDs)
	header.Source = fmt.Sprintf("%s v%s run=%s", utils.ProgramName, utils.ProgramVersion, runID)
	header.FileDate = fileDate
	header.Infos, header.Formats = vcf.StandardMeta(withGP)

	vcfOut, err := vcf.CreateVCF(outPrefix+".vcf.gz", header, nThreads)
	if err != nil {
		return nil, err
	}

	ibdOut := vcf.NewSegmentWriter(outPrefix + ".ibd")
	hbdOut := vcf.NewSegmentWriter(outPrefix + ".hbd")

	return &WindowWriter{
		vcfOut: vcfOut,
		ibdOut: ibdOut,
		hbdOut: hbdOut,
		buffer: ibd.NewBuffer(),
		chroms: chroms,
		withGP: withGP,
	}, nil
}

func (w *WindowWriter) format() []string {
	if w.withGP {
		return []string{"GT", "DS", "GP"}
	}
	return []string{"GT", "DS"}
}

// PrintGV appends VCF records for the target markers in
// [cd.PrevTargetSplice(), cd.NextTargetSplice()), using genotypes already
// reduced from observed genotype-probability calls (unphased "/" GT
// separator). genotypes is indexed [target-marker offset][sample], over
// cd.TargetMarkers(); info supplies the per-marker AF/AR2/DR2 INFO field
// in the same indexing.
func (w *WindowWriter) PrintGV(cd window.CurrentData, genotypes [][]vcf.Genotype, info []gprobs.Stats) error {
	if w.closed {
		return ErrWriterClosed
	}
	markers := cd.TargetMarkers()
	format := []string{"GT", "DS", "GP"}
	for m := cd.PrevTargetSplice(); m < cd.NextTargetSplice(); m++ {
		mk := markers.Marker(m)
		line := vcf.RenderVariant(w.chroms.Name(mk.ChromIndex()), mk, ".", vcf.BuildInfo(info[m]), format, genotypes[m])
		if err := w.vcfOut.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// Print appends VCF records for the reference markers in
// [cd.PrevSplice(), cd.NextSplice()), reducing each sample's genotype from
// its two target haplotypes' phased allele-probability distributions
// (alProbs, ordered by target-haplotype index) and this marker's gprobs
// statistics for the INFO field.
func (w *WindowWriter) Print(cd window.CurrentData, alProbs []hmm.AlleleProbs, statsAt func(m int) (gprobs.Stats, bool)) error {
	if w.closed {
		return ErrWriterClosed
	}
	markers := cd.Markers()
	nSamples := len(alProbs) / 2
	format := w.format()

	genotypes := make([]vcf.Genotype, nSamples)
	for m := cd.PrevSplice(); m < cd.NextSplice(); m++ {
		stats, ok := statsAt(m)
		if !ok {
			continue
		}
		for j := 0; j < nSamples; j++ {
			genotypes[j] = vcf.GenotypeFromHapProbs(alProbs[2*j], alProbs[2*j+1], m, w.withGP)
		}
		mk := markers.Marker(m)
		line := vcf.RenderVariant(w.chroms.Name(mk.ChromIndex()), mk, ".", vcf.BuildInfo(stats), format, genotypes)
		if err := w.vcfOut.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// PrintIbd drains candidates (keyed by target haplotype pair) through the
// splice-merge buffer against cd's splice boundaries and writes every
// emitted segment to the IBD or HBD file, routed by whether its two
// haplotypes belong to the same sample.
func (w *WindowWriter) PrintIbd(cd window.CurrentData, candidates map[ibd.HapPair][]ibd.Segment) error {
	if w.closed {
		return ErrWriterClosed
	}
	emitted := w.buffer.Drain(candidates, cd.PrevTargetSplice(), cd.NextTargetOverlap(), cd.NextTargetSplice(), cd.NTargetMarkers())

	samples := cd.TargetSamples()
	for _, seg := range emitted {
		line := renderSegment(samples, w.chroms, seg)
		out := w.ibdOut
		if seg.SameSample() {
			out = w.hbdOut
		}
		if err := out.WriteLine(line); err != nil {
			return err
		}
	}
	if err := w.ibdOut.Flush(); err != nil {
		return err
	}
	return w.hbdOut.Flush()
}

func renderSegment(samples interface{ ID(int) string }, chroms *vcf.ChromTable, seg ibd.Segment) string {
	sample1 := samples.ID(seg.Pair.Hap1 / 2)
	sample2 := samples.ID(seg.Pair.Hap2 / 2)
	hap1 := seg.Pair.Hap1%2 + 1
	hap2 := seg.Pair.Hap2%2 + 1

	return strings.Join([]string{
		sample1,
		strconv.Itoa(hap1),
		sample2,
		strconv.Itoa(hap2),
		chroms.Name(seg.StartChrom),
		strconv.Itoa(seg.StartPos),
		strconv.Itoa(seg.EndPos),
		vcf.FormatTrimmed(seg.Score, 2),
	}, "\t")
}

// Close flushes and closes the VCF output file and, if opened, the
// IBD/HBD segment files.
func (w *WindowWriter) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true
	if err := w.vcfOut.Close(); err != nil {
		return fmt.Errorf("driver: closing VCF output: %w", err)
	}
	if err := w.ibdOut.Flush(); err != nil {
		return err
	}
	return w.hbdOut.Flush()
}
