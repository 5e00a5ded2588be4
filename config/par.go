// Package config defines the analysis parameters controlling one
// imputation run and the flag.FlagSet-based command line that populates
// them.
package config

import (
	"flag"
	"fmt"
	"strings"
)

// Par holds the analysis parameters for one imputation run. A Par is
// built once from the command line and treated as immutable afterward.
type Par struct {
	ref    string
	gt     string
	gmap   string
	out    string
	chrom  string
	logDir string

	cluster float64
	err     float64
	ne      float64
	overlap int
	window  float64

	nthreads int
	lowMem   bool
	gprobs   bool
	impute   bool

	excludeSamples []string
	excludeFromRef []string
}

// defaults mirror the enumerated defaults in the external-interface
// contract: a small cluster distance, a low per-marker error rate, and a
// human-sized effective population.
const (
	defaultCluster = 0.005
	defaultErr     = 1e-4
	defaultNe      = 1_000_000.0
	defaultOverlap = 0 // in markers; 0 means consecutive windows do not overlap
	defaultWindow  = 50.0
)

// ParseArgs parses args (typically os.Args[1:]) into a Par, returning a
// configuration error if a required parameter is missing or a value is
// out of range.
func ParseArgs(args []string) (*Par, error) {
	p := &Par{}
	var excludeSamples, excludeFromRef string

	flags := flag.NewFlagSet("beagle-impute", flag.ContinueOnError)
	flags.StringVar(&p.ref, "ref", "", "reference panel VCF file (required)")
	flags.StringVar(&p.gt, "gt", "", "target genotype VCF file (required)")
	flags.StringVar(&p.gmap, "map", "", "PLINK-format genetic map file")
	flags.StringVar(&p.out, "out", "", "output file prefix (required)")
	flags.StringVar(&p.chrom, "chrom", "", "restrict analysis to the given chromosome or region")
	flags.StringVar(&p.logDir, "log", "", "directory to duplicate stderr into a timestamped log file (disabled if empty)")
	flags.Float64Var(&p.cluster, "cluster", defaultCluster, "maximum cM distance between markers sharing a cluster")
	flags.Float64Var(&p.err, "err", defaultErr, "per-marker allele error rate")
	flags.Float64Var(&p.ne, "ne", defaultNe, "effective population size")
	flags.IntVar(&p.overlap, "overlap", defaultOverlap, "number of markers of overlap between consecutive windows")
	flags.Float64Var(&p.window, "window", defaultWindow, "window size in cM")
	flags.IntVar(&p.nthreads, "nthreads", 1, "number of threads to use")
	flags.BoolVar(&p.lowMem, "lowmem", false, "use the checkpointed, memory-reduced forward buffer")
	flags.BoolVar(&p.gprobs, "gprobs", false, "emit the GP genotype-probability field")
	flags.BoolVar(&p.impute, "impute", true, "impute ungenotyped markers")
	flags.StringVar(&excludeSamples, "excludesamples", "", "comma-separated list of target sample IDs to exclude")
	flags.StringVar(&excludeFromRef, "excludefromref", "", "comma-separated list of reference sample IDs to exclude")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	p.excludeSamples = splitNonEmpty(excludeSamples)
	p.excludeFromRef = splitNonEmpty(excludeFromRef)

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (p *Par) validate() error {
	if p.ref == "" {
		return fmt.Errorf("config: missing required parameter -ref")
	}
	if p.gt == "" {
		return fmt.Errorf("config: missing required parameter -gt")
	}
	if p.out == "" {
		return fmt.Errorf("config: missing required parameter -out")
	}
	if p.cluster < 0 {
		return fmt.Errorf("config: cluster must be >= 0, got %g", p.cluster)
	}
	if p.err < 0 || p.err > 0.5 {
		return fmt.Errorf("config: err must be in [0, 0.5], got %g", p.err)
	}
	if p.ne <= 0 {
		return fmt.Errorf("config: ne must be > 0, got %g", p.ne)
	}
	if p.overlap < 0 {
		return fmt.Errorf("config: overlap must be >= 0, got %d", p.overlap)
	}
	if p.window <= float64(p.overlap) {
		return fmt.Errorf("config: window (%g) must exceed overlap (%d)", p.window, p.overlap)
	}
	if p.nthreads <= 0 {
		return fmt.Errorf("config: nthreads must be > 0, got %d", p.nthreads)
	}
	return nil
}

func (p *Par) Ref() string   { return p.ref }
func (p *Par) Gt() string    { return p.gt }
func (p *Par) Gmap() string  { return p.gmap }
func (p *Par) Out() string   { return p.out }
func (p *Par) Chrom() string  { return p.chrom }
func (p *Par) LogDir() string { return p.logDir }

func (p *Par) Cluster() float64 { return p.cluster }
func (p *Par) Err() float64     { return p.err }
func (p *Par) Ne() float64      { return p.ne }
func (p *Par) Overlap() int     { return p.overlap }
func (p *Par) Window() float64  { return p.window }

func (p *Par) NThreads() int { return p.nthreads }
func (p *Par) LowMem() bool  { return p.lowMem }
func (p *Par) Gprobs() bool  { return p.gprobs }
func (p *Par) Impute() bool  { return p.impute }

func (p *Par) ExcludeSamples() []string { return append([]string(nil), p.excludeSamples...) }
func (p *Par) ExcludeFromRef() []string { return append([]string(nil), p.excludeFromRef...) }
