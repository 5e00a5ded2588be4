package vcf

import "github.com/browning-lab/beagle-impute/utils"

// FileFormatVersionLine is the fixed ##fileformat meta-line this module
// writes and expects on read.
const FileFormatVersionLine = "##fileformat=VCFv4.2"

// DefaultHeaderColumns are the nine fixed columns preceding the per-sample
// columns of a VCF data line.
var DefaultHeaderColumns = []string{"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT"}

// Symbols for the FORMAT/INFO keys this module reads or writes, interned so
// that Genotype.Data and Variant.Info lookups are pointer comparisons.
var (
	GT  = utils.Intern("GT")
	DS  = utils.Intern("DS")
	GP  = utils.Intern("GP")
	AF  = utils.Intern("AF")
	AR2 = utils.Intern("AR2")
	DR2 = utils.Intern("DR2")
)

type (
	// MetaInformation is one ##INFO or ##FORMAT header meta-line.
	MetaInformation struct {
		ID          string
		Number      string
		Type        string
		Description string
	}

	// Header is the meta-line and column-header section of a VCF file.
	Header struct {
		FileDate  string
		Source    string
		Infos     []MetaInformation
		Formats   []MetaInformation
		Columns   []string
		SampleIDs []string
	}

	// Genotype is one sample's FORMAT-field values at one variant.
	Genotype struct {
		// Phased reports whether GT should be joined with "|" rather
		// than "/": true for calls reduced from phased allele
		// probabilities, false for calls reduced from unordered
		// genotype probabilities.
		Phased bool
		// GT holds the two allele indices; -1 marks a missing call.
		GT [2]int
		// Data carries whichever of DS/GP this run emits, keyed by the
		// interned symbols above.
		Data utils.SmallMap
	}

	// Variant is one data line of a VCF file: the fixed fields plus INFO
	// and one Genotype per sample.
	Variant struct {
		Chrom        string
		Pos          int
		ID           string
		Ref          string
		Alt          []string
		Info         utils.SmallMap
		GenotypeData []Genotype
	}
)

// NewHeader creates a Header with the fixed nine-column prefix and the
// given sample IDs appended as the per-sample FORMAT columns.
func NewHeader(sampleIDs []string) *Header {
	return &Header{
		Columns:   append(append([]string(nil), DefaultHeaderColumns...), sampleIDs...),
		SampleIDs: append([]string(nil), sampleIDs...),
	}
}

// NAlleles returns 1 + len(Alt), the number of alleles including REF.
func (v Variant) NAlleles() int { return 1 + len(v.Alt) }
