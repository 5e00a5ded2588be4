package utils

const (
	// ProgramName identifies this tool in VCF meta-lines and log output.
	ProgramName = "beagle-impute"

	// ProgramVersion is the version of the beagle-impute binary.
	ProgramVersion = "1.0.0"

	// ProgramURL is the repository for the beagle-impute source code.
	ProgramURL = "http://github.com/browning-lab/beagle-impute"
)
