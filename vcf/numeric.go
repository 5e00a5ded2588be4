package vcf

import "strconv"

// FormatTrimmed renders f with up to digits fractional digits, trimming
// trailing zeros (and a trailing '.') the way Beagle's output renders most
// per-sample and per-allele numeric fields ("#.##" in spec terms).
func FormatTrimmed(f float64, digits int) string {
	s := strconv.FormatFloat(f, 'f', digits, 64)
	if digits <= 0 {
		return s
	}
	end := len(s)
	for end > 0 && s[end-1] == '0' {
		end--
	}
	if end > 0 && s[end-1] == '.' {
		end--
	}
	return s[:end]
}

// FormatFixed renders f with exactly digits fractional digits and no
// trimming, the way AR2/DR2 are always written as "0.00"-style values.
func FormatFixed(f float64, digits int) string {
	return strconv.FormatFloat(f, 'f', digits, 64)
}
