package marker

// Samples is an ordered sequence of unique sample identifiers.
type Samples struct {
	ids []string
}

// NewSamples constructs a Samples sequence from the given identifiers.
func NewSamples(ids []string) Samples {
	cp := make([]string, len(ids))
	copy(cp, ids)
	return Samples{ids: cp}
}

// NSamples returns the number of samples.
func (s Samples) NSamples() int { return len(s.ids) }

// ID returns the identifier of the sample at the given index.
func (s Samples) ID(index int) string { return s.ids[index] }

// Ids returns the full list of sample identifiers, in order.
func (s Samples) Ids() []string {
	cp := make([]string, len(s.ids))
	copy(cp, s.ids)
	return cp
}

// Equals reports whether two Samples sequences have identical identifiers,
// in the same order.
func (s Samples) Equals(other Samples) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for i, id := range s.ids {
		if id != other.ids[i] {
			return false
		}
	}
	return true
}
