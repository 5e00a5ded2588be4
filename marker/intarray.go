package marker

// An IntArray stores a sequence of small non-negative integers using the
// narrowest representation that fits every value, the way a compact
// per-marker allele-code or per-cluster sequence-code row is stored
// throughout this package. Values are fixed at construction time.
type IntArray interface {
	// Get returns the value at the given index.
	Get(index int) int
	// Size returns the number of stored values.
	Size() int
}

type nibbleIntArray struct {
	data nibbles
}

func (a nibbleIntArray) Get(index int) int { return int(a.data.Get(index)) }
func (a nibbleIntArray) Size() int         { return a.data.Len() }

type byteIntArray []byte

func (a byteIntArray) Get(index int) int { return int(a[index]) }
func (a byteIntArray) Size() int         { return len(a) }

type wideIntArray []int

func (a wideIntArray) Get(index int) int { return a[index] }
func (a wideIntArray) Size() int         { return len(a) }

// NewIntArray returns the narrowest IntArray representation that can hold
// every value in values: a nibble-packed array if all values are < 16, a
// byte array if all values are < 256, and a plain int slice otherwise.
func NewIntArray(values []int) IntArray {
	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	switch {
	case max < 16:
		nb := makeNibbles(len(values))
		for i, v := range values {
			nb.Set(i, uint8(v))
		}
		return nibbleIntArray{data: nb}
	case max < 256:
		b := make(byteIntArray, len(values))
		for i, v := range values {
			b[i] = byte(v)
		}
		return b
	default:
		w := make(wideIntArray, len(values))
		copy(w, values)
		return w
	}
}
