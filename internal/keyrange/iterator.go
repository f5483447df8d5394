package keyrange

// Iterator is a forward-only, finite sequence of ranges. Once Next returns
// false the caller checks Err to tell exhaustion from failure.
type Iterator interface {
	Next() (KeyRange, bool)
	Err() error
}

type sliceIterator struct {
	ranges []KeyRange
	pos    int
}

// SliceIterator iterates over a fixed set of ranges.
func SliceIterator(ranges ...KeyRange) Iterator {
	return &sliceIterator{ranges: ranges}
}

func (it *sliceIterator) Next() (KeyRange, bool) {
	if it.pos >= len(it.ranges) {
		return KeyRange{}, false
	}
	kr := it.ranges[it.pos]
	it.pos++
	return kr, true
}

func (it *sliceIterator) Err() error {
	return nil
}

// Collect drains it into a slice.
func Collect(it Iterator) ([]KeyRange, error) {
	var out []KeyRange
	for {
		kr, ok := it.Next()
		if !ok {
			return out, it.Err()
		}
		out = append(out, kr)
	}
}
