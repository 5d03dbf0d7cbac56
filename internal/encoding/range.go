package encoding

// BoundKind tags one end of a Range.
type BoundKind uint8

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

// Bound is one endpoint of a Range: Unbounded, Included(key), or
// Excluded(key).
type Bound struct {
	Kind BoundKind
	Key  Key
}

func UnboundedBound() Bound           { return Bound{Kind: Unbounded} }
func IncludedBound(k Key) Bound       { return Bound{Kind: Included, Key: k} }
func ExcludedBound(k Key) Bound       { return Bound{Kind: Excluded, Key: k} }

// Range is a start/end bound pair over the Key order. The all-keys range has
// both bounds Unbounded.
type Range struct {
	Start Bound
	End   Bound
}

// All returns the range containing every key.
func All() Range {
	return Range{Start: UnboundedBound(), End: UnboundedBound()}
}

// NewRange builds a range from explicit bounds.
func NewRange(start, end Bound) Range {
	return Range{Start: start, End: end}
}

// Prefix returns Included(prefix)..Excluded(next(prefix)), where next(prefix)
// increments the last non-0xFF byte and truncates the remainder; if every
// byte is 0xFF the end is Unbounded. Of the two ways to handle an
// all-0xFF prefix, this picks Unbounded exclusively rather than growing
// the key length.
func Prefix(prefix []byte) Range {
	start := IncludedBound(NewKey(append([]byte(nil), prefix...)))

	idx := -1
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] != 0xff {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Range{Start: start, End: UnboundedBound()}
	}

	end := make([]byte, idx+1)
	copy(end, prefix[:idx])
	end[idx] = prefix[idx] + 1
	return Range{Start: start, End: ExcludedBound(NewKey(end))}
}

// Contains reports whether k falls within the range.
func (r Range) Contains(k Key) bool {
	switch r.Start.Kind {
	case Included:
		if k.Compare(r.Start.Key) < 0 {
			return false
		}
	case Excluded:
		if k.Compare(r.Start.Key) <= 0 {
			return false
		}
	}
	switch r.End.Kind {
	case Included:
		if k.Compare(r.End.Key) > 0 {
			return false
		}
	case Excluded:
		if k.Compare(r.End.Key) >= 0 {
			return false
		}
	}
	return true
}

// CompareStart orders two start bounds: Unbounded < anything; at equal keys
// Included < Excluded.
func CompareStart(a, b Bound) int {
	if a.Kind == Unbounded && b.Kind == Unbounded {
		return 0
	}
	if a.Kind == Unbounded {
		return -1
	}
	if b.Kind == Unbounded {
		return 1
	}
	c := a.Key.Compare(b.Key)
	if c != 0 {
		return c
	}
	if a.Kind == b.Kind {
		return 0
	}
	if a.Kind == Included {
		return -1
	}
	return 1
}

// CompareEnd orders two end bounds: Unbounded > anything; at equal keys
// Included > Excluded.
func CompareEnd(a, b Bound) int {
	if a.Kind == Unbounded && b.Kind == Unbounded {
		return 0
	}
	if a.Kind == Unbounded {
		return 1
	}
	if b.Kind == Unbounded {
		return -1
	}
	c := a.Key.Compare(b.Key)
	if c != 0 {
		return c
	}
	if a.Kind == b.Kind {
		return 0
	}
	if a.Kind == Included {
		return 1
	}
	return -1
}

// WithExcludedStart returns a copy of r with the start bound set to
// Excluded(k), used by range-scan cursors to continue after the last key
// seen.
func (r Range) WithExcludedStart(k Key) Range {
	return Range{Start: ExcludedBound(k), End: r.End}
}

// WithExcludedEnd returns a copy of r with the end bound set to
// Excluded(k), used by reverse range-scan cursors.
func (r Range) WithExcludedEnd(k Key) Range {
	return Range{Start: r.Start, End: ExcludedBound(k)}
}
