package transcode

// status is the outcome of scanning one unit from the current position.
type status uint8

const (
	// complete: src[:n] is a well-formed sequence.
	complete status = iota
	// rejected: src[:n] is an error group. src[n], if present, is not part
	// of it and must be classified again.
	rejected
	// truncated: src ends inside a legal prefix; src[:n] is all of src.
	// At end of input this is one error group, otherwise more input decides.
	truncated
)

// next scans the unit starting at src[0]. src must not be empty.
//
// A lead byte opens a pending prefix that needs Len()-1 continuation bytes.
// The first one is checked against the lead's own range, the rest against
// 0x80-0xBF. The first byte outside its range ends the prefix without being
// consumed, so the prefix is the maximal subpart of the bad sequence.
func next(src []byte) (int, status) {
	c := classes[src[0]]
	switch c.Kind {
	case ASCII:
		return 1, complete
	case Invalid, Continuation:
		return 1, rejected
	}

	if len(src) == 1 {
		return 1, truncated
	}
	if !c.accepts(src[1]) {
		return 1, rejected
	}
	size := c.Len()
	for i := 2; i < size; i++ {
		if i == len(src) {
			return i, truncated
		}
		if b := src[i]; b < contLo || b > contHi {
			return i, rejected
		}
	}
	return size, complete
}

// asciiPrefix returns the length of the leading run of ASCII bytes.
func asciiPrefix(src []byte) int {
	for i, b := range src {
		if b >= 0x80 {
			return i
		}
	}
	return len(src)
}

// Group locates one error group in the input.
type Group struct {
	Offset int
	Len    int
}

// Walk scans src once and calls fn for every error group in order.
// It returns the number of groups found.
func Walk(src []byte, fn func(Group)) int {
	groups := 0
	for i := 0; i < len(src); {
		if n := asciiPrefix(src[i:]); n > 0 {
			i += n
			continue
		}
		n, st := next(src[i:])
		if st != complete {
			groups++
			if fn != nil {
				fn(Group{Offset: i, Len: n})
			}
		}
		i += n
	}
	return groups
}

// Valid reports whether src is well-formed UTF-8 under the table in class.go.
func Valid(src []byte) bool {
	for i := 0; i < len(src); {
		if n := asciiPrefix(src[i:]); n > 0 {
			i += n
			continue
		}
		n, st := next(src[i:])
		if st != complete {
			return false
		}
		i += n
	}
	return true
}

// Count returns the number of error groups in src.
func Count(src []byte) int {
	return Walk(src, nil)
}
