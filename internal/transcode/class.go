package transcode

// Kind is the role a byte plays when it is read as the start of a sequence.
type Kind uint8

const (
	Invalid Kind = iota // never legal as a first byte: 0xC0, 0xC1, 0xF5-0xFF
	ASCII
	Lead2
	Lead3
	Lead4
	Continuation // 0x80-0xBF; illegal as a first byte
)

func (k Kind) String() string {
	switch k {
	case ASCII:
		return "ascii"
	case Lead2:
		return "lead2"
	case Lead3:
		return "lead3"
	case Lead4:
		return "lead4"
	case Continuation:
		return "continuation"
	default:
		return "invalid"
	}
}

// Generic continuation byte range.
const (
	contLo = 0x80
	contHi = 0xBF
)

// Class describes a byte. For lead kinds, Lo and Hi bound the first
// continuation byte; every later continuation uses 0x80-0xBF.
type Class struct {
	Kind Kind
	Lo   byte
	Hi   byte
}

// Len returns the full sequence length for a lead or ASCII byte and 0 otherwise.
func (c Class) Len() int {
	switch c.Kind {
	case ASCII:
		return 1
	case Lead2:
		return 2
	case Lead3:
		return 3
	case Lead4:
		return 4
	}
	return 0
}

// Special reports whether the first continuation range is narrower than the
// generic one (overlong and surrogate exclusions for E0, ED, F0 and F4).
func (c Class) Special() bool {
	return c.Len() > 1 && (c.Lo != contLo || c.Hi != contHi)
}

// accepts reports whether b is in the class's first-continuation range.
func (c Class) accepts(b byte) bool {
	return c.Lo <= b && b <= c.Hi
}

// classes maps every byte value to its Class.
var classes = func() [256]Class {
	var t [256]Class
	set := func(lo, hi int, c Class) {
		for b := lo; b <= hi; b++ {
			t[b] = c
		}
	}
	set(0x00, 0x7F, Class{Kind: ASCII})
	set(0x80, 0xBF, Class{Kind: Continuation})
	set(0xC0, 0xC1, Class{Kind: Invalid})
	set(0xC2, 0xDF, Class{Kind: Lead2, Lo: contLo, Hi: contHi})
	set(0xE0, 0xE0, Class{Kind: Lead3, Lo: 0xA0, Hi: contHi})
	set(0xE1, 0xEC, Class{Kind: Lead3, Lo: contLo, Hi: contHi})
	set(0xED, 0xED, Class{Kind: Lead3, Lo: contLo, Hi: 0x9F})
	set(0xEE, 0xEF, Class{Kind: Lead3, Lo: contLo, Hi: contHi})
	set(0xF0, 0xF0, Class{Kind: Lead4, Lo: 0x90, Hi: contHi})
	set(0xF1, 0xF3, Class{Kind: Lead4, Lo: contLo, Hi: contHi})
	set(0xF4, 0xF4, Class{Kind: Lead4, Lo: contLo, Hi: 0x8F})
	set(0xF5, 0xFF, Class{Kind: Invalid})
	return t
}()

// Classify returns the Class of b.
func Classify(b byte) Class { return classes[b] }
