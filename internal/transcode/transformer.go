package transcode

import (
	"io"

	"golang.org/x/text/transform"
)

// Transformer is the streaming form of Transcode. It implements
// transform.Transformer, so it works with transform.NewReader,
// transform.NewWriter, transform.Chain and friends. The output is the same
// as Transcode's for any chunking of the input.
//
// A Transformer keeps running counts and must not be used concurrently.
type Transformer struct {
	policy Policy
	report Report
	offset int64 // input bytes consumed since the last Reset

	// OnGroup, when set, is called for every error group with its offset
	// in the whole stream.
	OnGroup func(Group)
}

var _ transform.Transformer = (*Transformer)(nil)

// NewTransformer returns a Transformer that applies policy p.
func NewTransformer(p Policy) *Transformer {
	p.mustValid()
	return &Transformer{policy: p}
}

// Report returns the counts accumulated since the last Reset.
func (t *Transformer) Report() Report { return t.report }

// Reset implements transform.Transformer.
func (t *Transformer) Reset() {
	t.report = Report{}
	t.offset = 0
}

// Transform implements transform.Transformer.
//
// A sequence cut off by the end of src is held back with ErrShortSrc until
// more input arrives or atEOF is set, at which point it becomes one error
// group. A rejected prefix never needs more input.
func (t *Transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if n := asciiPrefix(src[nSrc:]); n > 0 {
			if room := len(dst) - nDst; n > room {
				n = room
				err = transform.ErrShortDst
			}
			copy(dst[nDst:], src[nSrc:nSrc+n])
			nDst += n
			nSrc += n
			t.consumed(n)
			t.report.Valid += int64(n)
			if err != nil {
				return nDst, nSrc, err
			}
			continue
		}

		n, st := next(src[nSrc:])
		if st == truncated && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if st == complete {
			if nDst+n > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			copy(dst[nDst:], src[nSrc:nSrc+n])
			nDst += n
			t.report.Valid += int64(n)
		} else {
			if t.policy == Replace {
				if nDst+len(Replacement) > len(dst) {
					return nDst, nSrc, transform.ErrShortDst
				}
				nDst += copy(dst[nDst:], Replacement)
			}
			t.report.Groups++
			t.report.Dropped += int64(n)
			if t.OnGroup != nil {
				t.OnGroup(Group{Offset: int(t.offset), Len: n})
			}
		}
		nSrc += n
		t.consumed(n)
	}
	return nDst, nSrc, nil
}

func (t *Transformer) consumed(n int) { t.offset += int64(n) }

// Reader transcodes everything read from an underlying reader.
type Reader struct {
	*transform.Reader
	t *Transformer
}

// NewReader returns a Reader that transcodes r under policy p.
func NewReader(r io.Reader, p Policy) *Reader {
	t := NewTransformer(p)
	return &Reader{Reader: transform.NewReader(r, t), t: t}
}

// Report returns the counts for the bytes read so far.
func (r *Reader) Report() Report { return r.t.Report() }
