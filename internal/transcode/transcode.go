// Package transcode turns arbitrary bytes into valid UTF-8.
//
// The input is scanned once, front to back. Well-formed sequences are copied
// unchanged. Each malformed run is reduced to its maximal subpart (the longest
// prefix that was still a legal start of a sequence) and that group is
// either dropped or replaced by one U+FFFD, depending on the Policy.
//
// Usage:
//
//	out := transcode.Transcode(data, transcode.Replace)
//
//	// or, over a stream:
//	r := transcode.NewReader(f, transcode.Drop)
//	_, err := io.Copy(w, r)
package transcode

// Replacement is U+FFFD encoded as UTF-8.
const Replacement = "\xEF\xBF\xBD"

// Report counts what a transcoding pass did.
type Report struct {
	Groups  int   // error groups found; identical under both policies
	Dropped int64 // input bytes covered by error groups
	Valid   int64 // input bytes copied through unchanged
}

// Transcode returns src as valid UTF-8 under policy p.
// Empty input gives empty (non-nil) output.
func Transcode(src []byte, p Policy) []byte {
	out, _ := Append(make([]byte, 0, len(src)), src, p)
	return out
}

// Append transcodes src under policy p, appends the result to dst and
// returns the extended slice with a report of the pass.
func Append(dst, src []byte, p Policy) ([]byte, Report) {
	p.mustValid()
	var rep Report
	for i := 0; i < len(src); {
		// Copy ASCII runs in one step.
		if n := asciiPrefix(src[i:]); n > 0 {
			dst = append(dst, src[i:i+n]...)
			rep.Valid += int64(n)
			i += n
			continue
		}
		n, st := next(src[i:])
		if st == complete {
			dst = append(dst, src[i:i+n]...)
			rep.Valid += int64(n)
		} else {
			dst = emitGroup(dst, p)
			rep.Groups++
			rep.Dropped += int64(n)
		}
		i += n
	}
	return dst, rep
}

func emitGroup(dst []byte, p Policy) []byte {
	if p == Replace {
		return append(dst, Replacement...)
	}
	return dst
}
