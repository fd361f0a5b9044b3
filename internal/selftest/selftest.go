// Package selftest runs the built-in fixtures behind -t/--test. Each case
// goes through the same file round trip as a normal run: write the input
// to a temp file, transcode it to a second file, read that back and compare.
package selftest

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gonkalabs/validutf8/internal/fileio"
	"github.com/gonkalabs/validutf8/internal/transcode"
)

// Case is one fixture: input bytes and the expected output per policy.
type Case struct {
	Name    string
	In      []byte
	Drop    []byte
	Replace []byte
}

const r = transcode.Replacement

// Cases are the fixtures run by Run.
var Cases = []Case{
	{Name: "abc", In: []byte("abc"), Drop: []byte("abc"), Replace: []byte("abc")},
	{Name: "empty", In: []byte{}, Drop: []byte{}, Replace: []byte{}},
	{Name: "two byte char", In: []byte("\xC2\xA9"), Drop: []byte("\xC2\xA9"), Replace: []byte("\xC2\xA9")},
	{Name: "invalid byte", In: []byte("\xFF"), Drop: []byte{}, Replace: []byte(r)},
	{Name: "invalid two bytes", In: []byte("\xFF\xFE"), Drop: []byte{}, Replace: []byte(r + r)},
	{Name: "invalid three bytes", In: []byte("\xFF\xFE\xFD"), Drop: []byte{}, Replace: []byte(r + r + r)},
	{Name: "invalid four bytes", In: []byte("\xFF\xFE\xFD\xFE"), Drop: []byte{}, Replace: []byte(r + r + r + r)},
	{Name: "invalid two byte sequence", In: []byte("\xC2\xC0"), Drop: []byte{}, Replace: []byte(r + r)},
	{Name: "lead then ascii", In: []byte("\xC2\x31"), Drop: []byte("1"), Replace: []byte(r + "1")},
	{Name: "truncated three byte", In: []byte("\xE1\x80"), Drop: []byte{}, Replace: []byte(r)},
	{Name: "truncated four byte", In: []byte("\xF4\x80\x80"), Drop: []byte{}, Replace: []byte(r)},
	{Name: "f0 overlong", In: []byte("\xF0\x8F"), Drop: []byte{}, Replace: []byte(r + r)},
	{Name: "f0 prefix then c0", In: []byte("\xF0\x90\xC0"), Drop: []byte{}, Replace: []byte(r + r)},
}

// Convert is the step under test: transcode the file at in into out.
type Convert func(in, out string, p transcode.Policy) error

// Result summarises a run.
type Result struct {
	Passed int
	Failed int
}

// OK reports whether every check passed.
func (r Result) OK() bool { return r.Failed == 0 && r.Passed > 0 }

// Run checks every case under both policies using convert, working in a
// fresh directory below dir (os.TempDir() when empty). Failures are
// described on w. The returned error is only for harness problems.
func Run(dir string, convert Convert, w io.Writer) (Result, error) {
	work, err := os.MkdirTemp(dir, "validutf8-selftest-")
	if err != nil {
		return Result{}, fmt.Errorf("selftest: %w", err)
	}
	defer os.RemoveAll(work)

	var res Result
	for i, c := range Cases {
		for _, p := range []transcode.Policy{transcode.Drop, transcode.Replace} {
			want := c.Replace
			if p == transcode.Drop {
				want = c.Drop
			}
			in := filepath.Join(work, fmt.Sprintf("in_%02d_%s.bin", i, p))
			out := filepath.Join(work, fmt.Sprintf("out_%02d_%s.txt", i, p))

			got, err := roundTrip(in, out, c.In, p, convert)
			switch {
			case err != nil:
				res.Failed++
				fmt.Fprintf(w, "FAIL %s (%s): %v\n", c.Name, p, err)
			case string(got) != string(want):
				res.Failed++
				fmt.Fprintf(w, "FAIL %s (%s)\n     got: %s\nexpected: %s\n", c.Name, p, HexBytes(got), HexBytes(want))
			default:
				res.Passed++
				slog.Debug("selftest: ok", "case", c.Name, "policy", p)
			}
		}
	}
	fmt.Fprintf(w, "selftest: %d passed, %d failed\n", res.Passed, res.Failed)
	return res, nil
}

func roundTrip(in, out string, data []byte, p transcode.Policy, convert Convert) ([]byte, error) {
	if _, err := fileio.WriteAll(in, data); err != nil {
		return nil, err
	}
	if err := convert(in, out, p); err != nil {
		return nil, err
	}
	if _, err := os.Stat(out); err != nil {
		return nil, fmt.Errorf("output was not created: %w", err)
	}
	return fileio.ReadAll(out, 0)
}

// HexBytes formats b as space separated lower-case hex pairs ("ff fe").
func HexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02x", c)
	}
	return strings.Join(parts, " ")
}
