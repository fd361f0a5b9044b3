// Package fileio reads and writes the files around a transcoding run.
// Every failure is an *Error whose Kind tells a missing input apart from
// other I/O problems.
package fileio

import (
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"

	"golang.org/x/crypto/sha3"
	"golang.org/x/text/transform"
)

// DefaultBufferSize is the output chunk size used by Stream when none is given.
const DefaultBufferSize = 32 * 1024

// Written describes bytes written to an output file.
type Written struct {
	Bytes  int64
	Digest string // hex SHA3-256 of the bytes written
}

// ReadAll returns the contents of path. limit <= 0 means no limit.
func ReadAll(path string, limit int64) ([]byte, error) {
	f, err := openInput("read", path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if limit <= 0 {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, &Error{Kind: IOError, Op: "read", Path: path, Err: err}
		}
		return data, nil
	}

	if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() && fi.Size() > limit {
		return nil, &Error{Kind: TooLarge, Op: "read", Path: path,
			Err: fmt.Errorf("%d bytes exceeds limit of %d", fi.Size(), limit)}
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, &Error{Kind: IOError, Op: "read", Path: path, Err: err}
	}
	if int64(len(data)) > limit {
		return nil, &Error{Kind: TooLarge, Op: "read", Path: path,
			Err: fmt.Errorf("more than %d bytes", limit)}
	}
	return data, nil
}

// WriteAll writes data to path, creating or truncating it.
func WriteAll(path string, data []byte) (Written, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return Written{}, &Error{Kind: IOError, Op: "write", Path: path, Err: err}
	}
	dw := newDigestWriter(f)
	_, _ = dw.Write(data)
	if cerr := f.Close(); dw.err == nil && cerr != nil {
		dw.err = cerr
	}
	if dw.err != nil {
		return Written{}, &Error{Kind: IOError, Op: "write", Path: path, Err: dw.err}
	}
	return dw.written(), nil
}

// Stream copies in to out through t, writing the transcoded output in
// chunks of at most bufSize bytes. Input is buffered separately by the
// transform reader. The input is opened first, so a missing input never
// creates the output. A partially written output is removed on failure.
func Stream(in, out string, t transform.Transformer, bufSize int) (Written, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	src, err := openInput("stream", in)
	if err != nil {
		return Written{}, err
	}
	defer src.Close()

	dst, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return Written{}, &Error{Kind: IOError, Op: "stream", Path: out, Err: err}
	}

	dw := newDigestWriter(dst)
	_, err = io.CopyBuffer(dw, transform.NewReader(src, t), make([]byte, bufSize))
	cerr := dst.Close()

	switch {
	case dw.err != nil:
		err = &Error{Kind: IOError, Op: "stream", Path: out, Err: dw.err}
	case err != nil:
		err = &Error{Kind: IOError, Op: "stream", Path: in, Err: err}
	case cerr != nil:
		err = &Error{Kind: IOError, Op: "stream", Path: out, Err: cerr}
	}
	if err != nil {
		_ = os.Remove(out)
		return Written{}, err
	}
	return dw.written(), nil
}

func openInput(op, path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &Error{Kind: MissingInput, Op: op, Path: path, Err: err}
	}
	if err != nil {
		return nil, &Error{Kind: IOError, Op: op, Path: path, Err: err}
	}
	return f, nil
}

// digestWriter hashes and counts everything written through it and keeps
// the first write error.
type digestWriter struct {
	w   io.Writer
	h   hash.Hash
	n   int64
	err error
}

func newDigestWriter(w io.Writer) *digestWriter {
	return &digestWriter{w: w, h: sha3.New256()}
}

func (d *digestWriter) Write(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	n, err := d.w.Write(p)
	d.h.Write(p[:n])
	d.n += int64(n)
	if err != nil {
		d.err = err
	}
	return n, err
}

func (d *digestWriter) written() Written {
	return Written{Bytes: d.n, Digest: hex.EncodeToString(d.h.Sum(nil))}
}

// Digest returns the hex SHA3-256 of data, as reported in Written.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
