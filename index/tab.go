package index

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bsm/polyhash/geohash"
)

// Tab files hold one record per line, the hash and the base64 encoded value
// separated by a tab. Files ending in .gz are gzip compressed, "-" stands
// for stdin/stdout.

var b64std = base64.StdEncoding

// maxTabLine limits the size of a single record.
const maxTabLine = 64 << 20

// closers closes in reverse order and returns the first error.
type closers []io.Closer

func (cs closers) Close() error {
	var err error
	for i := len(cs) - 1; i >= 0; i-- {
		if e := cs[i].Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// --------------------------------------------------------------------

// TabWriter writes a tab file. It implements HashWriter.
type TabWriter struct {
	out     *bufio.Writer
	closers closers
	line    []byte
}

// AppendTab opens fname for appending.
func AppendTab(fname string) (*TabWriter, error) {
	if fname == "-" {
		return &TabWriter{out: bufio.NewWriter(os.Stdout)}, nil
	}

	f, err := os.OpenFile(fname, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}

	w := &TabWriter{closers: closers{f}}
	if strings.HasSuffix(fname, ".gz") {
		z := gzip.NewWriter(f)
		w.closers = append(w.closers, z)
		w.out = bufio.NewWriter(z)
	} else {
		w.out = bufio.NewWriter(f)
	}
	return w, nil
}

// Put writes a record.
func (w *TabWriter) Put(h geohash.Hash, val []byte) error {
	if !h.IsValid() {
		return errInvalidHash
	}

	n := len(h) + 1 + b64std.EncodedLen(len(val)) + 1
	if cap(w.line) < n {
		w.line = make([]byte, n)
	}
	line := w.line[:n]

	pos := copy(line, h)
	line[pos] = '\t'
	b64std.Encode(line[pos+1:], val)
	line[n-1] = '\n'

	_, err := w.out.Write(line)
	return err
}

// Close flushes buffered records and closes the file.
func (w *TabWriter) Close() error {
	err := w.out.Flush()
	if e := w.closers.Close(); e != nil && err == nil {
		err = e
	}
	return err
}

// --------------------------------------------------------------------

// TabReader reads a tab file.
type TabReader struct {
	scanner *bufio.Scanner
	closers closers

	peeked  bool
	peekH   geohash.Hash
	peekVal []byte
	peekErr error
}

// OpenTab opens a tab file for reading.
func OpenTab(fname string) (*TabReader, error) {
	if fname == "-" {
		return newTabReader(os.Stdin, nil), nil
	}

	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(fname, ".gz") {
		return newTabReader(f, closers{f}), nil
	}

	z, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return newTabReader(z, closers{f, z}), nil
}

func newTabReader(r io.Reader, cs closers) *TabReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxTabLine)
	return &TabReader{scanner: scanner, closers: cs}
}

// Read reads the next hash with the values of all consecutive records
// for it. It returns io.EOF at the end of the file.
func (r *TabReader) Read() (geohash.Hash, [][]byte, error) {
	h, val, err := r.next()
	if err != nil {
		return "", nil, err
	}

	vals := [][]byte{val}
	for {
		nh, nval, err := r.next()
		if err != nil || nh != h {
			r.peeked, r.peekH, r.peekVal, r.peekErr = true, nh, nval, err
			break
		}
		vals = append(vals, nval)
	}
	return h, vals, nil
}

func (r *TabReader) next() (geohash.Hash, []byte, error) {
	if r.peeked {
		r.peeked = false
		return r.peekH, r.peekVal, r.peekErr
	}

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", nil, err
		}
		return "", nil, io.EOF
	}
	return parseTabLine(r.scanner.Bytes())
}

func parseTabLine(line []byte) (geohash.Hash, []byte, error) {
	pos := bytes.IndexByte(line, '\t')
	if pos < 0 {
		return "", nil, fmt.Errorf("index: bad input %q", line)
	}

	h := geohash.Hash(line[:pos])
	if !h.IsValid() {
		return "", nil, fmt.Errorf("index: bad input %q", line)
	}

	enc := line[pos+1:]
	val := make([]byte, b64std.DecodedLen(len(enc)))
	n, err := b64std.Decode(val, enc)
	if err != nil {
		return "", nil, fmt.Errorf("index: bad input %q", line)
	}
	return h, val[:n], nil
}

// Close closes the file.
func (r *TabReader) Close() error {
	return r.closers.Close()
}
