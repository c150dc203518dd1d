package tunnellog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Reader iterates over the data lines of a log after consuming its header.
type Reader struct {
	path    string
	scanner *bufio.Scanner
	closeFn func() error
	header  Header
	line    int
	record  Record
	err     error
}

// NewReader reads the header from src and returns a Reader positioned on the
// first data line. path is only used in error messages.
func NewReader(path string, src io.Reader) (*Reader, error) {
	r := &Reader{
		path:    path,
		scanner: bufio.NewScanner(src),
	}

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, err)
		}
		return nil, &ParseError{Path: path, Line: 1, Err: ErrMissingHeader}
	}
	r.line = 1

	text := r.scanner.Text()
	header, err := ParseHeader(text)
	if err != nil {
		return nil, &ParseError{Path: path, Line: r.line, Text: text, Err: err}
	}
	r.header = header

	return r, nil
}

// Open opens the log at path, transparently decompressing ".zst" files.
// The caller must Close the returned Reader.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	var src io.Reader = file
	closeFn := file.Close

	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(file)
		if err != nil {
			_ = file.Close() //nolint:errcheck // Read-only file, already failing
			return nil, fmt.Errorf("failed to create zstd reader for %s: %w", path, err)
		}
		src = dec
		closeFn = func() error {
			dec.Close()
			return file.Close()
		}
	}

	r, err := NewReader(path, src)
	if err != nil {
		_ = closeFn() //nolint:errcheck // Read-only file, already failing
		return nil, err
	}
	r.closeFn = closeFn

	return r, nil
}

// Path returns the path the log was read from.
func (r *Reader) Path() string {
	return r.path
}

// Header returns the parsed header line.
func (r *Reader) Header() Header {
	return r.header
}

// Next advances to the next data line. It returns false at the end of the
// log or on the first malformed line; Err tells the two apart.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			r.err = fmt.Errorf("error reading %s: %w", r.path, err)
		}
		return false
	}
	r.line++

	text := r.scanner.Text()
	record, err := ParseRecord(text)
	if err != nil {
		r.err = &ParseError{Path: r.path, Line: r.line, Text: text, Err: err}
		return false
	}
	r.record = record

	return true
}

// Record returns the data line read by the last successful call to Next.
func (r *Reader) Record() Record {
	return r.record
}

// Err returns the first error met while iterating, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying file. Readers built with NewReader own
// nothing and Close is a no-op.
func (r *Reader) Close() error {
	if r.closeFn == nil {
		return nil
	}
	fn := r.closeFn
	r.closeFn = nil
	return fn()
}
