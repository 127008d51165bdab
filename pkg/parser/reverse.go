// Package parser provides timestamp extraction and file reading for
// access logs, including a memory-bounded reverse (tail-first) line scanner.
package parser

import (
	"fmt"
	"os"
)

// DefaultBlockSize is the read granularity for reverse scanning.
const DefaultBlockSize = 8192

// ReverseScanner yields a file's lines from end to start without loading
// the whole file into memory. It reads fixed-size blocks backward from
// end-of-file and stitches partial line fragments across block boundaries.
//
// The zero value is not usable; call OpenReverse. A scanner is finite and
// non-restartable: once Scan returns false the pass is over.
//
// Memory is bounded by one block plus the longest line spanning a block
// boundary.
type ReverseScanner struct {
	f         *os.File
	blockSize int

	// pos is the file offset of the first byte not yet read backward.
	// carry holds the fragment before the first separator of the
	// previously split region; its first byte sits at offset pos.
	pos   int64
	carry []byte
	first bool

	// queue holds complete lines split from the current region, in file
	// order; they are emitted back to front. offsets holds the matching
	// start-of-line byte offsets.
	queue   [][]byte
	offsets []int64

	line   []byte
	offset int64
	err    error
	done   bool
}

// OpenReverse opens path for reverse line scanning with the default
// block size.
func OpenReverse(path string) (*ReverseScanner, error) {
	return OpenReverseSize(path, DefaultBlockSize)
}

// OpenReverseSize opens path for reverse line scanning with an explicit
// block size. Small sizes are only useful in tests.
func OpenReverseSize(path string, blockSize int) (*ReverseScanner, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &ReverseScanner{
		f:         f,
		blockSize: blockSize,
		pos:       info.Size(),
		first:     true,
	}, nil
}

// Scan advances to the next line in reverse file order (last line first).
// It returns false when the file start has been reached or an error
// occurred; call Err to distinguish.
func (s *ReverseScanner) Scan() bool {
	if s.err != nil || s.done {
		return false
	}

	for len(s.queue) == 0 {
		if s.pos == 0 {
			s.done = true
			return false
		}
		if err := s.fill(); err != nil {
			s.err = err
			return false
		}
	}

	n := len(s.queue) - 1
	s.line = s.queue[n]
	s.offset = s.offsets[n]
	s.queue = s.queue[:n]
	s.offsets = s.offsets[:n]
	return true
}

// Bytes returns the current line without its trailing separator. The
// slice is valid until the queue for its block is exhausted; callers
// that retain lines should copy.
func (s *ReverseScanner) Bytes() []byte {
	return s.line
}

// Text returns the current line as a string.
func (s *ReverseScanner) Text() string {
	return string(s.line)
}

// Offset returns the byte offset of the start of the most recently
// yielded line in the original (forward) file. The offset is valid as a
// seek target for a later forward read.
func (s *ReverseScanner) Offset() int64 {
	return s.offset
}

// Err returns the first error encountered during scanning, or nil.
func (s *ReverseScanner) Err() error {
	return s.err
}

// Close releases the underlying file handle.
func (s *ReverseScanner) Close() error {
	return s.f.Close()
}

// fill reads the next block backward and splits it into lines. The
// fragment before the region's first separator becomes the new carry; it
// is only a complete line once the file start is reached.
func (s *ReverseScanner) fill() error {
	start := s.pos - int64(s.blockSize)
	if start < 0 {
		start = 0
	}

	n := int(s.pos - start)
	buf := make([]byte, n, n+len(s.carry))
	if _, err := s.f.ReadAt(buf, start); err != nil {
		return fmt.Errorf("reading block at offset %d: %w", start, err)
	}
	data := append(buf, s.carry...)
	s.carry = nil
	s.pos = start

	// A trailing separator terminates the file's last line; it does not
	// introduce an empty final line. Later regions always abut a
	// separator consumed by the previous split, so this applies only to
	// the region at end-of-file.
	if s.first {
		s.first = false
		if len(data) > 0 && data[len(data)-1] == '\n' {
			data = data[:len(data)-1]
		}
	}

	segs, offs := splitLines(data, start)

	if start == 0 {
		// The leading segment is the file's first line.
		s.queue, s.offsets = segs, offs
		return nil
	}

	// The leading segment is the tail of a line that begins in an
	// earlier block; hold it until that block is read.
	s.carry = append([]byte(nil), segs[0]...)
	s.queue, s.offsets = segs[1:], offs[1:]
	return nil
}

// splitLines splits data on line separators, returning the segments and
// the file offset of each segment's first byte. base is the file offset
// of data[0]. Carriage returns preceding a separator are stripped.
func splitLines(data []byte, base int64) ([][]byte, []int64) {
	var segs [][]byte
	var offs []int64

	segStart := 0
	for i, b := range data {
		if b != '\n' {
			continue
		}
		segs = append(segs, trimCR(data[segStart:i]))
		offs = append(offs, base+int64(segStart))
		segStart = i + 1
	}
	segs = append(segs, trimCR(data[segStart:]))
	offs = append(offs, base+int64(segStart))

	return segs, offs
}

func trimCR(line []byte) []byte {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		return line[:len(line)-1]
	}
	return line
}
