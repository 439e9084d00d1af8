// Package quote provides the tick source: a memory-mapped, restartable
// reader over an append-only CSV file of quote records.
package quote

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// avgLineBytes is used only to derive a preallocation hint from file size.
const avgLineBytes = 50

// Tick is an immutable quote record. Values are copied out of the
// memory-mapped file; a Tick never retains a reference to the mapping.
type Tick struct {
	Timestamp int64 // microseconds since epoch
	Bid       float64
	Ask       float64
	Volume    int64
}

// Mid returns the midpoint of bid and ask.
func (t Tick) Mid() float64 {
	return (t.Bid + t.Ask) / 2
}

// Source is a zero-copy, restartable iterator over a mmapped CSV tick
// file. It is not safe for concurrent use by multiple readers.
type Source struct {
	data      []byte
	headerEnd int
	pos       int
	size      int64
}

// Open memory-maps path read-only and positions the cursor just past an
// optional header line.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("quote: open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("quote: stat %s: %w", path, err)
	}
	size := fi.Size()

	var data []byte
	if size > 0 {
		data, err = unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
		if err != nil {
			return nil, fmt.Errorf("quote: mmap %s: %w", path, err)
		}
	}

	s := &Source{data: data, size: size}
	s.headerEnd = headerSkip(data)
	s.pos = s.headerEnd
	return s, nil
}

// headerSkip returns the offset just past the first newline, or 0 if
// there is none (empty file, or a single unterminated line).
func headerSkip(data []byte) int {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// Close releases the memory mapping. Safe to call more than once.
func (s *Source) Close() error {
	if s.data == nil {
		return nil
	}
	err := unix.Munmap(s.data)
	s.data = nil
	return err
}

// Reset repositions the read cursor just past the header for a second
// pass. It does not re-map the file.
func (s *Source) Reset() {
	s.pos = s.headerEnd
}

// ApproximateTickCount gives a rough preallocation hint derived from
// file size and an assumed average line length.
func (s *Source) ApproximateTickCount() int {
	if s.size <= 0 {
		return 0
	}
	return int(s.size / avgLineBytes)
}

// Next yields the next parsed record in file order. Blank and malformed
// lines are skipped silently; ok is false once the mapping is exhausted.
func (s *Source) Next() (tick Tick, ok bool) {
	for s.pos < len(s.data) {
		line, rest := s.nextLine()
		s.pos = rest

		line = trimCR(line)
		if len(line) == 0 {
			continue
		}

		t, parsed := parseLine(line)
		if !parsed {
			continue
		}
		return t, true
	}
	return Tick{}, false
}

// nextLine carves off the next line starting at s.pos, returning the
// line (without its trailing newline) and the offset of the byte after
// it. The final line in a file with no trailing newline is returned as
// a valid line.
func (s *Source) nextLine() (line []byte, next int) {
	rem := s.data[s.pos:]
	if i := bytes.IndexByte(rem, '\n'); i >= 0 {
		return rem[:i], s.pos + i + 1
	}
	return rem, len(s.data)
}

func trimCR(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}

// parseLine parses "timestamp,bid,ask,volume". A line that does not
// yield four parseable fields is rejected rather than aborting the
// stream; the parser never panics on malformed numeric input.
func parseLine(line []byte) (Tick, bool) {
	fields := strings.SplitN(string(line), ",", 5)
	if len(fields) < 4 {
		return Tick{}, false
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return Tick{}, false
	}
	bid, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return Tick{}, false
	}
	ask, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return Tick{}, false
	}
	vol, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
	if err != nil {
		return Tick{}, false
	}

	return Tick{Timestamp: ts, Bid: bid, Ask: ask, Volume: vol}, true
}
