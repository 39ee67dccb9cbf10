// Package textstore provides the rune storage underneath a marker buffer.
//
// Store is a gap buffer: runes live in one slice with a movable hole at the
// last edit position, so runs of nearby edits only shift the runes between
// consecutive edit points. Store knows nothing about markers.
package textstore

import (
	"fmt"
	"strings"

	"github.com/dshills/spanbuf/internal/engine"
)

const minGap = 64

// Store is an indexable, resizable rune sequence.
// It is not safe for concurrent use.
type Store struct {
	buf      []rune
	gapStart int
	gapEnd   int
}

// New creates a store holding s.
func New(s string) *Store {
	return FromRunes([]rune(s))
}

// FromRunes creates a store holding a copy of r.
func FromRunes(r []rune) *Store {
	buf := make([]rune, len(r)+minGap)
	copy(buf, r)
	return &Store{buf: buf, gapStart: len(r), gapEnd: len(buf)}
}

// Len returns the number of runes stored.
func (s *Store) Len() int {
	return len(s.buf) - (s.gapEnd - s.gapStart)
}

// At returns the rune at offset i, or 0 when i is out of range.
func (s *Store) At(i int) rune {
	if i < 0 || i >= s.Len() {
		return 0
	}
	if i < s.gapStart {
		return s.buf[i]
	}
	return s.buf[s.gapEnd+(i-s.gapStart)]
}

// Slice returns a copy of the runes in [start, end).
func (s *Store) Slice(start, end int) ([]rune, error) {
	if err := s.checkRange(start, end); err != nil {
		return nil, err
	}
	out := make([]rune, 0, end-start)
	if start < s.gapStart {
		out = append(out, s.buf[start:min(end, s.gapStart)]...)
	}
	if end > s.gapStart {
		from := max(start, s.gapStart) - s.gapStart + s.gapEnd
		to := end - s.gapStart + s.gapEnd
		out = append(out, s.buf[from:to]...)
	}
	return out, nil
}

// String returns the full content.
func (s *Store) String() string {
	var sb strings.Builder
	sb.Grow(s.Len())
	for _, r := range s.buf[:s.gapStart] {
		sb.WriteRune(r)
	}
	for _, r := range s.buf[s.gapEnd:] {
		sb.WriteRune(r)
	}
	return sb.String()
}

// Splice replaces the runes in [start, end) with rep.
func (s *Store) Splice(start, end int, rep []rune) error {
	if err := s.checkRange(start, end); err != nil {
		return err
	}
	s.moveGap(start)
	// Widen the gap over the removed runes, then fill it.
	s.gapEnd += end - start
	s.ensureGap(len(rep))
	copy(s.buf[s.gapStart:], rep)
	s.gapStart += len(rep)
	return nil
}

// Insert inserts rep at offset.
func (s *Store) Insert(offset int, rep []rune) error {
	return s.Splice(offset, offset, rep)
}

// Delete removes the runes in [start, end).
func (s *Store) Delete(start, end int) error {
	return s.Splice(start, end, nil)
}

// Append adds rep at the end.
func (s *Store) Append(rep []rune) {
	_ = s.Splice(s.Len(), s.Len(), rep)
}

func (s *Store) checkRange(start, end int) error {
	if start < 0 || start > end || end > s.Len() {
		return fmt.Errorf("range [%d,%d) of %d runes: %w", start, end, s.Len(), engine.ErrOutOfRange)
	}
	return nil
}

// moveGap moves the gap so that gapStart == pos. pos must be in [0, Len()].
func (s *Store) moveGap(pos int) {
	switch {
	case pos < s.gapStart:
		n := s.gapStart - pos
		copy(s.buf[s.gapEnd-n:s.gapEnd], s.buf[pos:s.gapStart])
		s.gapStart = pos
		s.gapEnd -= n
	case pos > s.gapStart:
		n := pos - s.gapStart
		copy(s.buf[s.gapStart:s.gapStart+n], s.buf[s.gapEnd:s.gapEnd+n])
		s.gapStart += n
		s.gapEnd += n
	}
}

// ensureGap grows the backing slice so the gap holds at least n runes.
func (s *Store) ensureGap(n int) {
	if s.gapEnd-s.gapStart >= n {
		return
	}
	tail := len(s.buf) - s.gapEnd
	size := max(len(s.buf)*2, s.gapStart+n+tail+minGap)
	buf := make([]rune, size)
	copy(buf, s.buf[:s.gapStart])
	copy(buf[size-tail:], s.buf[s.gapEnd:])
	s.buf = buf
	s.gapEnd = size - tail
}
