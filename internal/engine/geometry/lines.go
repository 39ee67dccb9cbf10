package geometry

import "sort"

// Source is the text a Lines measures.
type Source interface {
	Len() int
	Slice(start, end int) []rune
	Revision() uint64
}

// DefaultTabWidth is the tab stop distance used when none is configured.
const DefaultTabWidth = 4

// Lines answers line and column questions about a Source.
type Lines struct {
	src      Source
	tabWidth int

	// starts[i] is the offset of the first rune of line i.
	starts  []int
	rev     uint64
	indexed bool
}

// Option configures a Lines.
type Option func(*Lines)

// WithTabWidth sets the tab stop distance. Values below 1 are ignored.
func WithTabWidth(n int) Option {
	return func(l *Lines) {
		if n > 0 {
			l.tabWidth = n
		}
	}
}

// New creates a Lines over src.
func New(src Source, opts ...Option) *Lines {
	l := &Lines{src: src, tabWidth: DefaultTabWidth}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TabWidth returns the configured tab stop distance.
func (l *Lines) TabWidth() int {
	return l.tabWidth
}

func (l *Lines) index() []int {
	rev := l.src.Revision()
	if l.indexed && rev == l.rev {
		return l.starts
	}
	text := l.src.Slice(0, l.src.Len())
	starts := l.starts[:0]
	starts = append(starts, 0)
	for i, r := range text {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	l.starts, l.rev, l.indexed = starts, rev, true
	return starts
}

// LineCount returns the number of lines. It is always at least 1.
func (l *Lines) LineCount() int {
	return len(l.index())
}

// LineOf returns the line containing offset. Offsets outside the text are
// clamped.
func (l *Lines) LineOf(offset int) int {
	starts := l.index()
	offset = min(max(offset, 0), l.src.Len())
	return sort.SearchInts(starts, offset+1) - 1
}

// LineStart returns the offset of the first rune of line. Lines outside the
// text are clamped.
func (l *Lines) LineStart(line int) int {
	starts := l.index()
	return starts[clampLine(line, len(starts))]
}

// LineEnd returns the offset just before the newline ending line, or the text
// length for the last line.
func (l *Lines) LineEnd(line int) int {
	starts := l.index()
	line = clampLine(line, len(starts))
	if line+1 < len(starts) {
		return starts[line+1] - 1
	}
	return l.src.Len()
}

func clampLine(line, count int) int {
	return min(max(line, 0), count-1)
}
