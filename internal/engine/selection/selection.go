package selection

import (
	"fmt"

	"github.com/dshills/spanbuf/internal/engine"
	"github.com/dshills/spanbuf/internal/engine/marker"
	"github.com/dshills/spanbuf/internal/engine/notify"
	"github.com/dshills/spanbuf/internal/engine/tag"
)

// Marker kinds used by a Selection.
const (
	AnchorKind tag.Kind = "selection.anchor"
	CursorKind tag.Kind = "selection.cursor"
	MemoryKind tag.Kind = "selection.memory"

	observerKind tag.Kind = "selection"
)

// Geometry maps offsets to lines and columns.
type Geometry interface {
	LineOf(offset int) int
	LineStart(line int) int
	LineEnd(line int) int
	OffsetForColumn(line, col int) int
	ColumnOf(offset int) int
}

// State is the shape of a selection.
type State uint8

const (
	None State = iota
	Collapsed
	Range
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case None:
		return "none"
	case Collapsed:
		return "collapsed"
	case Range:
		return "range"
	default:
		return "unknown"
	}
}

// Selection is a cursor or range on one buffer.
type Selection struct {
	buf  *marker.Buffer
	geom Geometry

	id     tag.Tag
	anchor tag.Tag
	cursor tag.Tag
	memory tag.Tag
	column int
}

// New creates an empty selection on buf.
func New(buf *marker.Buffer, geom Geometry) (*Selection, error) {
	if buf == nil || geom == nil {
		return nil, fmt.Errorf("selection: nil buffer or geometry: %w", engine.ErrInvalidArgument)
	}
	s := &Selection{
		buf:    buf,
		geom:   geom,
		id:     tag.New(observerKind),
		anchor: tag.New(AnchorKind),
		cursor: tag.New(CursorKind),
		memory: tag.New(MemoryKind),
	}
	err := buf.Register(s.id, notify.Funcs{
		OnDetached:    s.markerDetached,
		OnTextChanged: func(int, int, int) { s.forget() },
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Close removes the selection markers and stops observing the buffer.
func (s *Selection) Close() error {
	s.Remove()
	return s.buf.Unregister(s.id)
}

// State reports whether the selection is empty, collapsed or a range.
func (s *Selection) State() State {
	a, c := s.Anchor(), s.Cursor()
	switch {
	case a < 0 || c < 0:
		return None
	case a == c:
		return Collapsed
	default:
		return Range
	}
}

// Anchor returns the fixed end of the selection, or -1.
func (s *Selection) Anchor() int {
	return s.buf.Start(s.anchor)
}

// Cursor returns the moving end of the selection, or -1.
func (s *Selection) Cursor() int {
	return s.buf.Start(s.cursor)
}

// Start returns the lower bound of the selection, or -1.
func (s *Selection) Start() int {
	return min(s.Anchor(), s.Cursor())
}

// End returns the upper bound of the selection, or -1.
func (s *Selection) End() int {
	if s.State() == None {
		return -1
	}
	return max(s.Anchor(), s.Cursor())
}

// Set places the anchor at a and the cursor at c.
func (s *Selection) Set(a, c int) (bool, error) {
	n := s.buf.Len()
	if a < 0 || a > n || c < 0 || c > n {
		return false, fmt.Errorf("selection [%d,%d] in buffer of length %d: %w", a, c, n, engine.ErrOutOfRange)
	}
	s.forget()
	return s.place(a, c)
}

// Extend moves the cursor to offset, keeping the anchor. An empty selection
// becomes collapsed at offset.
func (s *Selection) Extend(offset int) (bool, error) {
	if s.State() == None {
		return s.Set(offset, offset)
	}
	if offset < 0 || offset > s.buf.Len() {
		return false, fmt.Errorf("extend to %d in buffer of length %d: %w", offset, s.buf.Len(), engine.ErrOutOfRange)
	}
	s.forget()
	return s.place(s.Anchor(), offset)
}

// SelectAll selects the whole buffer.
func (s *Selection) SelectAll() bool {
	s.forget()
	return moved(s.place(0, s.buf.Len()))
}

// Remove clears the selection.
func (s *Selection) Remove() bool {
	had := s.State() != None
	s.forget()
	s.buf.Detach(s.cursor)
	s.buf.Detach(s.anchor)
	return had
}

// place attaches both markers and reports whether either moved.
// Observers may edit the buffer between the two attaches; if the second
// offset no longer fits, the selection is removed and the error returned.
func (s *Selection) place(a, c int) (bool, error) {
	if s.Anchor() == a && s.Cursor() == c {
		return false, nil
	}
	err := s.attach(s.anchor, a)
	if err == nil {
		err = s.attach(s.cursor, c)
	}
	if err != nil {
		s.Remove()
		return false, fmt.Errorf("selection [%d,%d]: %w", a, c, err)
	}
	return true, nil
}

func (s *Selection) attach(t tag.Tag, offset int) error {
	return s.buf.Attach(t, offset, offset, marker.ExclusiveInclusive)
}

// moved folds a place result into the bool the motions report.
func moved(changed bool, err error) bool {
	return changed && err == nil
}

// remembered returns the stored column if its helper is still at offset.
func (s *Selection) remembered(offset int) (int, bool) {
	if start, _, ok := s.buf.RangeOf(s.memory); ok && start == offset {
		return s.column, true
	}
	return 0, false
}

// remember arms the column memory at offset. It stays unarmed when offset
// was invalidated by an observer.
func (s *Selection) remember(offset, col int) {
	if err := s.buf.Attach(s.memory, offset, offset, marker.ExclusiveExclusive); err != nil {
		return
	}
	s.column = col
}

func (s *Selection) forget() {
	s.buf.Detach(s.memory)
}

// markerDetached clears the whole selection when either end is detached
// from outside.
func (s *Selection) markerDetached(t tag.Tag, _, _ int) {
	switch t {
	case s.anchor:
		s.buf.Detach(s.cursor)
	case s.cursor:
		s.buf.Detach(s.anchor)
	}
}
