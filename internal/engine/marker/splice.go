package marker

import (
	"fmt"

	"github.com/dshills/spanbuf/internal/engine"
	"github.com/dshills/spanbuf/internal/engine/notify"
)

// edit describes one splice in pre-edit coordinates.
type edit struct {
	r0, r1 int // replaced range
	n      int // replacement length
}

func (e edit) delta() int {
	return e.n - (e.r1 - e.r0)
}

// trueReplacement reports whether both the replaced range and the
// replacement are non-empty.
func (e edit) trueReplacement() bool {
	return e.r1 > e.r0 && e.n > 0
}

// touches reports whether offset p lies inside or on the edge of the edit.
func (e edit) touches(p int) bool {
	return p >= e.r0 && p <= e.r1
}

// reanchor maps one boundary at p through the edit.
func (e edit) reanchor(p int, role Role) int {
	switch {
	case p < e.r0:
		return p
	case p > e.r1:
		return p + e.delta()
	}
	if role == Mark {
		// A MARK on the far edge of a replacement stays right of it.
		if e.trueReplacement() && p == e.r1 {
			return e.r0 + e.n
		}
		return e.r0
	}
	// A POINT on the near edge of a replacement stays left of it.
	if e.trueReplacement() && p == e.r0 {
		return e.r0
	}
	return e.r0 + e.n
}

// Splice replaces [r0, r1) with rep[repFrom, repTo).
//
// Every marker boundary is re-anchored according to its role. Markers with
// policy ExclusiveExclusive that end up empty are detached. If rep carries
// markers (MarkedContent), those overlapping [repFrom, repTo) are copied in;
// rep itself is left untouched.
//
// Observers then receive, in order: moved/detached events for existing
// markers in attachment order, attached events for imported markers, and one
// TextChanged. A splice that neither removes nor inserts anything notifies
// nobody.
func (b *Buffer) Splice(r0, r1 int, rep Content, repFrom, repTo int) error {
	if rep == nil {
		return fmt.Errorf("splice [%d,%d): nil replacement: %w", r0, r1, engine.ErrInvalidArgument)
	}
	if err := b.checkRange(r0, r1); err != nil {
		return fmt.Errorf("splice: %w", err)
	}
	if repFrom < 0 || repFrom > repTo || repTo > rep.Len() {
		return fmt.Errorf("splice: replacement range [%d,%d) of %d: %w", repFrom, repTo, rep.Len(), engine.ErrOutOfRange)
	}

	for _, f := range b.filters {
		if out := f(rep, repFrom, repTo, b, r0, r1); out != nil {
			rep, repFrom, repTo = out, 0, out.Len()
		}
	}

	if r0 == r1 && repFrom == repTo {
		return nil
	}
	if b.maxDepth > 0 && b.disp.Depth() >= b.maxDepth {
		return fmt.Errorf("splice [%d,%d) at depth %d: %w", r0, r1, b.disp.Depth(), engine.ErrDepthExceeded)
	}

	depth := b.disp.Enter()
	defer b.disp.Leave()

	e := edit{r0: r0, r1: r1, n: repTo - repFrom}
	b.log.Debug("splice [%d,%d) with %d runes at depth %d", r0, r1, e.n, depth)

	// Read everything out of rep first: it may be this buffer.
	runes := append([]rune(nil), rep.Slice(repFrom, repTo)...)
	var carried []Marker
	if mc, ok := rep.(MarkedContent); ok && e.n > 0 {
		carried = mc.MarkersIn(repFrom, repTo)
	}

	if err := b.text.Splice(r0, r1, runes); err != nil {
		return err
	}
	b.revision++

	events := b.reanchorAll(e)
	events = append(events, b.importMarkers(e, carried, repFrom, repTo)...)
	events = append(events, notify.TextChanged(r0, r1-r0, e.n))

	// Marker state is committed; observers may now re-enter.
	b.disp.Deliver(events...)
	return nil
}

// reanchorAll moves every existing marker through e and returns the
// resulting moved/detached events in attachment order.
func (b *Buffer) reanchorAll(e edit) []notify.Event {
	var events []notify.Event
	kept := make([]*record, 0, len(b.records))

	for _, r := range b.records {
		oldStart, oldEnd := r.start, r.end
		start := e.reanchor(oldStart, r.policy.StartRole())
		end := e.reanchor(oldEnd, r.policy.EndRole())

		if r.policy.Roles() == ExclusiveExclusive && start >= end {
			untouched := oldStart == oldEnd && !e.touches(oldStart)
			if !untouched {
				delete(b.byTag, r.tag)
				events = append(events, notify.Detached(r.tag, oldStart, oldEnd))
				continue
			}
		}
		if end < start {
			end = start
		}

		r.start, r.end = start, end
		kept = append(kept, r)
		if start != oldStart || end != oldEnd {
			events = append(events, notify.Moved(r.tag, oldStart, oldEnd, start, end))
		}
	}

	b.records = kept
	return events
}

// importMarkers attaches copies of markers carried by the replacement.
// Tags already attached here are skipped, as are paragraph markers that do
// not land on paragraph boundaries.
func (b *Buffer) importMarkers(e edit, carried []Marker, repFrom, repTo int) []notify.Event {
	var events []notify.Event
	n := b.text.Len()

	for _, m := range carried {
		if _, ok := b.byTag[m.Tag]; ok {
			continue
		}
		start := min(max(max(m.Start, repFrom)-repFrom+e.r0, 0), n)
		end := min(max(min(m.End, repTo)-repFrom+e.r0, start), n)

		if m.Policy.IsParagraph() && !b.onParagraphBoundaries(start, end) {
			b.log.Debug("dropping paragraph marker %s at [%d,%d)", m.Tag, start, end)
			continue
		}

		b.appendRecord(&record{tag: m.Tag, start: start, end: end, policy: m.Policy})
		events = append(events, notify.Attached(m.Tag, start, end))
	}
	return events
}

// Insert inserts s at offset.
func (b *Buffer) Insert(offset int, s string) error {
	rep := String(s)
	return b.Splice(offset, offset, rep, 0, len(rep))
}

// Delete removes [start, end).
func (b *Buffer) Delete(start, end int) error {
	return b.Splice(start, end, Runes{}, 0, 0)
}

// Append adds s at the end.
func (b *Buffer) Append(s string) error {
	return b.Insert(b.Len(), s)
}

// Replace replaces [start, end) with s.
func (b *Buffer) Replace(start, end int, s string) error {
	rep := String(s)
	return b.Splice(start, end, rep, 0, len(rep))
}

// Copy returns a new buffer holding [start, end) together with copies of the
// markers overlapping it, clipped to the copied range. Observers are not
// copied.
func (b *Buffer) Copy(start, end int) (*Buffer, error) {
	if err := b.checkRange(start, end); err != nil {
		return nil, fmt.Errorf("copy: %w", err)
	}
	dst := New("", WithParagraphSeparators(b.paragraphSeps...), WithMaxDepth(b.maxDepth))
	dst.log = b.log
	if err := dst.Splice(0, 0, b, start, end); err != nil {
		return nil, err
	}
	return dst, nil
}
