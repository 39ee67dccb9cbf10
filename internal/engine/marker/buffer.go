package marker

import (
	"fmt"
	"slices"

	"github.com/dshills/spanbuf/internal/engine"
	"github.com/dshills/spanbuf/internal/engine/notify"
	"github.com/dshills/spanbuf/internal/engine/tag"
	"github.com/dshills/spanbuf/internal/engine/textstore"
	"github.com/dshills/spanbuf/internal/logging"
)

type record struct {
	tag    tag.Tag
	start  int
	end    int
	policy Policy
}

func (r *record) snapshot() Marker {
	return Marker{Tag: r.tag, Start: r.start, End: r.end, Policy: r.policy}
}

// Buffer is a mutable rune sequence carrying markers.
//
// All text mutation goes through Splice, which re-anchors every marker,
// imports markers carried by the replacement and then notifies observers.
// A Buffer is not safe for concurrent use, but observers may call back into
// it from inside a notification.
type Buffer struct {
	text     *textstore.Store
	records  []*record // attachment order
	byTag    map[tag.Tag]*record
	disp     *notify.Dispatcher
	revision uint64

	log           *logging.Logger
	dispOpts      []notify.Option
	maxDepth      int
	paragraphSeps []rune
	filters       []Filter
}

// New creates a buffer holding text.
func New(text string, opts ...Option) *Buffer {
	b := &Buffer{
		text:          textstore.New(text),
		byTag:         make(map[tag.Tag]*record),
		log:           logging.Nop(),
		paragraphSeps: []rune{'\n'},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.disp = notify.NewDispatcher(b.dispOpts...)
	return b
}

// Text access

// Len returns the number of runes in the buffer.
func (b *Buffer) Len() int {
	return b.text.Len()
}

// Text returns the full content.
func (b *Buffer) Text() string {
	return b.text.String()
}

// At returns the rune at offset i, or 0 when i is out of range.
func (b *Buffer) At(i int) rune {
	return b.text.At(i)
}

// Slice returns a copy of the runes in [start, end), or nil for an invalid range.
func (b *Buffer) Slice(start, end int) []rune {
	r, err := b.text.Slice(start, end)
	if err != nil {
		return nil
	}
	return r
}

// TextRange returns the text in [start, end).
func (b *Buffer) TextRange(start, end int) (string, error) {
	r, err := b.text.Slice(start, end)
	if err != nil {
		return "", err
	}
	return string(r), nil
}

// Revision increases on every splice that changes the text.
func (b *Buffer) Revision() uint64 {
	return b.revision
}

// Markers

// Attach attaches t to [start, end) with the given policy. Attaching a tag
// that is already attached updates its range and policy in place; it keeps
// its position in query order.
func (b *Buffer) Attach(t tag.Tag, start, end int, policy Policy) error {
	if t.IsZero() {
		return fmt.Errorf("attach: zero tag: %w", engine.ErrInvalidArgument)
	}
	if !policy.Valid() {
		return fmt.Errorf("attach %s: policy %#x: %w", t, uint16(policy), engine.ErrInvalidArgument)
	}
	if err := b.checkRange(start, end); err != nil {
		return fmt.Errorf("attach %s: %w", t, err)
	}
	if policy.IsParagraph() && !b.onParagraphBoundaries(start, end) {
		return fmt.Errorf("attach %s: [%d,%d) is not on paragraph boundaries: %w", t, start, end, engine.ErrInvalidArgument)
	}

	if r, ok := b.byTag[t]; ok {
		oldStart, oldEnd := r.start, r.end
		r.start, r.end, r.policy = start, end, policy
		if oldStart != start || oldEnd != end {
			b.disp.Deliver(notify.Moved(t, oldStart, oldEnd, start, end))
		}
		return nil
	}

	b.appendRecord(&record{tag: t, start: start, end: end, policy: policy})
	b.disp.Deliver(notify.Attached(t, start, end))
	return nil
}

// Move changes the range of an attached marker, keeping its policy.
func (b *Buffer) Move(t tag.Tag, start, end int) error {
	r, ok := b.byTag[t]
	if !ok {
		return fmt.Errorf("move %s: %w", t, engine.ErrNotFound)
	}
	return b.Attach(t, start, end, r.policy)
}

// Detach removes t. Detaching an absent tag does nothing.
func (b *Buffer) Detach(t tag.Tag) {
	r, ok := b.byTag[t]
	if !ok {
		return
	}
	b.removeRecord(r)
	b.disp.Deliver(notify.Detached(t, r.start, r.end))
}

// DetachAll removes every marker, notifying in attachment order.
func (b *Buffer) DetachAll() {
	if len(b.records) == 0 {
		return
	}
	events := make([]notify.Event, 0, len(b.records))
	for _, r := range b.records {
		events = append(events, notify.Detached(r.tag, r.start, r.end))
	}
	b.records = nil
	clear(b.byTag)
	b.disp.Deliver(events...)
}

// RangeOf returns the range of t. ok is false when t is not attached.
func (b *Buffer) RangeOf(t tag.Tag) (start, end int, ok bool) {
	r, ok := b.byTag[t]
	if !ok {
		return -1, -1, false
	}
	return r.start, r.end, true
}

// Start returns the start of t, or -1.
func (b *Buffer) Start(t tag.Tag) int {
	start, _, _ := b.RangeOf(t)
	return start
}

// End returns the end of t, or -1.
func (b *Buffer) End(t tag.Tag) int {
	_, end, _ := b.RangeOf(t)
	return end
}

// PolicyOf returns the policy of t, or 0 when t is not attached.
func (b *Buffer) PolicyOf(t tag.Tag) Policy {
	if r, ok := b.byTag[t]; ok {
		return r.policy
	}
	return 0
}

// Attached reports whether t is attached.
func (b *Buffer) Attached(t tag.Tag) bool {
	_, ok := b.byTag[t]
	return ok
}

// Markers returns every marker in attachment order.
func (b *Buffer) Markers() []Marker {
	out := make([]Marker, len(b.records))
	for i, r := range b.records {
		out[i] = r.snapshot()
	}
	return out
}

// MarkersIn returns the markers overlapping [start, end) in attachment order.
func (b *Buffer) MarkersIn(start, end int) []Marker {
	var out []Marker
	for _, r := range b.records {
		if overlaps(r.start, r.end, start, end) {
			out = append(out, r.snapshot())
		}
	}
	return out
}

// Query returns the tags of kind overlapping [start, end): priority markers
// first, then the rest, each group in attachment order. A range with
// start > end matches nothing.
//
// A marker [s, e) overlaps [start, end) when s <= end and e >= start, except
// that two non-empty ranges that merely touch do not overlap. Zero-width
// markers therefore match at either edge of the query.
func (b *Buffer) Query(start, end int, kind tag.Kind) []tag.Tag {
	if start > end {
		return nil
	}
	var prio, rest []tag.Tag
	for _, r := range b.records {
		if !r.tag.Matches(kind) || !overlaps(r.start, r.end, start, end) {
			continue
		}
		if r.policy.IsPriority() {
			prio = append(prio, r.tag)
		} else {
			rest = append(rest, r.tag)
		}
	}
	return append(prio, rest...)
}

// NextTransition returns the first marker boundary of kind greater than
// start and less than end, or end when there is none.
func (b *Buffer) NextTransition(start, end int, kind tag.Kind) int {
	if start >= end {
		return end
	}
	limit := end
	for _, r := range b.records {
		if !r.tag.Matches(kind) {
			continue
		}
		if r.start > start && r.start < limit {
			limit = r.start
		}
		if r.end > start && r.end < limit {
			limit = r.end
		}
	}
	return limit
}

// Observers

// Register adds obs under id. See notify.Dispatcher.Register.
func (b *Buffer) Register(id tag.Tag, obs notify.Observer) error {
	return b.disp.Register(id, obs)
}

// Unregister removes the observer registered under id.
func (b *Buffer) Unregister(id tag.Tag) error {
	return b.disp.Unregister(id)
}

// Depth returns the number of splices in flight. Inside an observer callback
// triggered by a splice it is at least 1.
func (b *Buffer) Depth() int {
	return b.disp.Depth()
}

// DispatchStats returns the dispatcher's delivery counters.
func (b *Buffer) DispatchStats() notify.Stats {
	return b.disp.Stats()
}

// Helpers

func (b *Buffer) checkRange(start, end int) error {
	if start < 0 || start > end || end > b.text.Len() {
		return fmt.Errorf("range [%d,%d) in buffer of length %d: %w", start, end, b.text.Len(), engine.ErrOutOfRange)
	}
	return nil
}

func (b *Buffer) appendRecord(r *record) {
	b.records = append(b.records, r)
	b.byTag[r.tag] = r
}

func (b *Buffer) removeRecord(r *record) {
	delete(b.byTag, r.tag)
	if i := slices.Index(b.records, r); i >= 0 {
		b.records = slices.Delete(b.records, i, i+1)
	}
}

func (b *Buffer) isParagraphSeparator(c rune) bool {
	return slices.Contains(b.paragraphSeps, c)
}

// onParagraphBoundaries reports whether start is 0 or follows a separator,
// and end is the buffer length or sits on a separator.
func (b *Buffer) onParagraphBoundaries(start, end int) bool {
	n := b.text.Len()
	if start != 0 && !b.isParagraphSeparator(b.text.At(start-1)) {
		return false
	}
	return end == n || b.isParagraphSeparator(b.text.At(end))
}

func overlaps(s, e, qs, qe int) bool {
	if s > qe || e < qs {
		return false
	}
	if s != e && qs != qe && (s == qe || e == qs) {
		return false
	}
	return true
}
