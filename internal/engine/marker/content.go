package marker

import "github.com/dshills/spanbuf/internal/engine/tag"

// Content is the replacement source of a splice.
// Slice is only called with 0 <= start <= end <= Len().
type Content interface {
	Len() int
	Slice(start, end int) []rune
}

// Marker is a read-only copy of one marker record.
type Marker struct {
	Tag    tag.Tag
	Start  int
	End    int
	Policy Policy
}

// MarkedContent is replacement content that carries markers of its own.
// Markers overlapping the copied range are imported by Splice.
type MarkedContent interface {
	Content
	// MarkersIn returns the markers overlapping [start, end) in attachment order.
	MarkersIn(start, end int) []Marker
}

// Runes is plain replacement content.
type Runes []rune

// String returns s as Content.
func String(s string) Runes {
	return Runes(s)
}

// Len returns the number of runes.
func (r Runes) Len() int {
	return len(r)
}

// Slice returns r[start:end] without copying.
func (r Runes) Slice(start, end int) []rune {
	return r[start:end]
}

// Sub returns the [from, to) window of c. Markers of a MarkedContent remain
// visible through the window, shifted and clipped to it.
func Sub(c Content, from, to int) Content {
	if mc, ok := c.(MarkedContent); ok {
		return markedWindow{window{c, from, to}, mc}
	}
	return window{c, from, to}
}

type window struct {
	c        Content
	from, to int
}

func (w window) Len() int {
	return w.to - w.from
}

func (w window) Slice(start, end int) []rune {
	return w.c.Slice(w.from+start, w.from+end)
}

type markedWindow struct {
	window
	mc MarkedContent
}

func (w markedWindow) MarkersIn(start, end int) []Marker {
	ms := w.mc.MarkersIn(w.from+start, w.from+end)
	for i := range ms {
		ms[i].Start = min(max(ms[i].Start, w.from), w.to) - w.from
		ms[i].End = min(max(ms[i].End, w.from), w.to) - w.from
	}
	return ms
}
