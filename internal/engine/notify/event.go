package notify

import (
	"fmt"

	"github.com/dshills/spanbuf/internal/engine/tag"
)

// Kind identifies the notification carried by an Event.
type Kind uint8

const (
	// KindAttached reports a marker attached by Attach or imported by a splice.
	KindAttached Kind = iota + 1
	// KindDetached reports a marker removed by Detach or a zero-width collapse.
	KindDetached
	// KindMoved reports a marker whose range changed in a splice.
	KindMoved
	// KindTextChanged reports the text edit itself, once per splice.
	KindTextChanged
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAttached:
		return "attached"
	case KindDetached:
		return "detached"
	case KindMoved:
		return "moved"
	case KindTextChanged:
		return "textChanged"
	default:
		return "unknown"
	}
}

// Event is one pending notification.
//
// For KindTextChanged, Start is the edit offset and OldLen/NewLen the lengths
// of the removed and inserted text. For marker events Start/End is the
// marker's range (the new range for KindMoved, the last range for
// KindDetached) and OldStart/OldEnd the range before a move.
type Event struct {
	Kind     Kind
	Tag      tag.Tag
	Start    int
	End      int
	OldStart int
	OldEnd   int
	OldLen   int
	NewLen   int
}

// Attached builds a KindAttached event.
func Attached(t tag.Tag, start, end int) Event {
	return Event{Kind: KindAttached, Tag: t, Start: start, End: end}
}

// Detached builds a KindDetached event.
func Detached(t tag.Tag, start, end int) Event {
	return Event{Kind: KindDetached, Tag: t, Start: start, End: end}
}

// Moved builds a KindMoved event.
func Moved(t tag.Tag, oldStart, oldEnd, newStart, newEnd int) Event {
	return Event{Kind: KindMoved, Tag: t, OldStart: oldStart, OldEnd: oldEnd, Start: newStart, End: newEnd}
}

// TextChanged builds a KindTextChanged event.
func TextChanged(start, oldLen, newLen int) Event {
	return Event{Kind: KindTextChanged, Start: start, OldLen: oldLen, NewLen: newLen}
}

// String returns a compact description, e.g. "moved(bold#1b4e28ba [2,4)->[5,7))".
func (e Event) String() string {
	switch e.Kind {
	case KindAttached, KindDetached:
		return fmt.Sprintf("%s(%s [%d,%d))", e.Kind, e.Tag, e.Start, e.End)
	case KindMoved:
		return fmt.Sprintf("moved(%s [%d,%d)->[%d,%d))", e.Tag, e.OldStart, e.OldEnd, e.Start, e.End)
	case KindTextChanged:
		return fmt.Sprintf("textChanged(%d,-%d,+%d)", e.Start, e.OldLen, e.NewLen)
	default:
		return "unknown"
	}
}

// DeliverTo calls the Observer method matching the event kind.
func (e Event) DeliverTo(o Observer) {
	switch e.Kind {
	case KindAttached:
		o.MarkerAttached(e.Tag, e.Start, e.End)
	case KindDetached:
		o.MarkerDetached(e.Tag, e.Start, e.End)
	case KindMoved:
		o.MarkerMoved(e.Tag, e.OldStart, e.OldEnd, e.Start, e.End)
	case KindTextChanged:
		o.TextChanged(e.Start, e.OldLen, e.NewLen)
	}
}
