package notify

import "github.com/dshills/spanbuf/internal/engine/tag"

// Observer receives marker lifecycle and text change notifications.
type Observer interface {
	MarkerAttached(t tag.Tag, start, end int)
	MarkerDetached(t tag.Tag, start, end int)
	MarkerMoved(t tag.Tag, oldStart, oldEnd, newStart, newEnd int)
	TextChanged(start, oldLen, newLen int)
}

// Funcs adapts plain functions to Observer. Nil fields are skipped.
type Funcs struct {
	OnAttached    func(t tag.Tag, start, end int)
	OnDetached    func(t tag.Tag, start, end int)
	OnMoved       func(t tag.Tag, oldStart, oldEnd, newStart, newEnd int)
	OnTextChanged func(start, oldLen, newLen int)
}

// MarkerAttached calls OnAttached.
func (f Funcs) MarkerAttached(t tag.Tag, start, end int) {
	if f.OnAttached != nil {
		f.OnAttached(t, start, end)
	}
}

// MarkerDetached calls OnDetached.
func (f Funcs) MarkerDetached(t tag.Tag, start, end int) {
	if f.OnDetached != nil {
		f.OnDetached(t, start, end)
	}
}

// MarkerMoved calls OnMoved.
func (f Funcs) MarkerMoved(t tag.Tag, oldStart, oldEnd, newStart, newEnd int) {
	if f.OnMoved != nil {
		f.OnMoved(t, oldStart, oldEnd, newStart, newEnd)
	}
}

// TextChanged calls OnTextChanged.
func (f Funcs) TextChanged(start, oldLen, newLen int) {
	if f.OnTextChanged != nil {
		f.OnTextChanged(start, oldLen, newLen)
	}
}
