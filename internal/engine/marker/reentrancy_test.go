package marker

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/dshills/spanbuf/internal/engine"
	"github.com/dshills/spanbuf/internal/engine/notify"
	"github.com/dshills/spanbuf/internal/engine/tag"
)

func TestReentrantSplicesNest(t *testing.T) {
	const n = 200
	b := New(strings.Repeat("a", n))
	var depths []int

	obs := notify.Funcs{
		OnTextChanged: func(start, oldLen, newLen int) {
			depth := b.Depth()
			depths = append(depths, depth)
			if depth < b.Len() {
				if err := b.Replace(depth, depth+1, "b"); err != nil {
					t.Errorf("nested replace at depth %d: %v", depth, err)
				}
			}
		},
	}
	if err := b.Register(tag.New("rewriter"), obs); err != nil {
		t.Fatal(err)
	}

	if err := b.Replace(0, 1, "b"); err != nil {
		t.Fatal(err)
	}

	if len(depths) != n {
		t.Fatalf("expected %d notifications, got %d", n, len(depths))
	}
	for i, d := range depths {
		if d != i+1 {
			t.Fatalf("notification %d saw depth %d", i, d)
		}
	}
	if b.Text() != strings.Repeat("b", n) {
		t.Errorf("unexpected text %q", b.Text())
	}
	if b.Depth() != 0 {
		t.Errorf("depth should return to 0, got %d", b.Depth())
	}
}

func TestObserversSeeCommittedState(t *testing.T) {
	b := New("0123456789")
	m := tag.New("m")
	mustAttach(t, b, m, 2, 4, InclusiveInclusive)

	var seen [3]int
	obs := notify.Funcs{
		OnMoved: func(_ tag.Tag, _, _, _, _ int) {
			s, e, _ := b.RangeOf(m)
			seen = [3]int{s, e, b.Len()}
		},
	}
	if err := b.Register(tag.New("watch"), obs); err != nil {
		t.Fatal(err)
	}

	if err := b.Insert(0, "xyz"); err != nil {
		t.Fatal(err)
	}
	if seen != [3]int{5, 7, 13} {
		t.Errorf("observer saw %v", seen)
	}
}

func TestNestedSpliceEventsFollowOuterDelivery(t *testing.T) {
	b := New("0123456789")
	m := tag.New("m")
	mustAttach(t, b, m, 5, 6, InclusiveExclusive)

	// The first observer edits inside its callback, so the nested events
	// reach the second observer before the outer TextChanged does.
	var second []notify.Event
	fired := false
	editor := notify.Funcs{
		OnTextChanged: func(start, oldLen, newLen int) {
			if fired {
				return
			}
			fired = true
			if err := b.Insert(0, "!"); err != nil {
				t.Error(err)
			}
		},
	}
	rec := notify.Funcs{
		OnMoved: func(tg tag.Tag, os, oe, ns, ne int) {
			second = append(second, notify.Moved(tg, os, oe, ns, ne))
		},
		OnTextChanged: func(start, oldLen, newLen int) {
			second = append(second, notify.TextChanged(start, oldLen, newLen))
		},
	}
	if err := b.Register(tag.New("editor"), editor); err != nil {
		t.Fatal(err)
	}
	if err := b.Register(tag.New("rec"), rec); err != nil {
		t.Fatal(err)
	}

	if err := b.Insert(9, "z"); err != nil {
		t.Fatal(err)
	}

	want := []notify.Event{
		notify.Moved(m, 5, 6, 6, 7),
		notify.TextChanged(0, 0, 1),
		notify.TextChanged(9, 0, 1),
	}
	if !slices.Equal(second, want) {
		t.Errorf("expected %v, got %v", want, second)
	}
	if b.Text() != "!012345678z9" {
		t.Errorf("unexpected text %q", b.Text())
	}
}

func TestMaxDepth(t *testing.T) {
	b := New(strings.Repeat("a", 10), WithMaxDepth(3))
	var errs []error

	obs := notify.Funcs{
		OnTextChanged: func(start, oldLen, newLen int) {
			errs = append(errs, b.Replace(0, 1, "b"))
		},
	}
	if err := b.Register(tag.New("loop"), obs); err != nil {
		t.Fatal(err)
	}

	if err := b.Replace(0, 1, "b"); err != nil {
		t.Fatal(err)
	}

	if len(errs) != 3 {
		t.Fatalf("expected 3 nested attempts, got %d: %v", len(errs), errs)
	}
	// Innermost attempt returns first.
	if !errors.Is(errs[0], engine.ErrDepthExceeded) {
		t.Errorf("expected ErrDepthExceeded, got %v", errs[0])
	}
	if errs[1] != nil || errs[2] != nil {
		t.Errorf("splices within the limit failed: %v", errs)
	}
	if b.Depth() != 0 {
		t.Errorf("depth should return to 0, got %d", b.Depth())
	}
}

func TestPanickingObserverDoesNotBreakSplice(t *testing.T) {
	var panics []any
	b := New("abc", WithPanicHandler(func(ev notify.Event, v any, _ []byte) {
		panics = append(panics, v)
	}))
	if err := b.Register(tag.New("bad"), notify.Funcs{
		OnTextChanged: func(int, int, int) { panic("boom") },
	}); err != nil {
		t.Fatal(err)
	}
	log := observe(t, b)

	if err := b.Append("d"); err != nil {
		t.Fatal(err)
	}

	if b.Text() != "abcd" || b.Depth() != 0 {
		t.Errorf("unexpected state %q depth %d", b.Text(), b.Depth())
	}
	if len(panics) != 1 || panics[0] != "boom" {
		t.Errorf("unexpected panics %v", panics)
	}
	if len(log.events) != 1 {
		t.Errorf("later observers should still be notified, got %v", log.events)
	}
	if st := b.DispatchStats(); st.Panicked != 1 {
		t.Errorf("expected 1 panic in stats, got %d", st.Panicked)
	}
}
