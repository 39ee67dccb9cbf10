package notify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dshills/spanbuf/internal/engine"
	"github.com/dshills/spanbuf/internal/engine/tag"
)

// recorder is an Observer that logs every call as a string.
type recorder struct {
	name string
	log  *[]string
}

func (r recorder) MarkerAttached(t tag.Tag, start, end int) {
	*r.log = append(*r.log, fmt.Sprintf("%s:attached %d %d", r.name, start, end))
}

func (r recorder) MarkerDetached(t tag.Tag, start, end int) {
	*r.log = append(*r.log, fmt.Sprintf("%s:detached %d %d", r.name, start, end))
}

func (r recorder) MarkerMoved(t tag.Tag, os, oe, ns, ne int) {
	*r.log = append(*r.log, fmt.Sprintf("%s:moved %d %d %d %d", r.name, os, oe, ns, ne))
}

func (r recorder) TextChanged(start, oldLen, newLen int) {
	*r.log = append(*r.log, fmt.Sprintf("%s:text %d %d %d", r.name, start, oldLen, newLen))
}

func TestDeliverOrder(t *testing.T) {
	var log []string
	d := NewDispatcher()
	if err := d.Register(tag.New("obs"), recorder{"a", &log}); err != nil {
		t.Fatal(err)
	}
	if err := d.Register(tag.New("obs"), recorder{"b", &log}); err != nil {
		t.Fatal(err)
	}

	m := tag.New("m")
	d.Deliver(Moved(m, 1, 2, 3, 4), Attached(m, 0, 1), TextChanged(0, 1, 2))

	want := []string{
		"a:moved 1 2 3 4", "b:moved 1 2 3 4",
		"a:attached 0 1", "b:attached 0 1",
		"a:text 0 1 2", "b:text 0 1 2",
	}
	if fmt.Sprint(log) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, log)
	}
}

func TestRegisterErrors(t *testing.T) {
	d := NewDispatcher()

	if err := d.Register(tag.Tag{}, Funcs{}); !errors.Is(err, engine.ErrInvalidArgument) {
		t.Errorf("zero tag: expected ErrInvalidArgument, got %v", err)
	}
	if err := d.Register(tag.New("x"), nil); !errors.Is(err, engine.ErrInvalidArgument) {
		t.Errorf("nil observer: expected ErrInvalidArgument, got %v", err)
	}
	if err := d.Unregister(tag.New("x")); !errors.Is(err, engine.ErrInvalidArgument) {
		t.Errorf("unknown observer: expected ErrInvalidArgument, got %v", err)
	}
}

func TestReRegisterKeepsPosition(t *testing.T) {
	var log []string
	d := NewDispatcher()
	first, second := tag.New("o"), tag.New("o")
	_ = d.Register(first, recorder{"a", &log})
	_ = d.Register(second, recorder{"b", &log})
	_ = d.Register(first, recorder{"c", &log})

	d.Deliver(TextChanged(0, 0, 1))

	want := []string{"c:text 0 0 1", "b:text 0 0 1"}
	if fmt.Sprint(log) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, log)
	}
	if d.Len() != 2 {
		t.Errorf("expected 2 observers, got %d", d.Len())
	}
}

func TestUnregisterDuringDelivery(t *testing.T) {
	var log []string
	d := NewDispatcher()
	a, b := tag.New("o"), tag.New("o")

	_ = d.Register(a, Funcs{OnTextChanged: func(start, _, _ int) {
		log = append(log, fmt.Sprintf("a %d", start))
		if d.Registered(b) {
			_ = d.Unregister(b)
		}
	}})
	_ = d.Register(b, recorder{"b", &log})

	d.Deliver(TextChanged(1, 0, 0), TextChanged(2, 0, 0))

	want := []string{"a 1", "a 2"}
	if fmt.Sprint(log) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, log)
	}
}

func TestRegisterDuringDelivery(t *testing.T) {
	var log []string
	d := NewDispatcher()
	late := tag.New("late")

	_ = d.Register(tag.New("o"), Funcs{OnTextChanged: func(int, int, int) {
		_ = d.Register(late, recorder{"late", &log})
	}})

	d.Deliver(TextChanged(0, 0, 1))
	if len(log) != 0 {
		t.Errorf("observer registered mid-delivery should not see that delivery, got %v", log)
	}

	d.Deliver(TextChanged(0, 0, 1))
	if len(log) != 1 {
		t.Errorf("expected late observer to see the next delivery, got %v", log)
	}
}

func TestPanicRecovery(t *testing.T) {
	var log []string
	var recovered []any
	d := NewDispatcher(WithPanicHandler(func(ev Event, value any, _ []byte) {
		recovered = append(recovered, value)
	}))

	_ = d.Register(tag.New("bad"), Funcs{OnTextChanged: func(int, int, int) { panic("boom") }})
	_ = d.Register(tag.New("good"), recorder{"good", &log})

	d.Deliver(TextChanged(0, 0, 1))

	if len(recovered) != 1 || recovered[0] != "boom" {
		t.Errorf("expected one recovered panic, got %v", recovered)
	}
	if len(log) != 1 {
		t.Errorf("later observers should still be notified, got %v", log)
	}
	if s := d.Stats(); s.Panicked != 1 || s.Delivered != 2 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestDepth(t *testing.T) {
	d := NewDispatcher()
	if d.Depth() != 0 {
		t.Fatalf("expected depth 0, got %d", d.Depth())
	}
	if d.Enter() != 1 || d.Enter() != 2 {
		t.Fatal("Enter should return the new depth")
	}
	d.Leave()
	d.Leave()
	d.Leave()
	if d.Depth() != 0 {
		t.Errorf("depth should not go negative, got %d", d.Depth())
	}
}

func TestEventString(t *testing.T) {
	if got := TextChanged(3, 1, 2).String(); got != "textChanged(3,-1,+2)" {
		t.Errorf("unexpected %q", got)
	}
	if KindMoved.String() != "moved" || Kind(0).String() != "unknown" {
		t.Error("unexpected kind names")
	}
}
