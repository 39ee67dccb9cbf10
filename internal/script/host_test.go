package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/spanbuf/internal/engine/geometry"
	"github.com/dshills/spanbuf/internal/engine/marker"
	"github.com/dshills/spanbuf/internal/engine/selection"
	"github.com/dshills/spanbuf/internal/engine/tag"
)

type fixture struct {
	buf  *marker.Buffer
	sel  *selection.Selection
	host *Host
	out  *bytes.Buffer
}

func newFixture(t *testing.T, text string, opts ...Option) *fixture {
	t.Helper()
	buf := marker.New(text)
	geom := geometry.New(buf)
	sel, err := selection.New(buf, geom)
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	host, err := New(buf, sel, geom, append([]Option{WithOutput(out)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { host.Close() })
	return &fixture{buf: buf, sel: sel, host: host, out: out}
}

func (f *fixture) run(t *testing.T, code string) {
	t.Helper()
	if err := f.host.Run(context.Background(), code); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func (f *fixture) output() string {
	return strings.TrimSpace(f.out.String())
}

func TestNewRequiresBuffer(t *testing.T) {
	if _, err := New(nil, nil, nil); err == nil {
		t.Error("expected an error for a nil buffer")
	}
}

func TestEditing(t *testing.T) {
	f := newFixture(t, "hello")
	f.run(t, `
buf.append(" world")
buf.insert(0, ">")
buf.replace(1, 2, "J")
buf.delete(0, 1)
print(buf.text(), buf.len(), buf.slice(0, 5), buf.revision())
`)
	if got := f.output(); got != "Jello world\t11\tJello\t4" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestEditErrorsRaise(t *testing.T) {
	f := newFixture(t, "abc")
	err := f.host.Run(context.Background(), `buf.insert(10, "x")`)
	if err == nil || !strings.Contains(err.Error(), "insert") {
		t.Errorf("expected an insert error, got %v", err)
	}

	f.run(t, `
local ok, msg = pcall(buf.delete, 2, 9)
print(ok)
`)
	if f.output() != "false" {
		t.Errorf("pcall should catch the error, got %q", f.output())
	}
}

func TestMarkers(t *testing.T) {
	f := newFixture(t, "0123456789")
	f.run(t, `
buf.attach("bold:1", 2, 5)
buf.attach("bold:2", 6, 8, "EXCLUSIVE_EXCLUSIVE|PRIORITY")
buf.attach("link", 0, 10, "INCLUSIVE_INCLUSIVE")
buf.insert(0, "xx")
local s, e = buf.range("bold:1")
print(s, e, buf.policy("bold:2"))
print(table.concat(buf.query(0, buf.len()), ","))
print(table.concat(buf.query(0, buf.len(), "bold"), ","))
print(buf.next_transition(0, buf.len(), "bold"))
buf.detach("link")
print(#buf.markers(), buf.range("link"), buf.range("missing"))
buf.move("bold:1", 0, 1)
print(buf.range("bold:1"))
print(pcall(buf.move, "link", 0, 1))
`)
	want := strings.Join([]string{
		"4\t7\tEXCLUSIVE_EXCLUSIVE|PRIORITY",
		"bold:2,bold:1,link",
		"bold:2,bold:1",
		"4",
		"2\tnil\tnil",
		"0\t1",
	}, "\n")
	got := f.output()
	last := strings.LastIndex(got, "\n")
	if got[:last] != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
	if !strings.HasPrefix(got[last+1:], "false") || !strings.Contains(got[last+1:], "not found") {
		t.Errorf("moving a detached marker should fail, got %q", got[last+1:])
	}

	tags := f.buf.Query(0, f.buf.Len(), "bold")
	if len(tags) != 2 {
		t.Errorf("expected two bold markers on the buffer, got %v", tags)
	}
}

func TestAttachBadPolicy(t *testing.T) {
	f := newFixture(t, "abc")
	if err := f.host.Run(context.Background(), `buf.attach("x", 0, 1, "SOMETIMES")`); err == nil {
		t.Error("expected an error for an unknown policy")
	}
}

func TestForeignMarkersUseTagNames(t *testing.T) {
	f := newFixture(t, "abc")
	t1 := tag.New("go")
	if err := f.buf.Attach(t1, 0, 1, marker.InclusiveExclusive); err != nil {
		t.Fatal(err)
	}
	f.run(t, `print(buf.query(0, 3, "go")[1])`)
	if f.output() != t1.String() {
		t.Errorf("expected %q, got %q", t1.String(), f.output())
	}
}

func TestObserver(t *testing.T) {
	f := newFixture(t, "abc")
	f.run(t, `
events = {}
id = buf.observe(function(ev)
  if ev.kind == "text" then
    table.insert(events, string.format("text %d -%d +%d", ev.start, ev.old_len, ev.new_len))
  elseif ev.kind == "moved" then
    table.insert(events, string.format("moved %s [%d,%d)->[%d,%d)", ev.name, ev.old_start, ev.old_end, ev.start, ev["end"]))
  else
    table.insert(events, string.format("%s %s [%d,%d)", ev.kind, ev.name, ev.start, ev["end"]))
  end
end)
buf.attach("m", 1, 2)
buf.insert(0, "zz")
buf.detach("m")
print(buf.unobserve(id), buf.unobserve(id))
buf.insert(0, "q")
print(table.concat(events, "; "))
`)
	want := "true\tfalse\n" +
		"attached m [1,2); moved m [1,2)->[3,4); text 0 -0 +2; detached m [3,4)"
	if got := f.output(); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestReentrantObserver(t *testing.T) {
	f := newFixture(t, "aaaa")
	f.run(t, `
depths = {}
buf.observe(function(ev)
  if ev.kind ~= "text" then return end
  local d = buf.depth()
  table.insert(depths, d)
  if d < buf.len() then
    buf.replace(d, d + 1, "b")
  end
end)
buf.replace(0, 1, "b")
print(buf.text(), table.concat(depths, ","))
`)
	if got := f.output(); got != "bbbb\t1,2,3,4" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestObserverErrorsAreCounted(t *testing.T) {
	f := newFixture(t, "abc")
	f.run(t, `
buf.observe(function(ev) error("boom") end)
buf.append("d")
print(buf.text())
`)
	if f.output() != "abcd" {
		t.Errorf("edit should complete despite the failing observer, got %q", f.output())
	}
	if f.host.Failures() != 1 {
		t.Errorf("expected 1 failure, got %d", f.host.Failures())
	}
}

func TestSelectionModule(t *testing.T) {
	f := newFixture(t, "abcdef\nab\nabcdef")
	f.run(t, `
print(sel.state(), sel.anchor())
sel.set(5, 5)
print(sel.move_down(), sel.cursor())
print(sel.move_down(), sel.cursor())
sel.set(6, 8)
print(sel.state(), sel.bounds())
print(sel.move_left(), sel.cursor())
print(sel.extend_right(), sel.extend_to_right_edge(), sel.bounds())
print(sel.select_all(), sel.bounds())
print(sel.remove(), sel.state(), sel.bounds())
`)
	want := strings.Join([]string{
		"none\tnil",
		"true\t9",
		"true\t15",
		"range\t6\t8",
		"true\t6",
		"true\ttrue\t6\t9",
		"true\t0\t16",
		"true\tnone\tnil",
	}, "\n")
	if got := f.output(); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestGeometryModule(t *testing.T) {
	f := newFixture(t, "ab\n\tcd")
	f.run(t, `
print(geom.line_of(4), geom.line_start(1), geom.line_end(1))
print(geom.column_of(5), geom.offset_for_column(1, 5))
`)
	if got := f.output(); got != "1\t3\t6\n5\t5" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestRunFile(t *testing.T) {
	f := newFixture(t, "")
	path := filepath.Join(t.TempDir(), "edit.lua")
	if err := os.WriteFile(path, []byte(`buf.append("from file")`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := f.host.RunFile(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if f.buf.Text() != "from file" {
		t.Errorf("unexpected text %q", f.buf.Text())
	}
}

func TestTimeout(t *testing.T) {
	f := newFixture(t, "", WithTimeout(50*time.Millisecond))
	if err := f.host.Run(context.Background(), `while true do end`); err == nil {
		t.Error("expected the infinite loop to be interrupted")
	}
}

func TestClose(t *testing.T) {
	f := newFixture(t, "abc")
	f.run(t, `buf.observe(function(ev) end)`)
	if f.buf.DispatchStats().Observers != 2 {
		t.Fatalf("expected selection and script observers, got %d", f.buf.DispatchStats().Observers)
	}

	if err := f.host.Close(); err != nil {
		t.Fatal(err)
	}
	if f.buf.DispatchStats().Observers != 1 {
		t.Errorf("close should unregister script observers, got %d", f.buf.DispatchStats().Observers)
	}
	if err := f.host.Run(context.Background(), `print(1)`); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
