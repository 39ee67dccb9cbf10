package geometry

import "testing"

// text is a minimal Source whose revision changes on every set.
type text struct {
	runes []rune
	rev   uint64
}

func newText(s string) *text {
	return &text{runes: []rune(s)}
}

func (t *text) set(s string) {
	t.runes = []rune(s)
	t.rev++
}

func (t *text) Len() int                    { return len(t.runes) }
func (t *text) Slice(start, end int) []rune { return t.runes[start:end] }
func (t *text) Revision() uint64            { return t.rev }

func TestLines(t *testing.T) {
	l := New(newText("ab\ncde\n\nf"))

	if n := l.LineCount(); n != 4 {
		t.Fatalf("expected 4 lines, got %d", n)
	}

	tests := []struct {
		line       int
		start, end int
	}{
		{0, 0, 2},
		{1, 3, 6},
		{2, 7, 7},
		{3, 8, 9},
		{-1, 0, 2},
		{9, 8, 9},
	}
	for _, tt := range tests {
		if s, e := l.LineStart(tt.line), l.LineEnd(tt.line); s != tt.start || e != tt.end {
			t.Errorf("line %d: expected [%d,%d], got [%d,%d]", tt.line, tt.start, tt.end, s, e)
		}
	}

	offsets := map[int]int{0: 0, 2: 0, 3: 1, 6: 1, 7: 2, 8: 3, 9: 3, -5: 0, 42: 3}
	for off, want := range offsets {
		if got := l.LineOf(off); got != want {
			t.Errorf("LineOf(%d) = %d, want %d", off, got, want)
		}
	}
}

func TestTrailingNewline(t *testing.T) {
	l := New(newText("ab\n"))

	if l.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", l.LineCount())
	}
	if l.LineOf(3) != 1 || l.LineStart(1) != 3 || l.LineEnd(1) != 3 {
		t.Error("text ending in a newline should have an empty last line")
	}
}

func TestEmptySource(t *testing.T) {
	l := New(newText(""))

	if l.LineCount() != 1 || l.LineOf(0) != 0 || l.LineStart(0) != 0 || l.LineEnd(0) != 0 {
		t.Error("empty text should have one empty line")
	}
	if l.ColumnOf(0) != 0 || l.OffsetForColumn(0, 5) != 0 {
		t.Error("empty line should have no columns")
	}
}

func TestIndexFollowsRevision(t *testing.T) {
	src := newText("one line")
	l := New(src)
	if l.LineCount() != 1 {
		t.Fatalf("expected 1 line, got %d", l.LineCount())
	}

	src.set("a\nb\nc")
	if l.LineCount() != 3 {
		t.Errorf("expected 3 lines after edit, got %d", l.LineCount())
	}
	if l.LineStart(2) != 4 {
		t.Errorf("expected line 2 at 4, got %d", l.LineStart(2))
	}
}
