package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/spanbuf/internal/engine/marker"
	"github.com/dshills/spanbuf/internal/engine/tag"
)

const defaultPolicy = marker.InclusiveExclusive

func (h *Host) registerBuffer(L *lua.LState) {
	mod := L.NewTable()

	L.SetField(mod, "text", L.NewFunction(h.text))
	L.SetField(mod, "len", L.NewFunction(h.bufLen))
	L.SetField(mod, "slice", L.NewFunction(h.slice))
	L.SetField(mod, "revision", L.NewFunction(h.revision))
	L.SetField(mod, "depth", L.NewFunction(h.depth))
	L.SetField(mod, "insert", L.NewFunction(h.insert))
	L.SetField(mod, "delete", L.NewFunction(h.delete))
	L.SetField(mod, "replace", L.NewFunction(h.replace))
	L.SetField(mod, "append", L.NewFunction(h.appendText))
	L.SetField(mod, "attach", L.NewFunction(h.attach))
	L.SetField(mod, "move", L.NewFunction(h.move))
	L.SetField(mod, "detach", L.NewFunction(h.detach))
	L.SetField(mod, "range", L.NewFunction(h.rangeOf))
	L.SetField(mod, "policy", L.NewFunction(h.policyOf))
	L.SetField(mod, "query", L.NewFunction(h.query))
	L.SetField(mod, "next_transition", L.NewFunction(h.nextTransition))
	L.SetField(mod, "markers", L.NewFunction(h.markers))
	L.SetField(mod, "observe", L.NewFunction(h.observe))
	L.SetField(mod, "unobserve", L.NewFunction(h.unobserve))

	L.SetGlobal("buf", mod)
}

// text() -> string
func (h *Host) text(L *lua.LState) int {
	L.Push(lua.LString(h.buf.Text()))
	return 1
}

// len() -> number
// Returns the buffer length in runes.
func (h *Host) bufLen(L *lua.LState) int {
	L.Push(lua.LNumber(h.buf.Len()))
	return 1
}

// slice(start, end) -> string
func (h *Host) slice(L *lua.LState) int {
	s, err := h.buf.TextRange(L.CheckInt(1), L.CheckInt(2))
	if err != nil {
		L.RaiseError("slice: %v", err)
		return 0
	}
	L.Push(lua.LString(s))
	return 1
}

// revision() -> number
func (h *Host) revision(L *lua.LState) int {
	L.Push(lua.LNumber(h.buf.Revision()))
	return 1
}

// depth() -> number
// Returns the number of edits in flight; 1 or more inside an observer.
func (h *Host) depth(L *lua.LState) int {
	L.Push(lua.LNumber(h.buf.Depth()))
	return 1
}

// insert(offset, text)
func (h *Host) insert(L *lua.LState) int {
	if err := h.buf.Insert(L.CheckInt(1), L.CheckString(2)); err != nil {
		L.RaiseError("insert: %v", err)
	}
	return 0
}

// delete(start, end)
func (h *Host) delete(L *lua.LState) int {
	if err := h.buf.Delete(L.CheckInt(1), L.CheckInt(2)); err != nil {
		L.RaiseError("delete: %v", err)
	}
	return 0
}

// replace(start, end, text)
func (h *Host) replace(L *lua.LState) int {
	if err := h.buf.Replace(L.CheckInt(1), L.CheckInt(2), L.CheckString(3)); err != nil {
		L.RaiseError("replace: %v", err)
	}
	return 0
}

// append(text)
func (h *Host) appendText(L *lua.LState) int {
	if err := h.buf.Append(L.CheckString(1)); err != nil {
		L.RaiseError("append: %v", err)
	}
	return 0
}

// attach(name, start, end [, policy])
// policy uses the Policy string form, e.g. "EXCLUSIVE_INCLUSIVE|PRIORITY".
func (h *Host) attach(L *lua.LState) int {
	name := L.CheckString(1)
	start, end := L.CheckInt(2), L.CheckInt(3)
	policy := defaultPolicy
	if L.GetTop() >= 4 {
		p, ok := marker.ParsePolicy(L.CheckString(4))
		if !ok {
			L.ArgError(4, "unknown policy")
			return 0
		}
		policy = p
	}

	t, _ := h.tagFor(name, true)
	if err := h.buf.Attach(t, start, end, policy); err != nil {
		L.RaiseError("attach: %v", err)
	}
	return 0
}

// move(name, start, end)
// Raises an error when name is not attached.
func (h *Host) move(L *lua.LState) int {
	name := L.CheckString(1)
	start, end := L.CheckInt(2), L.CheckInt(3)
	t, _ := h.tagFor(name, false)
	if err := h.buf.Move(t, start, end); err != nil {
		L.RaiseError("move: %v", err)
	}
	return 0
}

// detach(name)
func (h *Host) detach(L *lua.LState) int {
	if t, ok := h.tagFor(L.CheckString(1), false); ok {
		h.buf.Detach(t)
	}
	return 0
}

// range(name) -> start, end | nil
func (h *Host) rangeOf(L *lua.LState) int {
	t, ok := h.tagFor(L.CheckString(1), false)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	start, end, ok := h.buf.RangeOf(t)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(start))
	L.Push(lua.LNumber(end))
	return 2
}

// policy(name) -> string | nil
func (h *Host) policyOf(L *lua.LState) int {
	t, ok := h.tagFor(L.CheckString(1), false)
	if !ok || !h.buf.Attached(t) {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(h.buf.PolicyOf(t).String()))
	return 1
}

// query(start, end [, kind]) -> {name...}
func (h *Host) query(L *lua.LState) int {
	tags := h.buf.Query(L.CheckInt(1), L.CheckInt(2), tag.Kind(L.OptString(3, "")))
	out := L.NewTable()
	for _, t := range tags {
		out.Append(lua.LString(h.nameOf(t)))
	}
	L.Push(out)
	return 1
}

// next_transition(start, end [, kind]) -> number
func (h *Host) nextTransition(L *lua.LState) int {
	n := h.buf.NextTransition(L.CheckInt(1), L.CheckInt(2), tag.Kind(L.OptString(3, "")))
	L.Push(lua.LNumber(n))
	return 1
}

// markers() -> {{name=, start=, end=, policy=}...}
func (h *Host) markers(L *lua.LState) int {
	out := L.NewTable()
	for _, m := range h.buf.Markers() {
		row := L.NewTable()
		L.SetField(row, "name", lua.LString(h.nameOf(m.Tag)))
		L.SetField(row, "start", lua.LNumber(m.Start))
		L.SetField(row, "end", lua.LNumber(m.End))
		L.SetField(row, "policy", lua.LString(m.Policy.String()))
		out.Append(row)
	}
	L.Push(out)
	return 1
}
