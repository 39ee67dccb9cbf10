package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/spanbuf/internal/engine/notify"
	"github.com/dshills/spanbuf/internal/engine/tag"
)

// observe(fn) -> id
// Registers fn as a buffer observer. fn receives one event table per
// notification.
func (h *Host) observe(L *lua.LState) int {
	fn := L.CheckFunction(1)

	h.nextObs++
	id := h.nextObs
	t := tag.New("script.observer")

	deliver := func(ev notify.Event) { h.call(id, fn, ev) }
	err := h.buf.Register(t, notify.Funcs{
		OnAttached: func(mt tag.Tag, start, end int) {
			deliver(notify.Attached(mt, start, end))
		},
		OnDetached: func(mt tag.Tag, start, end int) {
			deliver(notify.Detached(mt, start, end))
		},
		OnMoved: func(mt tag.Tag, os, oe, ns, ne int) {
			deliver(notify.Moved(mt, os, oe, ns, ne))
		},
		OnTextChanged: func(start, oldLen, newLen int) {
			deliver(notify.TextChanged(start, oldLen, newLen))
		},
	})
	if err != nil {
		L.RaiseError("observe: %v", err)
		return 0
	}
	h.observers[id] = t

	L.Push(lua.LNumber(id))
	return 1
}

// unobserve(id) -> bool
func (h *Host) unobserve(L *lua.LState) int {
	id := L.CheckInt(1)
	t, ok := h.observers[id]
	if ok {
		delete(h.observers, id)
		ok = h.buf.Unregister(t) == nil
	}
	L.Push(lua.LBool(ok))
	return 1
}

// call runs one Lua observer. Errors cannot propagate through the buffer,
// so they are logged and counted.
func (h *Host) call(id int, fn *lua.LFunction, ev notify.Event) {
	err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, h.eventTable(ev))
	if err != nil {
		h.failures++
		h.log.Error("observer %d failed on %s: %v", id, ev, err)
	}
}

// eventTable converts ev into the table passed to Lua observers.
func (h *Host) eventTable(ev notify.Event) *lua.LTable {
	L := h.L
	t := L.NewTable()
	switch ev.Kind {
	case notify.KindTextChanged:
		L.SetField(t, "kind", lua.LString("text"))
		L.SetField(t, "start", lua.LNumber(ev.Start))
		L.SetField(t, "old_len", lua.LNumber(ev.OldLen))
		L.SetField(t, "new_len", lua.LNumber(ev.NewLen))
		return t
	case notify.KindMoved:
		L.SetField(t, "old_start", lua.LNumber(ev.OldStart))
		L.SetField(t, "old_end", lua.LNumber(ev.OldEnd))
	}
	L.SetField(t, "kind", lua.LString(ev.Kind.String()))
	L.SetField(t, "name", lua.LString(h.nameOf(ev.Tag)))
	L.SetField(t, "start", lua.LNumber(ev.Start))
	L.SetField(t, "end", lua.LNumber(ev.End))
	return t
}
