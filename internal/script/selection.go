package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/spanbuf/internal/engine/selection"
)

func (h *Host) registerSelection(L *lua.LState) {
	mod := L.NewTable()

	L.SetField(mod, "set", L.NewFunction(h.selSet))
	L.SetField(mod, "extend", L.NewFunction(h.selExtend))
	L.SetField(mod, "remove", L.NewFunction(h.selRemove))
	L.SetField(mod, "select_all", L.NewFunction(h.selSelectAll))
	L.SetField(mod, "anchor", L.NewFunction(h.selAnchor))
	L.SetField(mod, "cursor", L.NewFunction(h.selCursor))
	L.SetField(mod, "bounds", L.NewFunction(h.selBounds))
	L.SetField(mod, "state", L.NewFunction(h.selState))

	moves := map[string]func() bool{
		"move_left":            h.sel.MoveLeft,
		"move_right":           h.sel.MoveRight,
		"move_up":              h.sel.MoveUp,
		"move_down":            h.sel.MoveDown,
		"extend_left":          h.sel.ExtendLeft,
		"extend_right":         h.sel.ExtendRight,
		"extend_up":            h.sel.ExtendUp,
		"extend_down":          h.sel.ExtendDown,
		"move_to_left_edge":    h.sel.MoveToLeftEdge,
		"move_to_right_edge":   h.sel.MoveToRightEdge,
		"extend_to_left_edge":  h.sel.ExtendToLeftEdge,
		"extend_to_right_edge": h.sel.ExtendToRightEdge,
	}
	for name, move := range moves {
		move := move
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LBool(move()))
			return 1
		}))
	}

	L.SetGlobal("sel", mod)
}

// set(anchor, cursor) -> changed
func (h *Host) selSet(L *lua.LState) int {
	changed, err := h.sel.Set(L.CheckInt(1), L.CheckInt(2))
	if err != nil {
		L.RaiseError("sel.set: %v", err)
		return 0
	}
	L.Push(lua.LBool(changed))
	return 1
}

// extend(offset) -> changed
func (h *Host) selExtend(L *lua.LState) int {
	changed, err := h.sel.Extend(L.CheckInt(1))
	if err != nil {
		L.RaiseError("sel.extend: %v", err)
		return 0
	}
	L.Push(lua.LBool(changed))
	return 1
}

// remove() -> changed
func (h *Host) selRemove(L *lua.LState) int {
	L.Push(lua.LBool(h.sel.Remove()))
	return 1
}

// select_all() -> changed
func (h *Host) selSelectAll(L *lua.LState) int {
	L.Push(lua.LBool(h.sel.SelectAll()))
	return 1
}

// anchor() -> number | nil
func (h *Host) selAnchor(L *lua.LState) int {
	L.Push(offsetValue(h.sel.Anchor()))
	return 1
}

// cursor() -> number | nil
func (h *Host) selCursor(L *lua.LState) int {
	L.Push(offsetValue(h.sel.Cursor()))
	return 1
}

// bounds() -> start, end | nil
func (h *Host) selBounds(L *lua.LState) int {
	if h.sel.State() == selection.None {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(h.sel.Start()))
	L.Push(lua.LNumber(h.sel.End()))
	return 2
}

// state() -> "none" | "collapsed" | "range"
func (h *Host) selState(L *lua.LState) int {
	L.Push(lua.LString(h.sel.State().String()))
	return 1
}

func offsetValue(n int) lua.LValue {
	if n < 0 {
		return lua.LNil
	}
	return lua.LNumber(n)
}

func (h *Host) registerGeometry(L *lua.LState) {
	g := h.geom
	unary := map[string]func(int) int{
		"line_of":    g.LineOf,
		"line_start": g.LineStart,
		"line_end":   g.LineEnd,
		"column_of":  g.ColumnOf,
	}

	mod := L.NewTable()
	for name, fn := range unary {
		fn := fn
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			L.Push(lua.LNumber(fn(L.CheckInt(1))))
			return 1
		}))
	}
	L.SetField(mod, "offset_for_column", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(g.OffsetForColumn(L.CheckInt(1), L.CheckInt(2))))
		return 1
	}))

	L.SetGlobal("geom", mod)
}
