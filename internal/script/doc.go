// Package script runs Lua against a marker.Buffer and its selection.
//
// The host installs three global modules. Offsets are 0-based rune offsets.
//
//	buf   text, len, slice, revision, depth,
//	      insert, delete, replace, append,
//	      attach, move, detach, range, policy, query, next_transition, markers,
//	      observe, unobserve
//	sel   set, extend, remove, select_all, anchor, cursor, bounds, state,
//	      move_left, move_right, move_up, move_down,
//	      extend_left, extend_right, extend_up, extend_down,
//	      move_to_left_edge, move_to_right_edge,
//	      extend_to_left_edge, extend_to_right_edge
//	geom  line_of, line_start, line_end, column_of, offset_for_column
//
// Markers are named from Lua. A name's kind is the part before the first
// ':', so "bold:1" and "bold:2" are distinct markers of kind "bold".
//
// Lua observers registered with buf.observe receive one table per event:
//
//	buf.observe(function(ev)
//	  if ev.kind == "text" and buf.depth() < 3 then
//	    buf.insert(ev.start, "!")
//	  end
//	end)
//
// Observers may edit the buffer; the nested edit completes before the
// callback returns.
package script
