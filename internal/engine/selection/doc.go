// Package selection keeps a cursor or range selection on a marker.Buffer.
//
// A Selection stores its anchor and cursor as zero-width markers with
// ExclusiveInclusive policy, so a collapsed selection behaves like an
// insertion point: text typed at the cursor ends up before it. The buffer
// re-anchors both markers on every edit; the Selection itself holds no
// offsets.
//
// Vertical moves remember the column they started from in a helper marker
// placed at the cursor. Any horizontal move, explicit placement or text
// change forgets it.
//
//	buf := marker.New("hello\nworld")
//	sel, _ := selection.New(buf, geometry.New(buf))
//	sel.Set(3, 3)
//	sel.MoveDown()  // cursor at 9
//	sel.ExtendToRightEdge()
package selection
