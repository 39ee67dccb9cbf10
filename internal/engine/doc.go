// Package engine holds the marker-tracking text buffer used by spanbuf.
//
// The engine is built from several sub-packages:
//
//   - tag: opaque, comparable marker identities
//   - textstore: gap buffer holding the runes of the document
//   - notify: observer registry and synchronous, reentrant dispatch
//   - marker: the Buffer; marker table plus the splice/re-anchoring algorithm
//   - selection: cursor and range selection overlay built from markers
//   - geometry: a line/column collaborator for vertical navigation
//
// This package only carries the shared error values. Sub-packages wrap them
// with context, so callers should compare with errors.Is:
//
//	if err := buf.Splice(4, 2, marker.String("x"), 0, 1); errors.Is(err, engine.ErrOutOfRange) {
//	    // bad offsets
//	}
//
// # Basic Usage
//
//	buf := marker.New("hello, world")
//
//	bold := tag.New("bold")
//	buf.Attach(bold, 0, 5, marker.InclusiveExclusive)
//
//	// Insert at the marker's start: the MARK start stays put,
//	// the MARK end shifts right.
//	buf.Insert(0, ">> ")
//	start, end, _ := buf.RangeOf(bold) // 0, 8
//
// # Threading
//
// None of the engine types lock. A Buffer and the overlays built on it belong
// to a single owner; observers may call back into the Buffer from inside a
// notification and those calls complete before the notification returns.
package engine
