// Package marker implements Buffer, a mutable rune sequence that carries
// tagged ranges (markers) and keeps them attached to the text across edits.
//
// # Roles
//
// Each marker boundary has a role that decides where it goes when an edit
// covers it:
//
//   - Mark boundaries move to the leading edge of the inserted text.
//   - Point boundaries move to the trailing edge of the inserted text.
//
// A Policy combines a start role and an end role:
//
//	ExclusiveExclusive  (POINT, MARK)   removed when an edit empties it
//	ExclusiveInclusive  (POINT, POINT)
//	InclusiveExclusive  (MARK, MARK)
//	InclusiveInclusive  (MARK, POINT)
//
// Boundaries strictly before an edit never move, and boundaries strictly
// after it shift by the change in length. When a non-empty range is replaced
// by non-empty text, a Mark sitting on the far edge and a Point sitting on
// the near edge keep their side of the edit.
//
// # Splicing
//
// Splice is the only text mutation; Insert, Delete, Append and Replace wrap
// it. The replacement may be any Content. If it is MarkedContent (another
// Buffer, or a Sub window of one), the markers overlapping the copied range
// are imported, clipped to the inserted text.
//
// After the text and the marker table are updated, registered observers are
// notified synchronously: moved and detached events in attachment order, then
// attached events for imported markers, then a single TextChanged. Observers
// may splice the buffer again from inside a callback; Depth reports how
// many splices are in flight.
package marker
