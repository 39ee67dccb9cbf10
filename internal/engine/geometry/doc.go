// Package geometry maps rune offsets of a text to lines and display columns.
//
// Lines split after '\n'. A line's end offset excludes its newline, and a
// text ending in '\n' has an empty last line. Columns are terminal cells:
// grapheme clusters count with their display width (wide characters take
// two cells) and tabs advance to the next tab stop.
//
// Lines rebuilds its newline index lazily whenever the source reports a new
// Revision, so one Lines can follow a marker.Buffer through any number of
// edits.
package geometry
